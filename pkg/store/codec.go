package store

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/etchgrid/pkg/errors"
)

func encodeRecord(rec Record) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode sketch %q", rec.Name)
	}
	return data, nil
}

func decodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "decode sketch")
	}
	return rec, nil
}

// index is the sorted list of saved names.
type index []string

func (ix index) add(name string) index {
	i := sort.SearchStrings(ix, name)
	if i < len(ix) && ix[i] == name {
		return ix
	}
	ix = append(ix, "")
	copy(ix[i+1:], ix[i:])
	ix[i] = name
	return ix
}

func (ix index) remove(name string) index {
	i := sort.SearchStrings(ix, name)
	if i < len(ix) && ix[i] == name {
		return append(ix[:i], ix[i+1:]...)
	}
	return ix
}

func encodeIndex(ix index) ([]byte, error) {
	return yaml.Marshal([]string(ix))
}

func decodeIndex(data []byte) (index, error) {
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode sketch index")
	}
	sort.Strings(names)
	return index(names), nil
}
