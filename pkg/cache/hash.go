package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SnapshotHash hashes the size and cell colors of a snapshot. The mode is
// left out because it never affects how a drawing looks.
func SnapshotHash(s sketch.Snapshot) string {
	buf := make([]byte, 0, 2+3*len(s.Cells))
	buf = append(buf, byte(s.Size>>8), byte(s.Size))
	for _, c := range s.Cells {
		buf = append(buf, c.R, c.G, c.B)
	}
	return Hash(buf)
}
