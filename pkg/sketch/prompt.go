package sketch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/etchgrid/pkg/errors"
)

// Prompter asks the user for a line of text.
// ok is false when the user dismissed the prompt.
type Prompter interface {
	Prompt(message string) (answer string, ok bool)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(message string) (string, bool)

// Prompt calls f(message).
func (f PrompterFunc) Prompt(message string) (string, bool) { return f(message) }

// SizePrompt is the message shown when asking for a new grid size.
var SizePrompt = fmt.Sprintf("Enter a new size (%d-%d):", MinSize, MaxSize)

// ParseSize parses a size answer as a base-10 integer within
// [MinSize, MaxSize]. Surrounding whitespace is ignored.
func ParseSize(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidSize, "size is empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidSize, "size %q is not a whole number", s)
	}
	if err := ValidateSize(n); err != nil {
		return 0, err
	}
	return n, nil
}

// isCancel reports whether a prompt answer abandons the resize.
// Only a dismissed prompt or a literally empty answer cancels; "  " or "0"
// are invalid answers and are asked again.
func isCancel(answer string, ok bool) bool {
	return !ok || answer == ""
}
