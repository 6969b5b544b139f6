// Package script drives a grid controller from a line-oriented text script.
//
// Scripts let a drawing be reproduced without a pointer device, which the
// CLI uses for "etchgrid run" and the tests use for end-to-end checks. One
// command per line:
//
//	# comment
//	seed 42              reseed the rainbow generator
//	mode greyscale       black | greyscale | rainbow
//	hover 3 4            fill the cell at row 3, column 4
//	fill 3 4 10          hover the same cell 10 times
//	clear                whiten every cell
//	size 32              resize in one attempt
//	size                 prompt for a size; answers follow on the next lines
//
// After a bare "size", each following line is a prompt answer until one is
// accepted. "cancel" or an empty line abandons the resize, as does the end
// of the script. Rejected answers are logged and asked again.
package script

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// MaxFillCount bounds the repeat count of a fill command.
const MaxFillCount = 1000

// Result summarizes a run.
type Result struct {
	Lines    int // lines read, including answers to size prompts
	Commands int // commands executed
	Resizes  int // successful resizes
}

// Runner executes scripts against one controller.
type Runner struct {
	ctl    *sketch.Controller
	logger *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for per-command debug output.
func WithLogger(l *log.Logger) Option { return func(r *Runner) { r.logger = l } }

// New creates a runner for ctl.
func New(ctl *sketch.Controller, opts ...Option) *Runner {
	r := &Runner{ctl: ctl, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every command in src. It stops at the first failing line and
// returns an error naming that line; the error keeps the code of the
// underlying failure (for example OUT_OF_BOUNDS), or INVALID_INPUT for
// unparseable lines.
func (r *Runner) Run(ctx context.Context, src io.Reader) (Result, error) {
	lines := &lineReader{sc: bufio.NewScanner(src)}
	var res Result

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		text, ok := lines.next()
		if !ok {
			break
		}
		fields := strings.Fields(text)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		lineNo := lines.n
		resized, err := r.exec(fields, lines)
		if err != nil {
			res.Lines = lines.n
			return res, lineError(lineNo, err)
		}
		res.Commands++
		if resized {
			res.Resizes++
		}
		r.logger.Debug("script", "line", lineNo, "cmd", fields[0], "size", r.ctl.Size(), "mode", r.ctl.Mode())
	}
	if err := lines.sc.Err(); err != nil {
		return res, errors.Wrap(errors.ErrCodeInvalidInput, err, "read script")
	}
	res.Lines = lines.n
	return res, nil
}

func (r *Runner) exec(fields []string, lines *lineReader) (resized bool, err error) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "mode":
		if err := wantArgs(cmd, args, 1); err != nil {
			return false, err
		}
		m, err := sketch.ParseMode(args[0])
		if err != nil {
			return false, err
		}
		return false, r.ctl.Dispatch(sketch.ModeEvent{Mode: m})

	case "hover":
		if err := wantArgs(cmd, args, 2); err != nil {
			return false, err
		}
		row, col, err := cell(args)
		if err != nil {
			return false, err
		}
		return false, r.ctl.Dispatch(sketch.HoverEvent{Row: row, Col: col})

	case "fill":
		if len(args) != 2 && len(args) != 3 {
			return false, errors.New(errors.ErrCodeInvalidInput, "fill takes <row> <col> [count]")
		}
		row, col, err := cell(args)
		if err != nil {
			return false, err
		}
		count := 1
		if len(args) == 3 {
			count, err = atoi("count", args[2])
			if err != nil {
				return false, err
			}
			if count < 1 || count > MaxFillCount {
				return false, errors.New(errors.ErrCodeInvalidInput, "count %d outside 1-%d", count, MaxFillCount)
			}
		}
		for i := 0; i < count; i++ {
			if err := r.ctl.Dispatch(sketch.HoverEvent{Row: row, Col: col}); err != nil {
				return false, err
			}
		}
		return false, nil

	case "clear":
		if err := wantArgs(cmd, args, 0); err != nil {
			return false, err
		}
		return false, r.ctl.Dispatch(sketch.ClearEvent{})

	case "size":
		switch len(args) {
		case 0:
			return r.ctl.ChangeSize(linePrompter{lines: lines, logger: r.logger})
		case 1:
			if err := r.ctl.Dispatch(sketch.ResizeEvent{Input: args[0]}); err != nil {
				return false, err
			}
			return true, nil
		default:
			return false, errors.New(errors.ErrCodeInvalidInput, "size takes at most one argument")
		}

	case "seed":
		if err := wantArgs(cmd, args, 1); err != nil {
			return false, err
		}
		seed, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return false, errors.New(errors.ErrCodeInvalidInput, "seed %q is not an unsigned integer", args[0])
		}
		r.ctl.Reseed(seed)
		return false, nil

	default:
		return false, errors.New(errors.ErrCodeInvalidInput, "unknown command %q", fields[0])
	}
}

// lineReader counts lines so errors and prompts can report positions.
type lineReader struct {
	sc *bufio.Scanner
	n  int
}

func (l *lineReader) next() (string, bool) {
	if !l.sc.Scan() {
		return "", false
	}
	l.n++
	return l.sc.Text(), true
}

// linePrompter answers size prompts from the following script lines.
type linePrompter struct {
	lines  *lineReader
	logger *log.Logger
}

func (p linePrompter) Prompt(message string) (string, bool) {
	text, ok := p.lines.next()
	if !ok {
		return "", false
	}
	answer := strings.TrimSpace(text)
	p.logger.Debug("prompt", "message", message, "answer", answer, "line", p.lines.n)
	if strings.EqualFold(answer, "cancel") {
		return "", true
	}
	if answer == "" {
		return "", true
	}
	return text, true
}

func wantArgs(cmd string, args []string, n int) error {
	if len(args) != n {
		return errors.New(errors.ErrCodeInvalidInput, "%s takes %d argument(s), got %d", cmd, n, len(args))
	}
	return nil
}

func cell(args []string) (row, col int, err error) {
	if row, err = atoi("row", args[0]); err != nil {
		return 0, 0, err
	}
	if col, err = atoi("col", args[1]); err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

func atoi(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s %q is not an integer", what, s)
	}
	return n, nil
}

func lineError(line int, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInvalidInput
	}
	return errors.Wrap(code, err, "line %d", line)
}
