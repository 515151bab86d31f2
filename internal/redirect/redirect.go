// Package redirect extracts "<" and ">" operators from an argument list and
// applies them to the standard streams of the current process.
package redirect

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	inputOp  = "<"
	outputOp = ">"
)

var (
	ErrMissingTarget  = errors.New("missing redirection target")
	ErrMissingCommand = errors.New("missing command")
)

type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

func (d Direction) flags() int {
	if d == Input {
		return unix.O_RDONLY | unix.O_CLOEXEC
	}
	return unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC
}

// Action sends one standard stream to Path.
type Action struct {
	Direction Direction
	Path      string
}

// Plan is an argument list with its redirections removed.
type Plan struct {
	Args    []string
	Actions []Action
}

// OpenError reports a redirection target that could not be opened.
type OpenError struct {
	Direction Direction
	Path      string
	Err       error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open '%s' for %s: %v", e.Path, e.Direction, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Build scans args left to right. Each operator and the word after it
// become an Action. Background commands get os.DevNull for any direction
// that was not redirected explicitly. Actions are in application order,
// so a later redirection of the same stream wins.
func Build(args []string, background bool) (Plan, error) {
	clean := append([]string(nil), args...)
	var actions []Action
	var haveIn, haveOut bool

	for i := 0; i < len(clean); {
		var dir Direction
		switch clean[i] {
		case inputOp:
			dir, haveIn = Input, true
		case outputOp:
			dir, haveOut = Output, true
		default:
			i++
			continue
		}
		if i+1 >= len(clean) {
			return Plan{}, fmt.Errorf("%w after '%s'", ErrMissingTarget, clean[i])
		}
		actions = append(actions, Action{Direction: dir, Path: clean[i+1]})
		// Stay on i: the shift may have moved another operator here.
		clean = append(clean[:i], clean[i+2:]...)
	}

	if len(clean) == 0 {
		return Plan{}, ErrMissingCommand
	}

	if background {
		var defaults []Action
		if !haveIn {
			defaults = append(defaults, Action{Direction: Input, Path: os.DevNull})
		}
		if !haveOut {
			defaults = append(defaults, Action{Direction: Output, Path: os.DevNull})
		}
		actions = append(defaults, actions...)
	}
	return Plan{Args: clean, Actions: actions}, nil
}

// Apply opens every target and duplicates it onto the matching standard
// descriptor of the calling process. It is meant to run in a process that
// is about to replace its image.
func (p Plan) Apply() error {
	return p.ApplyTo(unix.Stdin, unix.Stdout)
}

// ApplyTo is Apply with explicit input and output descriptors.
func (p Plan) ApplyTo(in, out int) error {
	for _, a := range p.Actions {
		target := out
		if a.Direction == Input {
			target = in
		}
		fd, err := unix.Open(a.Path, a.Direction.flags(), 0o644)
		if err != nil {
			return &OpenError{Direction: a.Direction, Path: a.Path, Err: err}
		}
		if err := unix.Dup3(fd, target, 0); err != nil {
			unix.Close(fd)
			return fmt.Errorf("redirect %s to '%s': %w", a.Direction, a.Path, err)
		}
		unix.Close(fd)
	}
	return nil
}
