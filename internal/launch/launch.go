// Package launch runs a command line in a fresh process.
//
// A Go program cannot execute code between fork and exec, so the
// interpreter starts itself again with Arg0 as argv[0]. That helper sets
// the signal dispositions the command needs, applies redirections, and
// replaces its own image with the program. The pid the interpreter tracks
// is therefore the program's pid.
package launch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"smallsh/internal/redirect"
)

const (
	// Arg0 marks a process started as the launch helper.
	Arg0 = "smallsh-launch"

	// ExitFailure is the status of a helper that could not run its command.
	ExitFailure = 1

	modeForeground = "fg"
	modeBackground = "bg"
)

// Streams are the descriptors handed to a launched command.
type Streams struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Command builds the helper invocation for args. self is the path of the
// interpreter executable.
func Command(self string, args []string, background bool, streams Streams) *exec.Cmd {
	mode := modeForeground
	if background {
		mode = modeBackground
	}
	return &exec.Cmd{
		Path:   self,
		Args:   append([]string{Arg0, mode}, args...),
		Stdin:  streams.Stdin,
		Stdout: streams.Stdout,
		Stderr: streams.Stderr,
	}
}

// IsHelper reports whether the current process was started by Command.
func IsHelper() bool {
	return len(os.Args) > 0 && os.Args[0] == Arg0
}

// Main is the helper entry point. It only returns control to the caller
// by exiting.
func Main() {
	os.Exit(run(os.Args[1:], os.Stderr, unix.Exec))
}

type execFunc func(argv0 string, argv []string, envv []string) error

func run(argv []string, stderr io.Writer, execve execFunc) int {
	if len(argv) == 0 {
		fmt.Fprintln(stderr, "smallsh: launch: missing mode")
		return ExitFailure
	}
	mode, args := argv[0], argv[1:]

	var background bool
	switch mode {
	case modeForeground:
	case modeBackground:
		background = true
	default:
		fmt.Fprintf(stderr, "smallsh: launch: unknown mode %q\n", mode)
		return ExitFailure
	}

	// Ignored dispositions survive exec. SIGINT is already at its default
	// here because the interpreter catches it instead of ignoring it.
	signal.Ignore(syscall.SIGTSTP)
	if background {
		signal.Ignore(syscall.SIGINT)
	}

	plan, err := redirect.Build(args, background)
	if err != nil {
		fmt.Fprintf(stderr, "smallsh: %v\n", err)
		return ExitFailure
	}
	if err := plan.Apply(); err != nil {
		fmt.Fprintf(stderr, "smallsh: %v\n", err)
		return ExitFailure
	}

	name := plan.Args[0]
	path, err := exec.LookPath(name)
	// A "." entry in PATH is honoured the way execvp honours it.
	if errors.Is(err, exec.ErrDot) && path != "" {
		err = nil
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(stderr, "%s: command not found\n", name)
		} else {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
		}
		return ExitFailure
	}

	err = execve(path, plan.Args, os.Environ())
	fmt.Fprintf(stderr, "%s: cannot execute: %v\n", name, err)
	return ExitFailure
}
