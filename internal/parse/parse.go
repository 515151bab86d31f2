// Package parse turns one line of input into a Command.
//
// The grammar is deliberately small: space separated words, an optional
// trailing " &" and the "$$" substitution. There is no quoting.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxLineLength is the longest accepted input line, in bytes.
	MaxLineLength = 2048
	// MaxArgs is the largest accepted number of words on one line.
	MaxArgs = 512

	backgroundSuffix = " &"
	pidToken         = "$$"
)

var (
	ErrLineTooLong = fmt.Errorf("line exceeds %d bytes", MaxLineLength)
	ErrTooManyArgs = fmt.Errorf("more than %d arguments", MaxArgs)
)

// Command is a parsed line. The zero value is the blank command produced
// by empty lines, whitespace and comments.
type Command struct {
	Args       []string
	Background bool
}

// Blank reports whether the command has nothing to run.
func (c Command) Blank() bool {
	return len(c.Args) == 0
}

// Name is the first word, or "" for a blank command.
func (c Command) Name() string {
	if c.Blank() {
		return ""
	}
	return c.Args[0]
}

// Tokenizer holds what parsing needs from the interpreter: its pid for
// "$$" and whether the background marker is currently honoured.
type Tokenizer struct {
	PID               int
	BackgroundEnabled func() bool
}

// Parse splits line into a Command.
func (t Tokenizer) Parse(line string) (Command, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if len(line) > MaxLineLength {
		return Command{}, ErrLineTooLong
	}

	var cmd Command
	if strings.HasSuffix(line, backgroundSuffix) {
		line = strings.TrimSuffix(line, backgroundSuffix)
		cmd.Background = t.BackgroundEnabled == nil || t.BackgroundEnabled()
	}

	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "#") {
		return Command{}, nil
	}

	if strings.TrimSpace(line) == "" {
		return Command{}, nil
	}

	line = strings.ReplaceAll(line, pidToken, strconv.Itoa(t.PID))

	// Only spaces separate words; a tab stays inside its word.
	args := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' })
	if len(args) > MaxArgs {
		return Command{}, ErrTooManyArgs
	}
	cmd.Args = args
	return cmd, nil
}

// IsLimit reports whether err is one of the capacity errors above.
func IsLimit(err error) bool {
	return errors.Is(err, ErrLineTooLong) || errors.Is(err, ErrTooManyArgs)
}
