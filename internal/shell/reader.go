package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ErrInterrupted is returned by a LineReader when a signal cut the read
// short. The loop treats it as a blank line.
var ErrInterrupted = errors.New("input interrupted")

// LineReader yields one line of input per call and io.EOF at end of input.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// NewLineReader uses readline on a terminal and a buffered reader
// otherwise. onSuspend is called for Ctrl-Z typed at the prompt, because
// readline reads it as a byte instead of letting the terminal raise SIGTSTP.
func NewLineReader(prompt string, historySize int, in *os.File, out io.Writer, onSuspend func()) (LineReader, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return &plainReader{in: bufio.NewReader(in), out: out, prompt: prompt}, nil
	}

	limit := historySize
	if limit == 0 {
		limit = -1
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 prompt,
		Stdin:                  in,
		HistoryLimit:           limit,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == readline.CharCtrlZ {
				onSuspend()
				return r, false
			}
			return r, true
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	return &terminalReader{rl: rl}, nil
}

type terminalReader struct {
	rl *readline.Instance
}

func (r *terminalReader) Readline() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	return line, err
}

// Remember adds line to the in-memory history used for recall.
func (r *terminalReader) Remember(line string) {
	_ = r.rl.SaveHistory(line)
}

func (r *terminalReader) Close() error {
	return r.rl.Close()
}

type plainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

func (r *plainReader) Readline() (string, error) {
	fmt.Fprint(r.out, r.prompt)
	line, err := r.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		return line, nil
	}
	return line, err
}

func (r *plainReader) Close() error { return nil }
