// Package shell is the interactive interpreter: it reads a line, runs it
// as a builtin or an external program, and keeps track of background jobs.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"smallsh/internal/config"
	"smallsh/internal/history"
	"smallsh/internal/launch"
	"smallsh/internal/logging"
	"smallsh/internal/parse"
)

type Shell struct {
	config    *config.Config
	log       logging.Logger
	history   *history.History
	state     *State
	tokenizer parse.Tokenizer
	launcher  *Launcher
	signals   *SignalController
	reader    LineReader
	streams   launch.Streams
	self      string
	out       io.Writer
	errOut    io.Writer
	exiting   bool
}

type Option func(*Shell)

func WithLogger(log logging.Logger) Option {
	return func(s *Shell) { s.log = log }
}

// WithReader replaces the stdin-based line reader.
func WithReader(r LineReader) Option {
	return func(s *Shell) { s.reader = r }
}

// WithOutput sets where the interpreter's own messages go.
func WithOutput(out, errOut io.Writer) Option {
	return func(s *Shell) {
		s.out = out
		s.errOut = errOut
	}
}

// WithStreams sets the descriptors launched commands inherit. Toggle
// announcements are written to streams.Stdout as well.
func WithStreams(streams launch.Streams) Option {
	return func(s *Shell) { s.streams = streams }
}

// WithExecutable sets the binary used as the launch helper.
func WithExecutable(path string) Option {
	return func(s *Shell) { s.self = path }
}

func New(cfg *config.Config, opts ...Option) (*Shell, error) {
	s := &Shell{
		config: cfg,
		log:    logging.NoOpLogger{},
		state:  NewState(cfg.MaxJobs),
		streams: launch.Streams{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.self == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("error locating executable: %w", err)
		}
		s.self = self
	}

	hist, err := history.New(cfg.HistoryFile, cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("error initializing history: %w", err)
	}
	s.history = hist

	s.tokenizer = parse.Tokenizer{PID: os.Getpid(), BackgroundEnabled: s.state.BackgroundEnabled}
	s.launcher = NewLauncher(s.self, s.streams, s.log)
	s.signals = NewSignalController(s.state, int(s.streams.Stdout.Fd()))

	if s.reader == nil {
		r, err := NewLineReader(cfg.Prompt, cfg.HistorySize, s.streams.Stdin, s.out, s.signals.Toggle)
		if err != nil {
			return nil, err
		}
		s.reader = r
		if rem, ok := r.(interface{ Remember(string) }); ok {
			for _, item := range hist.GetAll() {
				rem.Remember(item)
			}
		}
	}
	return s, nil
}

// State exposes the interpreter state.
func (s *Shell) State() *State { return s.state }

// Run reads and executes lines until exit or end of input.
func (s *Shell) Run() error {
	s.signals.Start()
	defer s.signals.Stop()
	defer s.reader.Close()

	s.log.Info("interpreter started", "pid", s.tokenizer.PID, "max_jobs", s.state.Jobs.Cap())

	for !s.exiting {
		s.reapJobs()

		line, err := s.reader.Readline()
		switch {
		case errors.Is(err, ErrInterrupted):
			line = ""
		case errors.Is(err, io.EOF):
			if err := s.exit(); err != nil {
				fmt.Fprintln(s.errOut, err)
			}
			continue
		case err != nil:
			return fmt.Errorf("error reading input: %w", err)
		}

		if strings.TrimSpace(line) != "" {
			s.remember(line)
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintln(s.errOut, err)
		}
	}
	return nil
}

// Execute runs a single line.
func (s *Shell) Execute(line string) error {
	cmd, err := s.tokenizer.Parse(line)
	if parse.IsLimit(err) {
		return fmt.Errorf("input rejected: %w", err)
	}
	if err != nil {
		return err
	}
	if cmd.Blank() {
		return nil
	}
	if ok, err := s.executeBuiltin(cmd.Args); ok {
		return err
	}
	return s.runExternal(cmd)
}

func (s *Shell) remember(line string) {
	line = strings.TrimRight(line, "\r\n")
	if err := s.history.Add(line); err != nil {
		s.log.Warn("history not saved", "error", err)
	}
	if rem, ok := s.reader.(interface{ Remember(string) }); ok {
		rem.Remember(line)
	}
}
