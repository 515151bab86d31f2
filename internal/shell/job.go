package shell

import (
	"fmt"

	"github.com/kballard/go-shellquote"

	"smallsh/internal/jobs"
	"smallsh/internal/launch"
	"smallsh/internal/logging"
	"smallsh/internal/parse"
)

// Launcher starts commands through the launch helper.
type Launcher struct {
	self    string
	streams launch.Streams
	log     logging.Logger
}

func NewLauncher(self string, streams launch.Streams, log logging.Logger) *Launcher {
	return &Launcher{self: self, streams: streams, log: log}
}

// Start spawns cmd and returns its pid without waiting for it.
func (l *Launcher) Start(cmd parse.Command) (int, error) {
	c := launch.Command(l.self, cmd.Args, cmd.Background, l.streams)
	if err := c.Start(); err != nil {
		l.log.Warn("spawn failed", "argv", shellquote.Join(cmd.Args...), "error", err)
		return 0, fmt.Errorf("%s: cannot spawn process: %w", cmd.Name(), err)
	}
	pid := c.Process.Pid
	// The pid is waited for with wait4 directly.
	_ = c.Process.Release()

	l.log.Debug("spawned", "pid", pid, "background", cmd.Background, "argv", shellquote.Join(cmd.Args...))
	return pid, nil
}

func (s *Shell) runExternal(cmd parse.Command) error {
	if cmd.Background && !s.state.Jobs.HasRoom() {
		s.log.Warn("background request rejected", "argv", shellquote.Join(cmd.Args...), "slots", s.state.Jobs.Cap())
		return fmt.Errorf("%s: %w (%d slots)", cmd.Name(), jobs.ErrTableFull, s.state.Jobs.Cap())
	}

	pid, err := s.launcher.Start(cmd)
	if err != nil {
		return err
	}

	if cmd.Background {
		fmt.Fprintf(s.out, "background pid is '%d'\n", pid)
		if _, err := s.state.Jobs.Add(pid); err != nil {
			return err
		}
		return nil
	}

	st, err := jobs.Wait(pid)
	if err != nil {
		return err
	}
	s.state.Last = st
	s.log.Debug("foreground done", "pid", pid, "status", st.String())
	if st.Signaled {
		fmt.Fprintln(s.out, st)
	}
	return nil
}

// reapJobs reports background jobs that finished since the last prompt.
func (s *Shell) reapJobs() {
	done, errs := s.state.Jobs.Poll()
	for _, c := range done {
		fmt.Fprintln(s.out, c)
		s.log.Info("background job done", "pid", c.PID, "slot", c.Slot, "status", c.Status.String())
	}
	for _, err := range errs {
		s.log.Warn("background job lost", "error", err)
	}
}
