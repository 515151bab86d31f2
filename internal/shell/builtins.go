package shell

import (
	"errors"
	"fmt"
	"os"
)

func (s *Shell) executeBuiltin(args []string) (bool, error) {
	switch args[0] {
	case "cd":
		return true, s.changeDirectory(args[1:])
	case "exit":
		return true, s.exit()
	case "status":
		fmt.Fprintln(s.out, s.state.Last)
		return true, nil
	default:
		return false, nil
	}
}

// changeDirectory goes to $HOME without arguments and ignores anything
// past the first argument.
func (s *Shell) changeDirectory(args []string) error {
	dir := os.Getenv("HOME")
	if dir == "" {
		dir = s.config.HomeDir
	}
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("cd: HOME not set")
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %s: cannot enter directory: %w", dir, err)
	}
	return nil
}

// exit asks every background job to terminate and ends the loop. It does
// not wait for the jobs.
func (s *Shell) exit() error {
	s.exiting = true
	pids := make([]int, 0, s.state.Jobs.Len())
	for _, r := range s.state.Jobs.Active() {
		pids = append(pids, r.PID)
	}
	s.log.Info("exiting", "background_pids", pids)
	if err := s.state.Jobs.TerminateAll(); err != nil {
		return fmt.Errorf("exit: %w", err)
	}
	return nil
}
