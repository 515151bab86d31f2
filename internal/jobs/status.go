package jobs

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Status is how a process ended: an exit code, or the signal that killed it.
type Status struct {
	Code     int
	Signaled bool
}

func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("terminated by signal: %d", s.Code)
	}
	return fmt.Sprintf("exit status: %d", s.Code)
}

// Classify converts a wait status. ok is false for states that are not a
// termination (stopped, continued).
func Classify(ws unix.WaitStatus) (st Status, ok bool) {
	switch {
	case ws.Exited():
		return Status{Code: ws.ExitStatus()}, true
	case ws.Signaled():
		return Status{Code: int(ws.Signal()), Signaled: true}, true
	default:
		return Status{}, false
	}
}

// Wait blocks until pid terminates and returns its Status.
func Wait(pid int) (Status, error) {
	for {
		var ws unix.WaitStatus
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return Status{}, fmt.Errorf("wait for pid %d: %w", pid, err)
		}
		if st, ok := Classify(ws); ok {
			return st, nil
		}
	}
}
