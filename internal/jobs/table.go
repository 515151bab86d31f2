// Package jobs tracks background processes in a fixed number of slots and
// reaps them by polling.
//
// A Table is not safe for concurrent use. The interpreter owns it and
// touches it from its main loop only.
package jobs

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// DefaultCapacity is the number of slots used when none is configured.
const DefaultCapacity = 100

var ErrTableFull = errors.New("background job table full")

// Record is one occupied slot.
type Record struct {
	PID  int
	Slot int
}

// Completion is a background job observed to have finished.
type Completion struct {
	Record
	Status Status
}

func (c Completion) String() string {
	if c.Status.Signaled {
		return fmt.Sprintf("background pid %d is done with signal termination: %d", c.PID, c.Status.Code)
	}
	return fmt.Sprintf("background pid %d is done with exit status: %d", c.PID, c.Status.Code)
}

// WaitFunc matches unix.Wait4 without the rusage argument.
type WaitFunc func(pid int, ws *unix.WaitStatus, options int) (int, error)

// SignalFunc matches unix.Kill.
type SignalFunc func(pid int, sig unix.Signal) error

type Option func(*Table)

func WithWaitFunc(fn WaitFunc) Option {
	return func(t *Table) { t.wait = fn }
}

func WithSignalFunc(fn SignalFunc) Option {
	return func(t *Table) { t.kill = fn }
}

// Table is the fixed-capacity background job table. A zero pid marks an
// empty slot.
type Table struct {
	slots []int
	wait  WaitFunc
	kill  SignalFunc
}

func NewTable(capacity int, opts ...Option) *Table {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	t := &Table{
		slots: make([]int, capacity),
		wait: func(pid int, ws *unix.WaitStatus, options int) (int, error) {
			return unix.Wait4(pid, ws, options, nil)
		},
		kill: unix.Kill,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) Cap() int { return len(t.slots) }

// Len counts occupied slots.
func (t *Table) Len() int {
	n := 0
	for _, pid := range t.slots {
		if pid != 0 {
			n++
		}
	}
	return n
}

// HasRoom reports whether Add would succeed.
func (t *Table) HasRoom() bool {
	return t.free() >= 0
}

func (t *Table) free() int {
	for i, pid := range t.slots {
		if pid == 0 {
			return i
		}
	}
	return -1
}

// Add stores pid in the first empty slot.
func (t *Table) Add(pid int) (Record, error) {
	if pid <= 0 {
		return Record{}, fmt.Errorf("invalid pid %d", pid)
	}
	i := t.free()
	if i < 0 {
		return Record{}, fmt.Errorf("%w (%d slots)", ErrTableFull, len(t.slots))
	}
	t.slots[i] = pid
	return Record{PID: pid, Slot: i}, nil
}

// Active lists occupied slots in slot order.
func (t *Table) Active() []Record {
	var recs []Record
	for i, pid := range t.slots {
		if pid != 0 {
			recs = append(recs, Record{PID: pid, Slot: i})
		}
	}
	return recs
}

// Poll checks every occupied slot without blocking, frees the slots of
// finished processes and returns them in slot order. A pid that can no
// longer be waited for is freed and reported through errs.
func (t *Table) Poll() (done []Completion, errs []error) {
	for i, pid := range t.slots {
		if pid == 0 {
			continue
		}
		var ws unix.WaitStatus
		wpid, err := t.wait(pid, &ws, unix.WNOHANG)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			t.slots[i] = 0
			errs = append(errs, fmt.Errorf("poll pid %d: %w", pid, err))
			continue
		case wpid != pid:
			continue
		}
		st, ok := Classify(ws)
		if !ok {
			continue
		}
		t.slots[i] = 0
		done = append(done, Completion{Record: Record{PID: pid, Slot: i}, Status: st})
	}
	return done, errs
}

// TerminateAll sends SIGTERM to every tracked process. It does not wait
// and leaves the slots in place.
func (t *Table) TerminateAll() error {
	var errs []error
	for _, pid := range t.slots {
		if pid == 0 {
			continue
		}
		if err := t.kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
			errs = append(errs, fmt.Errorf("terminate pid %d: %w", pid, err))
		}
	}
	return errors.Join(errs...)
}
