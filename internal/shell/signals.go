package shell

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Preformatted so that a toggle never formats or allocates.
var (
	enterForegroundOnly = []byte("\nEntering foreground-only mode (& is now ignored)\n")
	exitForegroundOnly  = []byte("\nExiting foreground-only mode (& is re-enabled)\n")
)

// SignalController keeps the interpreter alive on SIGINT and turns SIGTSTP
// into a foreground-only mode toggle. Launched commands get their own
// dispositions from the launch helper.
type SignalController struct {
	state      *State
	fd         int
	signalChan chan os.Signal
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewSignalController writes toggle messages to fd.
func NewSignalController(state *State, fd int) *SignalController {
	return &SignalController{
		state:      state,
		fd:         fd,
		signalChan: make(chan os.Signal, 4),
		done:       make(chan struct{}),
	}
}

func (c *SignalController) Start() {
	signal.Notify(c.signalChan, syscall.SIGINT, syscall.SIGTSTP)
	c.wg.Add(1)
	go c.handleSignals()
}

func (c *SignalController) Stop() {
	signal.Stop(c.signalChan)
	close(c.done)
	c.wg.Wait()
}

func (c *SignalController) handleSignals() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case sig := <-c.signalChan:
			if sig == syscall.SIGTSTP {
				c.Toggle()
			}
			// SIGINT is swallowed: only the foreground child dies.
		}
	}
}

// Toggle flips foreground-only mode and announces it with a raw write.
func (c *SignalController) Toggle() {
	msg := enterForegroundOnly
	if c.state.ToggleBackground() {
		msg = exitForegroundOnly
	}
	_, _ = unix.Write(c.fd, msg)
}
