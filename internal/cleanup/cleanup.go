package cleanup

import (
	"errors"
	"fmt"
	"sync"
)

// Stack holds release hooks for resources opened during a command.
// Hooks run newest first, so a log file pushed before a storage client
// is still open while the client closes.
type Stack struct {
	mu    sync.Mutex
	hooks []func() error
}

// Push adds hook to the stack. A nil hook is ignored.
func (s *Stack) Push(hook func() error) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Drain empties the stack and runs every hook, joining failures.
func (s *Stack) Drain() error {
	s.mu.Lock()
	pending := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	var errs []error
	for len(pending) > 0 {
		last := len(pending) - 1
		if err := pending[last](); err != nil {
			errs = append(errs, err)
		}
		pending = pending[:last]
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	return nil
}

var process Stack

// Register pushes hook onto the process-wide stack.
func Register(hook func() error) { process.Push(hook) }

// RunAll drains the process-wide stack.
func RunAll() error { return process.Drain() }
