package timer

import "time"

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Handle refers to one scheduled task. The zero of *Handle (nil) is a
// valid handle for "nothing scheduled": Cancel returns false and Done is
// already closed.
type Handle struct {
	s *Scheduler
	t *task
}

// Cancel prevents the task from running. It returns true only if the task
// was still pending; a task that is running or has run cannot be cancelled.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	return h.s.cancelTask(h.t)
}

// Done is closed once the task has run or been cancelled.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		return closedChan
	}
	return h.t.done
}

// Fired reports whether the task ran, whether or not it succeeded.
func (h *Handle) Fired() bool {
	if h == nil {
		return false
	}
	return h.s.stateOf(h.t) == stateFired
}

// Err returns the error the task returned, or the panic it raised. It is
// nil until Done is closed, and always nil for a cancelled task.
func (h *Handle) Err() error {
	if h == nil {
		return nil
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.t.err
}

// Cancelled reports whether the task was cancelled before it ran.
func (h *Handle) Cancelled() bool {
	if h == nil {
		return false
	}
	return h.s.stateOf(h.t) == stateCancelled
}

// Pending reports whether the task is still waiting to run.
func (h *Handle) Pending() bool {
	if h == nil {
		return false
	}
	return h.s.stateOf(h.t) == statePending
}

// When returns the time the task is due.
func (h *Handle) When() time.Time {
	if h == nil {
		return time.Time{}
	}
	return h.t.when
}

// Name returns the name given to AfterNamed.
func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.t.name
}
