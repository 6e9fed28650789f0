package timer

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/foscam/internal/logging"
)

// ErrClosed is returned by Close when the scheduler was already closed.
var ErrClosed = errors.New("timer: scheduler closed")

// FlushTimeout bounds a flushed task's context, whether it runs on time
// or early from Close.
var FlushTimeout = 10 * time.Second

// Task is a deferred unit of work. ctx is cancelled when the scheduler
// is closed, so long-running tasks should pass it to blocking calls.
type Task func(ctx context.Context)

// ErrTask is a deferred unit of work whose error is kept on its Handle.
type ErrTask func(ctx context.Context) error

type state int

const (
	statePending state = iota
	stateRunning
	stateFired
	stateCancelled
)

type task struct {
	name  string
	when  time.Time
	seq   uint64
	fn    ErrTask
	flush bool
	index int
	state state
	err   error
	done  chan struct{}
}

// Scheduler runs deferred tasks on a single goroutine. Pending tasks are
// kept in a min-heap ordered by due time; tasks due at the same instant
// run in the order they were scheduled.
//
// Tasks run one at a time, so a slow task delays the ones behind it.
type Scheduler struct {
	mu     sync.Mutex
	tasks  taskQueue
	seq    uint64
	closed bool

	wake   chan struct{}
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler starts a scheduler. Call Close to stop its goroutine.
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go s.loop()
	return s
}

// After schedules fn to run once d has elapsed and returns its handle.
// A non-positive d runs fn as soon as the scheduler goroutine is free.
// After on a closed scheduler returns an already-cancelled handle.
func (s *Scheduler) After(d time.Duration, fn Task) *Handle {
	return s.AfterNamed("", d, fn)
}

// AfterNamed is After with a name used in log messages.
func (s *Scheduler) AfterNamed(name string, d time.Duration, fn Task) *Handle {
	if fn == nil {
		return s.schedule(name, d, nil, false)
	}
	return s.schedule(name, d, func(ctx context.Context) error {
		fn(ctx)
		return nil
	}, false)
}

// Flush schedules fn like AfterNamed, but fn must run: Close runs it at
// once instead of cancelling it, and its context is never cancelled by
// Close, only bounded by FlushTimeout. The error fn returns is reported
// by the handle's Err.
func (s *Scheduler) Flush(name string, d time.Duration, fn ErrTask) *Handle {
	return s.schedule(name, d, fn, true)
}

func (s *Scheduler) schedule(name string, d time.Duration, fn ErrTask, flush bool) *Handle {
	if d < 0 {
		d = 0
	}
	t := &task{
		name:  name,
		when:  time.Now().Add(d),
		fn:    fn,
		flush: flush,
		done:  make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed || fn == nil {
		t.state = stateCancelled
		close(t.done)
		s.mu.Unlock()
		return &Handle{s: s, t: t}
	}
	s.seq++
	t.seq = s.seq
	heap.Push(&s.tasks, t)
	s.mu.Unlock()

	s.notify()
	return &Handle{s: s, t: t}
}

// Len returns the number of tasks waiting to run.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close cancels every pending task, cancels the context of a running task
// and waits for it to return. Pending tasks scheduled with Flush are not
// cancelled: Close runs them immediately, in due order, before returning.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	var flush []*task
	cancelled := 0
	for len(s.tasks) > 0 {
		t := heap.Pop(&s.tasks).(*task)
		if t.flush {
			t.state = stateRunning
			flush = append(flush, t)
			continue
		}
		t.state = stateCancelled
		close(t.done)
		cancelled++
	}
	s.tasks = nil
	s.mu.Unlock()

	if cancelled > 0 {
		logging.Debug("Scheduler closed with pending tasks", zap.Int("cancelled", cancelled))
	}

	s.cancel()
	<-s.done

	for _, t := range flush {
		logging.Warn("Running deferred task early on close",
			zap.String("task", t.name),
			zap.Time("due", t.when),
		)
		s.run(t)
	}
	return nil
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}

		var next *task
		wait := time.Duration(-1)
		if len(s.tasks) > 0 {
			if head := s.tasks[0]; !head.when.After(time.Now()) {
				next = heap.Pop(&s.tasks).(*task)
				next.state = stateRunning
			} else {
				wait = time.Until(head.when)
			}
		}
		s.mu.Unlock()

		if next != nil {
			s.run(next)
			continue
		}

		var fire <-chan time.Time
		var tm *time.Timer
		if wait >= 0 {
			tm = time.NewTimer(wait)
			fire = tm.C
		}

		select {
		case <-s.wake:
		case <-fire:
		case <-s.ctx.Done():
		}
		if tm != nil {
			tm.Stop()
		}
	}
}

func (s *Scheduler) run(t *task) {
	ctx := s.ctx
	if t.flush {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(s.ctx), FlushTimeout)
		defer cancel()
	}

	var err error
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Deferred task panicked",
				zap.String("task", t.name),
				zap.String("panic", fmt.Sprint(r)),
			)
			err = fmt.Errorf("task %q panicked: %v", t.name, r)
		}
		s.mu.Lock()
		t.state = stateFired
		t.err = err
		close(t.done)
		s.mu.Unlock()
	}()

	err = t.fn(ctx)
}

func (s *Scheduler) cancelTask(t *task) bool {
	s.mu.Lock()
	if t.state != statePending || t.index < 0 {
		s.mu.Unlock()
		return false
	}
	heap.Remove(&s.tasks, t.index)
	t.state = stateCancelled
	close(t.done)
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Scheduler) stateOf(t *task) state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.state
}

// taskQueue implements heap.Interface ordered by due time, then sequence.
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
