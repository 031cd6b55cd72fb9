package throttle

import (
	"context"
	"errors"
	"sync"
	"time"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
	"github.com/matzehuels/wikigraph/pkg/observability"
)

// ErrClosed is returned for calls submitted to, or still queued in, a
// closed scheduler.
var ErrClosed = errors.New("throttle: scheduler closed")

type result[R any] struct {
	val R
	err error
}

type call[A, R any] struct {
	ctx      context.Context
	args     A
	enqueued time.Time
	done     chan result[R]
}

// Scheduler runs a function under the limits of its Config. It is safe for
// concurrent use.
type Scheduler[A, R any] struct {
	fn  func(context.Context, A) (R, error)
	cfg Config

	submit    chan *call[A, R]
	completed chan struct{}
	quit      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	queue    []*call[A, R]
	history  []time.Time
	inflight int
}

// New validates cfg and starts the scheduling goroutine. Call Close to
// stop it.
func New[A, R any](fn func(context.Context, A) (R, error), cfg Config) (*Scheduler[A, R], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler[A, R]{
		fn:        fn,
		cfg:       cfg.withDefaults(),
		submit:    make(chan *call[A, R]),
		completed: make(chan struct{}),
		quit:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	go s.loop()
	return s, nil
}

// Submit queues a call with args and waits for its result. It blocks while
// the queue is full. If ctx ends first, Submit returns a TIMEOUT or
// CANCELED error; a call that has not started by then never will.
func (s *Scheduler[A, R]) Submit(ctx context.Context, args A) (R, error) {
	var zero R
	c := &call[A, R]{
		ctx:      ctx,
		args:     args,
		enqueued: time.Now(),
		done:     make(chan result[R], 1),
	}
	select {
	case s.submit <- c:
	case <-ctx.Done():
		return zero, apperr.FromContext(ctx.Err(), "submit")
	case <-s.quit:
		return zero, ErrClosed
	}
	select {
	case r := <-c.done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, apperr.FromContext(ctx.Err(), "await call")
	}
}

// Close stops the scheduler and fails queued calls with ErrClosed. Calls
// already running are not interrupted.
func (s *Scheduler[A, R]) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.loopDone
	})
	return nil
}

func (s *Scheduler[A, R]) loop() {
	defer close(s.loopDone)
	var timer *time.Timer
	for {
		var timerC <-chan time.Time
		if timer != nil {
			timer.Stop()
		}
		if wait := s.drain(time.Now()); wait > 0 {
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		submit := s.submit
		if len(s.queue) >= s.cfg.QueueSize {
			submit = nil
		}

		select {
		case c := <-submit:
			s.queue = append(s.queue, c)
			observability.Throttle().OnQueued(c.ctx, len(s.queue))
		case <-s.completed:
			s.inflight--
		case <-timerC:
		case <-s.quit:
			if timer != nil {
				timer.Stop()
			}
			for _, c := range s.queue {
				c.done <- result[R]{err: ErrClosed}
			}
			s.queue = nil
			return
		}
	}
}

// drain starts queued calls until a limit is reached. It returns how long
// to sleep before a window frees up, or zero when only a submission or a
// completion can unblock the queue.
func (s *Scheduler[A, R]) drain(now time.Time) time.Duration {
	for len(s.queue) > 0 {
		s.prune(now)
		if s.inflight >= s.cfg.Concurrency {
			return 0
		}
		if wait := s.windowWait(now); wait > 0 {
			return wait
		}

		c := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		if err := c.ctx.Err(); err != nil {
			c.done <- result[R]{err: apperr.FromContext(err, "skipped queued call")}
			continue
		}

		s.history = append(s.history, now)
		s.inflight++
		if s.cfg.OnDispatch != nil {
			s.cfg.OnDispatch(now)
		}
		observability.Throttle().OnDispatch(c.ctx, s.inflight, now.Sub(c.enqueued))
		go s.run(c, now)
	}
	return 0
}

// prune drops start times that no window can still see.
func (s *Scheduler[A, R]) prune(now time.Time) {
	widest := s.cfg.widest()
	i := 0
	for i < len(s.history) && now.Sub(s.history[i]) > widest {
		i++
	}
	s.history = s.history[i:]
}

// windowWait returns the time until every window admits another start. A
// start at t counts against window d while now-t <= d.
func (s *Scheduler[A, R]) windowWait(now time.Time) time.Duration {
	var wait time.Duration
	for _, w := range s.cfg.Windows {
		first := len(s.history)
		for first > 0 && now.Sub(s.history[first-1]) <= w.Duration {
			first--
		}
		count := len(s.history) - first
		if count < w.MaxRequests {
			continue
		}
		// The window opens once the start at this index falls out of it.
		expiring := s.history[first+count-w.MaxRequests]
		wait = max(wait, expiring.Add(w.Duration).Sub(now)+time.Nanosecond)
	}
	return wait
}

func (s *Scheduler[A, R]) run(c *call[A, R], started time.Time) {
	val, err := s.invoke(c)
	observability.Throttle().OnComplete(c.ctx, time.Since(started), err)
	c.done <- result[R]{val: val, err: err}
	select {
	case s.completed <- struct{}{}:
	case <-s.loopDone:
	}
}

func (s *Scheduler[A, R]) invoke(c *call[A, R]) (val R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.New(apperr.ErrCodeInternal, "throttled call panicked: %v", r)
		}
	}()
	return s.fn(c.ctx, c.args)
}
