package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows a layout run in progress. With a step total it also shows
// how many passes have completed.
type Spinner struct {
	label string
	total int
	steps atomic.Int64
	w     io.Writer

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	mu    sync.Mutex
	width int // printed width of the last frame
}

// newStepSpinner creates a spinner for total passes that stops when ctx is
// cancelled. A total of zero shows only the label.
func newStepSpinner(ctx context.Context, w io.Writer, label string, total int) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		label:   label,
		total:   total,
		w:       w,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Step records one completed pass.
func (s *Spinner) Step() { s.steps.Add(1) }

// Steps returns the number of recorded passes.
func (s *Spinner) Steps() int { return int(s.steps.Load()) }

func (s *Spinner) message() string {
	if s.total <= 0 {
		return s.label
	}
	return fmt.Sprintf("%s  step %d/%d", s.label, s.Steps(), s.total)
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.render(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) render(frame string) {
	msg := s.message()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(msg))
	s.width = max(s.width, len(msg)+2)
}

// Stop stops the spinner and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}

// StopWithError stops the spinner and reports how far the run got.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	if s.total > 0 {
		printError("%s after %d of %d steps", message, s.Steps(), s.total)
		return
	}
	printError("%s", message)
}

// Cancelled reports whether the spinner's context is done.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
