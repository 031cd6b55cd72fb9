package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikigraph/pkg/layout"
	"github.com/matzehuels/wikigraph/pkg/rpc"
)

// DefaultAlpha is the fraction of the remaining distance a displayed
// position covers per Frame call.
const DefaultAlpha = 0.25

// retryDelay is the pause after a failed step before trying again.
const retryDelay = time.Second

// AnimatorConfig configures an Animator.
type AnimatorConfig struct {
	Repulsion  float64
	Attraction float64

	// Alpha is the smoothing factor in (0, 1]. Zero means DefaultAlpha.
	Alpha float64

	// FrameInterval is the pause between steps. Zero requests the next
	// step as soon as the previous one returns.
	FrameInterval time.Duration
}

// AnimatorStats summarizes the animation so far.
type AnimatorStats struct {
	Steps     int     `json:"steps"`
	Iteration int     `json:"iteration"`
	Energy    float64 `json:"energy"`
	Nodes     int     `json:"nodes"`
}

// Animator repeatedly steps a Layouter and eases the results in for
// display. At most one step is in flight at any time.
type Animator struct {
	l      Layouter
	logger *log.Logger

	mu       sync.Mutex
	cfg      AnimatorConfig
	smoother *layout.Smoother
	stats    AnimatorStats
}

// NewAnimator creates an animator over l. A nil logger uses log.Default().
func NewAnimator(l Layouter, cfg AnimatorConfig, logger *log.Logger) *Animator {
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = DefaultAlpha
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Animator{
		l:        l,
		logger:   logger,
		cfg:      cfg,
		smoother: layout.NewSmoother(),
	}
}

// Run steps until ctx is done. It returns nil on cancellation and an error
// only when the Layouter is closed; other step failures are logged and
// retried.
func (a *Animator) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		a.mu.Lock()
		rep, att, interval := a.cfg.Repulsion, a.cfg.Attraction, a.cfg.FrameInterval
		a.mu.Unlock()

		frame, err := a.l.Step(ctx, rep, att)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrClosed), errors.Is(err, rpc.ErrClosed):
			return err
		case err != nil:
			a.logger.Warn("layout step failed", "err", err)
			interval = max(interval, retryDelay)
		default:
			a.apply(frame)
		}

		if interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
		}
	}
}

func (a *Animator) apply(f Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.smoother.SetTarget(f.Positions)
	a.stats.Steps++
	a.stats.Iteration = f.Iteration
	a.stats.Energy = f.Energy
	a.stats.Nodes = len(f.Positions)
}

// Frame advances the displayed positions by one smoothing step and
// returns them.
func (a *Animator) Frame() layout.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.smoother.Advance(a.cfg.Alpha)
}

// Current returns the displayed positions without advancing them.
func (a *Animator) Current() layout.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.smoother.Current()
}

// Stats returns counters from the most recent step.
func (a *Animator) Stats() AnimatorStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// SetStrength changes the force strengths used by later steps.
func (a *Animator) SetStrength(repulsion, attraction float64) {
	a.mu.Lock()
	a.cfg.Repulsion, a.cfg.Attraction = repulsion, attraction
	a.mu.Unlock()
}

// Drag moves a node on the Layouter and pins its displayed position, so
// the node follows the pointer without easing.
func (a *Animator) Drag(ctx context.Context, id string, x, y float64) error {
	if err := a.l.MoveNode(ctx, id, x, y); err != nil {
		return err
	}
	a.mu.Lock()
	a.smoother.Pin(id, x, y)
	a.mu.Unlock()
	return nil
}
