package throttle

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultQueueSize bounds the number of queued calls when Config.QueueSize
// is zero.
const DefaultQueueSize = 1024

// Window limits the number of call starts within any span of Duration.
type Window struct {
	Duration    time.Duration `json:"duration" validate:"gt=0"`
	MaxRequests int           `json:"max_requests" validate:"gt=0"`
}

// Config configures a Scheduler.
type Config struct {
	// Concurrency is the maximum number of calls running at once.
	Concurrency int `json:"concurrency" validate:"gte=1"`

	// Windows are the rate limits. All must allow a start.
	Windows []Window `json:"windows" validate:"dive"`

	// QueueSize bounds queued calls; Submit blocks while the queue is full.
	QueueSize int `json:"queue_size" validate:"gte=0"`

	// OnDispatch, if set, is called with each start time from the
	// scheduling goroutine, in start order.
	OnDispatch func(time.Time) `json:"-" validate:"-"`
}

// Default returns five concurrent calls and at most 19 starts per ten
// seconds.
func Default() Config {
	return Config{
		Concurrency: 5,
		Windows:     []Window{{Duration: 10 * time.Second, MaxRequests: 19}},
	}
}

var validate = validator.New()

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid throttle config: %w", err)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.QueueSize == 0 {
		c.QueueSize = DefaultQueueSize
	}
	return c
}

// widest returns the longest window duration, or zero without windows.
func (c Config) widest() time.Duration {
	var d time.Duration
	for _, w := range c.Windows {
		d = max(d, w.Duration)
	}
	return d
}
