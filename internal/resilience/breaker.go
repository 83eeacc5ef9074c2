package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrBreakerOpen is returned by Allow while the breaker is cooling down.
var ErrBreakerOpen = eris.New("resilience: breaker open")

// Breaker trips after a streak of consecutive failures and rejects calls
// until a cooldown elapses. The first call after the cooldown is the probe;
// its outcome decides whether the breaker closes again.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
}

// NewBreaker returns a closed breaker that opens after threshold consecutive
// failures and rejects calls for cooldown.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{name: name, threshold: threshold, cooldown: cooldown}
}

// Allow reports whether a call may proceed. It returns ErrBreakerOpen during
// the cooldown window.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.threshold {
		return nil
	}
	if time.Since(b.openedAt) < b.cooldown {
		return eris.Wrapf(ErrBreakerOpen, "resilience: %s unavailable", b.name)
	}
	// cooldown elapsed, let one probe through
	return nil
}

// Record feeds a call outcome into the breaker. A success closes it; a
// failure extends or starts the open window once the streak hits the
// threshold.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.failures >= b.threshold {
			zap.L().Info("breaker closed", zap.String("name", b.name))
		}
		b.failures = 0
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.openedAt = time.Now()
		zap.L().Warn("breaker open",
			zap.String("name", b.name),
			zap.Int("consecutive_failures", b.failures),
		)
	}
}
