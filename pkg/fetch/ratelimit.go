package fetch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Throttle enforces a fixed pause between processed pages
type Throttle struct {
	delay time.Duration
	log   *logrus.Entry
}

// NewThrottle creates a Throttle. A non-positive delay disables pausing.
func NewThrottle(delay time.Duration, log *logrus.Entry) *Throttle {
	return &Throttle{delay: delay, log: log}
}

// Delay returns the configured pause
func (t *Throttle) Delay() time.Duration {
	return t.delay
}

// Pause blocks for the configured delay, returning early with ctx.Err() if ctx is cancelled
func (t *Throttle) Pause(ctx context.Context) error {
	if t.delay <= 0 {
		return ctx.Err()
	}
	t.log.WithField("sleep", t.delay).Debug("Throttle pausing")

	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
