package exam

import "time"

// Countdown is a deadline-based exam timer. Time is always passed in, so callers
// drive it from their own ticker (or a fixed clock in tests).
type Countdown struct {
	start    time.Time
	deadline time.Time
}

func NewCountdown(start time.Time, limit time.Duration) *Countdown {
	return &Countdown{start: start, deadline: start.Add(limit)}
}

func (c *Countdown) Deadline() time.Time { return c.deadline }

// Remaining is never negative.
func (c *Countdown) Remaining(now time.Time) time.Duration {
	if d := c.deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (c *Countdown) Expired(now time.Time) bool { return !now.Before(c.deadline) }

func (c *Countdown) Elapsed(now time.Time) time.Duration {
	if now.After(c.deadline) {
		now = c.deadline
	}
	return now.Sub(c.start)
}
