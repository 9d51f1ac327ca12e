package capture

import (
	"context"
	"time"
)

// CountdownController runs the visible delay before capture. A countdown of
// N produces exactly N tick notifications with the remaining count, the last
// one carrying zero, then returns. Tick values of zero or below are meant to
// be rendered as empty.
type CountdownController struct {
	// Interval between ticks. Defaults to one second; tests shrink it.
	Interval time.Duration
}

// Run blocks for the whole countdown, invoking onTick after each interval.
// Cancelling ctx clears the timer: no further ticks are delivered and the
// returned error is the context's.
func (c *CountdownController) Run(ctx context.Context, seconds int, onTick func(remaining int)) error {
	interval := c.Interval
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for remaining := seconds; remaining > 0; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			remaining--
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
	return nil
}
