package syncx

import (
	"context"
	"time"
)

// RunInterval calls fn on a fixed cadence until ctx is cancelled. With
// immediate set the first call fires right away instead of after the
// first interval.
func RunInterval(ctx context.Context, every time.Duration, immediate bool, fn func(ctx context.Context)) {
	if fn == nil {
		return
	}
	if every <= 0 {
		every = time.Second
	}

	delay := every
	if immediate {
		delay = 0
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			fn(ctx)
			timer.Reset(every)
		}
	}
}
