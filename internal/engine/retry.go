package engine

import (
	"context"
	"math/rand"
	"time"
)

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoffDelay returns base doubled per completed attempt:
// attempt 1 -> base, attempt 2 -> 2*base, attempt 3 -> 4*base.
func backoffDelay(attempt int, base time.Duration) time.Duration {
	if attempt <= 1 {
		return base
	}
	d := base << (attempt - 1)
	if d <= 0 {
		return base
	}
	return d
}

// withJitter scales d by rand(0.5, 1.0).
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	j := 0.5 + r.Float64()*0.5
	return time.Duration(float64(d) * j)
}
