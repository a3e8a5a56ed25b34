package syncx

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroup_WaitBlocksUntilAllDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGroup(ctx)

	var finished atomic.Int32
	for i := 0; i < 3; i++ {
		g.Go(func(ctx context.Context) {
			<-ctx.Done()
			finished.Add(1)
		})
	}

	cancel()
	g.Wait()
	if got := finished.Load(); got != 3 {
		t.Fatalf("finished=%d", got)
	}
}

func TestRunInterval_TicksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	RunInterval(ctx, 10*time.Millisecond, true, func(context.Context) {
		calls++
		if calls == 3 {
			cancel()
		}
	})
	if calls != 3 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestRunInterval_NotImmediate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	RunInterval(ctx, time.Hour, false, func(context.Context) { called = true })
	if called {
		t.Fatalf("fn called before first tick")
	}
}
