// Package syncx holds the small concurrency helpers shared by the app
// wiring and the background loops.
package syncx

import (
	"context"
	"sync"
)

// Group runs background goroutines against a shared context. Lifetime
// is owned by the context's parent (a signal context in practice);
// Wait blocks until every goroutine has returned.
type Group struct {
	ctx context.Context
	wg  sync.WaitGroup
}

func NewGroup(ctx context.Context) *Group {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Group{ctx: ctx}
}

func (g *Group) Go(fn func(ctx context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn(g.ctx)
	}()
}

func (g *Group) Wait() { g.wg.Wait() }
