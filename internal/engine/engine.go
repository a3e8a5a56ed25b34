// Package engine orchestrates one inbound message end to end: classify,
// dispatch commands, call the completion gateway with retries, and keep
// the profile and history stores consistent. It is the only boundary
// that converts internal failures into user-visible text.
package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"kokoro/internal/config"
	"kokoro/internal/intent"
	"kokoro/internal/store"
	"kokoro/internal/xutil/strutil"
)

// Completer is the completion gateway contract. Implementations must
// not retry internally and must not write to any store.
type Completer interface {
	Complete(ctx context.Context, it intent.Intent, text string, history []store.Turn) (string, error)
}

type Options struct {
	// MaxAttempts and BackoffBase shape the gateway retry loop.
	// Zero values fall back to the configured defaults.
	MaxAttempts int
	BackoffBase time.Duration

	LogPrefix string

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = config.DefaultMaxAttempts
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = config.DefaultBackoffBase
	}
	if o.LogPrefix == "" {
		o.LogPrefix = "[engine]"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Engine struct {
	profiles  *store.ProfileStore
	history   *store.HistoryStore
	completer Completer
	opts      Options

	userMu   sync.Mutex
	userLock map[string]*sync.Mutex
}

func New(profiles *store.ProfileStore, history *store.HistoryStore, completer Completer, opts Options) *Engine {
	return &Engine{
		profiles:  profiles,
		history:   history,
		completer: completer,
		opts:      opts.withDefaults(),
		userLock:  map[string]*sync.Mutex{},
	}
}

// userMutex serializes Handle per user id; the transport is expected to
// deliver per-user messages serially but is not trusted to.
func (e *Engine) userMutex(id string) *sync.Mutex {
	e.userMu.Lock()
	defer e.userMu.Unlock()
	m, ok := e.userLock[id]
	if !ok {
		m = &sync.Mutex{}
		e.userLock[id] = m
	}
	return m
}

// SetPremiumStatus is the administrative control-plane entry point.
// Authentication is the transport's job.
func (e *Engine) SetPremiumStatus(id string, premium bool) {
	e.profiles.SetPremium(id, premium)
	log.Printf("%s premium flag set: user=%s premium=%v", e.opts.LogPrefix, id, premium)
}

// Handle processes one inbound message and always returns reply text;
// gateway failures become a fixed apology, never an error.
func (e *Engine) Handle(ctx context.Context, id, rawText string) string {
	lock := e.userMutex(id)
	lock.Lock()
	defer lock.Unlock()

	now := e.opts.Now()
	e.profiles.Touch(id, now)

	it := intent.Classify(rawText)
	log.Printf("%s inbound: user=%s intent=%s content=%q",
		e.opts.LogPrefix, id, it.Kind, strutil.Preview(rawText, config.LogContentPreviewLen))

	if it.Kind == intent.KindSlashCommand {
		return e.dispatchCommand(ctx, id, rawText, it.Command)
	}

	if it.Kind == intent.KindMoodReport {
		e.profiles.AppendMood(id, it.Score, now)
	}

	return e.completeAndRecord(ctx, id, it, rawText)
}

// completeAndRecord runs the retry loop around the gateway and, on
// success, appends (rawText, reply) to history. rawText is always the
// stored user turn even when the outbound prompt was synthesized.
func (e *Engine) completeAndRecord(ctx context.Context, id string, it intent.Intent, rawText string) string {
	history := e.history.Get(id)

	var lastErr error
	for attempt := 1; attempt <= e.opts.MaxAttempts; attempt++ {
		reply, err := e.completer.Complete(ctx, it, rawText, history)
		if err == nil {
			e.history.Append(id, rawText, reply)
			return reply
		}
		lastErr = err
		log.Printf("%s completion failed: user=%s intent=%s attempt=%d/%d err=%v",
			e.opts.LogPrefix, id, it.Kind, attempt, e.opts.MaxAttempts, err)
		if attempt < e.opts.MaxAttempts {
			if !sleepWithContext(ctx, withJitter(backoffDelay(attempt, e.opts.BackoffBase))) {
				break
			}
		}
	}

	log.Printf("%s completion exhausted retries: user=%s intent=%s err=%v",
		e.opts.LogPrefix, id, it.Kind, lastErr)
	return replyApology
}
