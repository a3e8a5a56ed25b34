// Package checkin sends a proactive nudge to users who were recently
// active but have gone quiet. One nudge per silence period: a user is
// not re-nudged until they write again.
package checkin

import (
	"context"
	"log"
	"sync"
	"time"

	"kokoro/internal/affirm"
	"kokoro/internal/config"
	"kokoro/internal/store"
	"kokoro/internal/xutil/syncx"
)

const checkinMessage = "Hey, just checking in — how are you feeling today? " +
	"You can tell me your mood on a 1-10 scale whenever you like."

type DeliverFunc func(ctx context.Context, userID, text string) error

type Options struct {
	Interval time.Duration
	// Gap is how long a user must be silent before a nudge.
	Gap time.Duration
	// Window bounds how far back activity still counts; users silent
	// longer than this are left alone.
	Window    time.Duration
	LogPrefix string
	Now       func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = config.DefaultCheckinInterval
	}
	if o.Gap <= 0 {
		o.Gap = config.DefaultCheckinGap
	}
	if o.Window <= 0 {
		o.Window = config.DefaultCheckinWindow
	}
	if o.LogPrefix == "" {
		o.LogPrefix = "[checkin]"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Loop struct {
	profiles     *store.ProfileStore
	deliver      DeliverFunc
	affirmations *affirm.Source
	opts         Options

	mu     sync.Mutex
	nudged map[string]time.Time
}

func NewLoop(profiles *store.ProfileStore, deliver DeliverFunc, affirmations *affirm.Source, opts Options) *Loop {
	return &Loop{
		profiles:     profiles,
		deliver:      deliver,
		affirmations: affirmations,
		opts:         opts.withDefaults(),
		nudged:       map[string]time.Time{},
	}
}

// Run blocks until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	syncx.RunInterval(ctx, l.opts.Interval, false, l.Sweep)
}

// Sweep performs one pass over known users.
func (l *Loop) Sweep(ctx context.Context) {
	now := l.opts.Now()
	for _, id := range l.profiles.UserIDs() {
		last := l.profiles.LastActivity(id)
		if last.IsZero() {
			continue
		}
		silence := now.Sub(last)
		if silence < l.opts.Gap || silence > l.opts.Window {
			continue
		}
		if !l.markNudged(id, last, now) {
			continue
		}

		text := checkinMessage
		if affirmation, ok := l.affirmations.Current(); ok {
			text += "\n\nA thought for today: " + affirmation
		}
		if err := l.deliver(ctx, id, text); err != nil {
			log.Printf("%s nudge delivery failed: user=%s err=%v", l.opts.LogPrefix, id, err)
			l.unmarkNudged(id)
		}
	}
}

// markNudged returns false when the user was already nudged since their
// last activity.
func (l *Loop) markNudged(id string, lastActivity, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if at, ok := l.nudged[id]; ok && at.After(lastActivity) {
		return false
	}
	l.nudged[id] = now
	return true
}

func (l *Loop) unmarkNudged(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.nudged, id)
}
