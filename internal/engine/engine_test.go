package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"kokoro/internal/intent"
	"kokoro/internal/store"
)

type fakeCompleter struct {
	replies  []string
	failures int
	calls    int
	lastIt   intent.Intent
	lastText string
	lastHist []store.Turn
}

func (f *fakeCompleter) Complete(_ context.Context, it intent.Intent, text string, history []store.Turn) (string, error) {
	f.calls++
	f.lastIt = it
	f.lastText = text
	f.lastHist = history
	if f.calls <= f.failures {
		return "", errors.New("boom")
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func newTestEngine(completer Completer) (*Engine, *store.ProfileStore, *store.HistoryStore) {
	profiles := store.NewProfileStore()
	history := store.NewHistoryStore(profiles)
	e := New(profiles, history, completer, Options{
		BackoffBase: time.Millisecond,
		Now: func() time.Time {
			return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		},
	})
	return e, profiles, history
}

func TestHandle_FreeformAppendsHistory(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"hi there"}}
	e, _, history := newTestEngine(fake)

	reply := e.Handle(context.Background(), "u1", "hello")
	if reply != "hi there" {
		t.Fatalf("reply=%q", reply)
	}
	turns := history.Get("u1")
	if len(turns) != 2 {
		t.Fatalf("len=%d", len(turns))
	}
	if turns[0].Content != "hello" || turns[1].Content != "hi there" {
		t.Fatalf("turns=%+v", turns)
	}
}

func TestHandle_MoodReportAppendsMoodLog(t *testing.T) {
	fake := &fakeCompleter{}
	e, profiles, _ := newTestEngine(fake)

	e.Handle(context.Background(), "u1", "my mood is 7")

	log := profiles.MoodLog("u1")
	if len(log) != 1 || log[0].Score != 7 {
		t.Fatalf("mood log=%+v", log)
	}
	if fake.lastIt.Kind != intent.KindMoodReport || fake.lastIt.Score != 7 {
		t.Fatalf("intent passed to gateway=%+v", fake.lastIt)
	}
}

func TestHandle_RetryThenSuccess(t *testing.T) {
	fake := &fakeCompleter{failures: 2, replies: []string{"third time"}}
	e, _, history := newTestEngine(fake)

	start := time.Now()
	reply := e.Handle(context.Background(), "u1", "hello")
	elapsed := time.Since(start)

	if reply != "third time" {
		t.Fatalf("reply=%q", reply)
	}
	if fake.calls != 3 {
		t.Fatalf("calls=%d", fake.calls)
	}
	// Two sleeps: jittered 1ms and 2ms, each in the 0.5x-1.0x band.
	if elapsed > time.Second {
		t.Fatalf("elapsed=%v", elapsed)
	}
	if len(history.Get("u1")) != 2 {
		t.Fatalf("history len=%d", len(history.Get("u1")))
	}
}

func TestHandle_ExhaustedRetriesReturnsApology(t *testing.T) {
	fake := &fakeCompleter{failures: 3}
	e, profiles, history := newTestEngine(fake)

	reply := e.Handle(context.Background(), "u1", "hello")
	if reply != replyApology {
		t.Fatalf("reply=%q", reply)
	}
	if fake.calls != 3 {
		t.Fatalf("calls=%d", fake.calls)
	}
	if len(history.Get("u1")) != 0 {
		t.Fatalf("history appended on failure")
	}
	if len(profiles.MoodLog("u1")) != 0 {
		t.Fatalf("mood log touched")
	}
}

func TestHandle_HistoryFlowsToGateway(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"a1", "a2"}}
	e, _, _ := newTestEngine(fake)

	e.Handle(context.Background(), "u1", "q1")
	e.Handle(context.Background(), "u1", "q2")

	if len(fake.lastHist) != 2 {
		t.Fatalf("history len=%d", len(fake.lastHist))
	}
	if fake.lastHist[0].Content != "q1" || fake.lastHist[1].Content != "a1" {
		t.Fatalf("history=%+v", fake.lastHist)
	}
}

func TestSetPremiumStatus(t *testing.T) {
	e, profiles, _ := newTestEngine(&fakeCompleter{})
	e.SetPremiumStatus("u1", true)
	if !profiles.IsPremium("u1") {
		t.Fatalf("premium not set")
	}
}

func TestHandle_UpdatesLastActivity(t *testing.T) {
	e, profiles, _ := newTestEngine(&fakeCompleter{})
	e.Handle(context.Background(), "u1", "hello")
	want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := profiles.LastActivity("u1"); !got.Equal(want) {
		t.Fatalf("lastActivity=%v", got)
	}
}
