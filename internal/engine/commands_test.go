package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"kokoro/internal/intent"
)

func TestHandle_HelpCommand(t *testing.T) {
	e, _, _ := newTestEngine(&fakeCompleter{})
	if reply := e.Handle(context.Background(), "u1", "/help"); reply != replyHelp {
		t.Fatalf("reply=%q", reply)
	}
}

func TestHandle_UnknownCommand(t *testing.T) {
	fake := &fakeCompleter{}
	e, profiles, history := newTestEngine(fake)

	reply := e.Handle(context.Background(), "u1", "/foo")
	if reply != replyUnknownCommand {
		t.Fatalf("reply=%q", reply)
	}
	if fake.calls != 0 {
		t.Fatalf("gateway called for unknown command")
	}
	if len(history.Get("u1")) != 0 {
		t.Fatalf("history mutated")
	}
	if len(profiles.MoodLog("u1")) != 0 {
		t.Fatalf("mood log mutated")
	}
}

func TestHandle_UpgradeCommand(t *testing.T) {
	e, profiles, _ := newTestEngine(&fakeCompleter{})

	if reply := e.Handle(context.Background(), "u1", "/upgrade"); reply != replyUpgradePitch {
		t.Fatalf("reply=%q", reply)
	}
	profiles.SetPremium("u1", true)
	if reply := e.Handle(context.Background(), "u1", "/upgrade"); reply != replyAlreadyPremium {
		t.Fatalf("reply=%q", reply)
	}
}

func TestHandle_ClearCommand(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"hi"}}
	e, _, history := newTestEngine(fake)

	e.Handle(context.Background(), "u1", "hello")
	reply := e.Handle(context.Background(), "u1", "/clear")
	if reply != replyCleared {
		t.Fatalf("reply=%q", reply)
	}
	if len(history.Get("u1")) != 0 {
		t.Fatalf("history survived clear")
	}
}

func TestHandle_MoodCommandEmpty(t *testing.T) {
	e, _, _ := newTestEngine(&fakeCompleter{})
	if reply := e.Handle(context.Background(), "u1", "/mood"); reply != replyMoodEmpty {
		t.Fatalf("reply=%q", reply)
	}
}

func TestHandle_MoodCommandFormatting(t *testing.T) {
	e, profiles, _ := newTestEngine(&fakeCompleter{})
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	profiles.AppendMood("u1", 7, t0)
	profiles.AppendMood("u1", 3, t0.Add(24*time.Hour))
	profiles.AppendMood("u1", 9, t0.Add(48*time.Hour))

	reply := e.Handle(context.Background(), "u1", "/mood")

	lines := strings.Split(reply, "\n")
	if lines[0] != "Your recent moods:" {
		t.Fatalf("header=%q", lines[0])
	}
	want := []string{
		"2025-03-01: 7/10 😊",
		"2025-03-02: 3/10 😔",
		"2025-03-03: 9/10 😄",
	}
	for i, w := range want {
		if lines[i+1] != w {
			t.Fatalf("line %d=%q want=%q", i+1, lines[i+1], w)
		}
	}
	if !strings.Contains(reply, "Average: 6.3/10") {
		t.Fatalf("average missing: %q", reply)
	}
	if strings.Contains(reply, replyMoodUpsell) {
		t.Fatalf("upsell shown with nothing hidden")
	}
}

func TestHandle_MoodCommandUpsell(t *testing.T) {
	e, profiles, _ := newTestEngine(&fakeCompleter{})
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < moodEntriesShown+2; i++ {
		profiles.AppendMood("u1", 5, t0.Add(time.Duration(i)*time.Hour))
	}

	reply := e.Handle(context.Background(), "u1", "/mood")
	if !strings.Contains(reply, "upgrade") {
		t.Fatalf("upsell missing: %q", reply)
	}
	// Only the most recent entries are listed.
	if got := strings.Count(reply, "5/10"); got != moodEntriesShown {
		t.Fatalf("entries shown=%d", got)
	}

	// Premium users never see the upsell.
	profiles.SetPremium("u1", true)
	reply = e.Handle(context.Background(), "u1", "/mood")
	if strings.Contains(reply, replyMoodUpsell) {
		t.Fatalf("premium user saw upsell")
	}
}

func TestHandle_ExerciseCommandStoresOriginalText(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"breathe in, breathe out"}}
	e, _, history := newTestEngine(fake)

	reply := e.Handle(context.Background(), "u1", "/exercise")
	if reply != "breathe in, breathe out" {
		t.Fatalf("reply=%q", reply)
	}
	if fake.lastIt.Kind != intent.KindExercise {
		t.Fatalf("intent=%+v", fake.lastIt)
	}

	turns := history.Get("u1")
	if len(turns) != 2 {
		t.Fatalf("len=%d", len(turns))
	}
	// The stored user turn is the original command, not the synthesized prompt.
	if turns[0].Content != "/exercise" {
		t.Fatalf("stored user turn=%q", turns[0].Content)
	}
}

func TestHandle_AffirmationCommand(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"you are enough"}}
	e, _, history := newTestEngine(fake)

	reply := e.Handle(context.Background(), "u1", "/affirmation")
	if reply != "you are enough" {
		t.Fatalf("reply=%q", reply)
	}
	if fake.lastIt.Kind != intent.KindAffirmation {
		t.Fatalf("intent=%+v", fake.lastIt)
	}
	if history.Get("u1")[0].Content != "/affirmation" {
		t.Fatalf("stored user turn=%q", history.Get("u1")[0].Content)
	}
}

func TestMoodEmojiBuckets(t *testing.T) {
	cases := map[int]string{
		10: "😄", 9: "😄",
		8: "😊", 7: "😊",
		6: "😐", 5: "😐",
		4: "😔", 3: "😔",
		2: "😢", 1: "😢",
	}
	for score, want := range cases {
		if got := moodEmoji(score); got != want {
			t.Fatalf("score=%d emoji=%q want=%q", score, got, want)
		}
	}
}
