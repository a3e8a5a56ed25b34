package engine

import (
	"context"
	"fmt"
	"strings"

	"kokoro/internal/intent"
)

// dispatchCommand handles a recognized-or-not slash command. Only the
// exercise/affirmation branches touch the completion gateway and the
// history store; everything else is canned or store-read-only.
func (e *Engine) dispatchCommand(ctx context.Context, id, rawText, name string) string {
	switch name {
	case "help":
		return replyHelp
	case "upgrade":
		if e.profiles.IsPremium(id) {
			return replyAlreadyPremium
		}
		return replyUpgradePitch
	case "mood":
		return e.moodReply(id)
	case "clear":
		e.history.Clear(id)
		return replyCleared
	case "exercise":
		return e.completeAndRecord(ctx, id, intent.Intent{Kind: intent.KindExercise}, rawText)
	case "affirmation":
		return e.completeAndRecord(ctx, id, intent.Intent{Kind: intent.KindAffirmation}, rawText)
	default:
		return replyUnknownCommand
	}
}

func (e *Engine) moodReply(id string) string {
	log := e.profiles.MoodLog(id)
	if len(log) == 0 {
		return replyMoodEmpty
	}

	shown := log
	if len(shown) > moodEntriesShown {
		shown = shown[len(shown)-moodEntriesShown:]
	}

	var b strings.Builder
	b.WriteString("Your recent moods:\n")
	for _, entry := range shown {
		fmt.Fprintf(&b, "%s: %d/10 %s\n", entry.ObservedAt.Format("2006-01-02"), entry.Score, moodEmoji(entry.Score))
	}

	sum := 0
	for _, entry := range log {
		sum += entry.Score
	}
	fmt.Fprintf(&b, "Average: %.1f/10", float64(sum)/float64(len(log)))

	if !e.profiles.IsPremium(id) && len(log) > len(shown) {
		b.WriteString(replyMoodUpsell)
	}
	return b.String()
}

// moodEmoji buckets a score; ties resolve to the higher bucket.
func moodEmoji(score int) string {
	switch {
	case score >= 9:
		return "😄"
	case score >= 7:
		return "😊"
	case score >= 5:
		return "😐"
	case score >= 3:
		return "😔"
	default:
		return "😢"
	}
}
