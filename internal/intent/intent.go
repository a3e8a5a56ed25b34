// Package intent classifies a single inbound message into the purposes
// the engine cares about. Classification is a pure string function with
// no I/O: slash commands win, then an anchored mood pattern, then a
// small keyword tier, then freeform.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Kind string

const (
	KindSlashCommand Kind = "slash_command"
	KindMoodReport   Kind = "mood_report"
	KindExercise     Kind = "exercise_request"
	KindAffirmation  Kind = "affirmation_request"
	KindFreeform     Kind = "freeform"
)

type Intent struct {
	Kind Kind

	// Command is the lower-cased token after "/" for KindSlashCommand.
	Command string

	// Score is the reported mood (1-10) for KindMoodReport.
	Score int
}

// moodRe matches "my mood is 7", "I feel: 3", "mood 10/10", or a bare
// score. Lead-in and the /10 suffix are optional; only 1-10 is accepted,
// anchored over the whole message.
var moodRe = regexp.MustCompile(`(?i)^\s*(?:(?:my mood is|i am feeling|i feel|mood)[:\s]+)?(10|[1-9])\s*(?:/\s*10)?\s*$`)

func Classify(text string) Intent {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "/") {
		name := trimmed[1:]
		if i := strings.IndexAny(name, " \t"); i >= 0 {
			name = name[:i]
		}
		return Intent{Kind: KindSlashCommand, Command: strings.ToLower(name)}
	}

	if m := moodRe.FindStringSubmatch(trimmed); m != nil {
		score, err := strconv.Atoi(m[1])
		if err == nil && score >= 1 && score <= 10 {
			return Intent{Kind: KindMoodReport, Score: score}
		}
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "coping exercise") || strings.Contains(lower, "help me cope") {
		return Intent{Kind: KindExercise}
	}
	if strings.Contains(lower, "affirmation") || strings.Contains(lower, "positive thought") {
		return Intent{Kind: KindAffirmation}
	}

	return Intent{Kind: KindFreeform}
}
