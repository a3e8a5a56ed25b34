package ai

import (
	"fmt"
	"strings"

	openaigo "github.com/openai/openai-go/v3"

	"kokoro/internal/intent"
	"kokoro/internal/store"
)

// OutboundPrompt rewrites the user-visible text for the upstream model.
// Mood reports get a tagged annotation carrying the score; the
// exercise/affirmation intents use their synthesized prompts, with the
// affirmation prompt seeded by the current feed item when one is
// cached. Everything else passes through unchanged.
func OutboundPrompt(it intent.Intent, text, affirmation string) string {
	switch it.Kind {
	case intent.KindMoodReport:
		return fmt.Sprintf(moodTagFormat, it.Score, strings.TrimSpace(text))
	case intent.KindExercise:
		return ExercisePrompt
	case intent.KindAffirmation:
		if affirmation != "" {
			return fmt.Sprintf(affirmationSeedFormat, affirmation)
		}
		return AffirmationPrompt
	default:
		return text
	}
}

// buildMessages orders the request: persona system turn, history in
// original order, then the new prompt as the final user turn.
func buildMessages(persona string, history []store.Turn, prompt string) []openaigo.ChatCompletionMessageParamUnion {
	messages := make([]openaigo.ChatCompletionMessageParamUnion, 0, 2+len(history))
	messages = append(messages, openaigo.SystemMessage(strings.TrimSpace(persona)))
	for _, turn := range history {
		switch turn.Role {
		case store.RoleAssistant:
			messages = append(messages, openaigo.AssistantMessage(turn.Content))
		case store.RoleSystem:
			messages = append(messages, openaigo.SystemMessage(turn.Content))
		default:
			messages = append(messages, openaigo.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openaigo.UserMessage(prompt))
	return messages
}
