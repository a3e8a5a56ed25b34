package config

import "time"

const (
	DefaultListenAddr = ":8700"
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModel      = "gpt-4o-mini"

	DefaultPersonaFilename = "persona.md"

	// Generation knobs sent with every chat completion request.
	DefaultTemperature      = 0.7
	DefaultTopP             = 0.95
	DefaultMaxTokens        = 800
	DefaultFrequencyPenalty = 0.5
	DefaultPresencePenalty  = 0.5

	// Upstream/delivery retries: 3 attempts, exp backoff from the base
	// delay, doubled per attempt, scaled by rand(0.5, 1.0).
	DefaultMaxAttempts = 3
	DefaultBackoffBase = time.Second

	DefaultChatHTTPTimeout = 90 * time.Second
	DefaultPostHTTPTimeout = 15 * time.Second

	// Daily check-in loop: users active within the window but silent for
	// longer than the gap get a proactive nudge.
	DefaultCheckinInterval = time.Hour
	DefaultCheckinGap      = 8 * time.Hour
	DefaultCheckinWindow   = 24 * time.Hour

	DefaultAffirmationRefresh = 6 * time.Hour

	LogContentPreviewLen = 80
)
