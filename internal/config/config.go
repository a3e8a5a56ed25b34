package config

import (
	"fmt"
	"os"
	"strings"
)

// ModelConfig points at an OpenAI-compatible chat completions endpoint.
type ModelConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type Config struct {
	ListenAddr string

	Model ModelConfig

	// PersonaFile overrides the built-in persona instruction when present.
	PersonaFile string

	// AdminSecret guards the premium-flag admin endpoint. Empty disables it.
	AdminSecret string

	// ReplyWebhookURL, when set, receives outbound replies as JSON posts.
	ReplyWebhookURL string

	// WSURL/WSToken enable the socket.io channel gateway when set.
	// WSBotUserID is the gateway account's own user id; inbound events
	// from that author are dropped so the bot never answers itself.
	WSURL       string
	WSToken     string
	WSBotUserID string

	// AffirmationFeedURL, when set, grounds affirmations in a feed item.
	AffirmationFeedURL string

	CheckinEnabled bool
}

func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:         envOrDefault("KOKORO_LISTEN_ADDR", DefaultListenAddr),
		PersonaFile:        envOrDefault("KOKORO_PERSONA_FILE", DefaultPersonaFilename),
		AdminSecret:        strings.TrimSpace(os.Getenv("KOKORO_ADMIN_SECRET")),
		ReplyWebhookURL:    strings.TrimSpace(os.Getenv("KOKORO_REPLY_WEBHOOK_URL")),
		WSURL:              strings.TrimSpace(os.Getenv("KOKORO_WS_URL")),
		WSToken:            strings.TrimSpace(os.Getenv("KOKORO_WS_TOKEN")),
		WSBotUserID:        strings.TrimSpace(os.Getenv("KOKORO_WS_BOT_USER_ID")),
		AffirmationFeedURL: strings.TrimSpace(os.Getenv("KOKORO_AFFIRMATION_FEED_URL")),
		CheckinEnabled:     envBool("KOKORO_CHECKIN_ENABLED"),
		Model: ModelConfig{
			BaseURL: envOrDefault("KOKORO_BASE_URL", DefaultBaseURL),
			APIKey:  strings.TrimSpace(os.Getenv("KOKORO_API_KEY")),
			Model:   envOrDefault("KOKORO_MODEL", DefaultModel),
		},
	}

	if cfg.Model.APIKey == "" {
		return Config{}, fmt.Errorf("config incomplete: KOKORO_API_KEY is required")
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
