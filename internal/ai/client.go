// Package ai is the completion gateway: it turns a prompt plus rolling
// history into one chat-completions call against an OpenAI-compatible
// endpoint. Retrying is the caller's job; the gateway fails fast.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"kokoro/internal/config"
	"kokoro/internal/intent"
	"kokoro/internal/store"
)

// ErrUpstream marks a failed or unusable completion call.
var ErrUpstream = errors.New("completion upstream error")

// AffirmationFunc yields the current feed affirmation, if one is cached.
type AffirmationFunc func() (string, bool)

type Client struct {
	cfg         config.ModelConfig
	persona     string
	httpClient  *http.Client
	affirmation AffirmationFunc
}

func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: config.DefaultChatHTTPTimeout}
}

func NewClient(cfg config.ModelConfig, persona string, httpClient *http.Client, affirmation AffirmationFunc) *Client {
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersona
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Client{cfg: cfg, persona: persona, httpClient: httpClient, affirmation: affirmation}
}

// affirmationSeed looks up the cached feed item for affirmation
// requests; all other intents ignore the feed.
func (c *Client) affirmationSeed(kind intent.Kind) string {
	if kind != intent.KindAffirmation || c.affirmation == nil {
		return ""
	}
	cur, ok := c.affirmation()
	if !ok {
		return ""
	}
	return cur
}

// Complete sends persona + history + the (possibly rewritten) prompt
// and returns the generated text. It does not write to any store.
func (c *Client) Complete(ctx context.Context, it intent.Intent, text string, history []store.Turn) (string, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(c.cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	model := strings.TrimSpace(c.cfg.Model)
	if model == "" {
		model = config.DefaultModel
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", fmt.Errorf("%w: api_key is required", ErrUpstream)
	}

	client := openaigo.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(strings.TrimSpace(c.cfg.APIKey)),
		option.WithHTTPClient(c.httpClient),
		// The engine owns retries; let every failure surface at once.
		option.WithMaxRetries(0),
		option.WithRequestTimeout(config.DefaultChatHTTPTimeout),
	)

	params := openaigo.ChatCompletionNewParams{
		Model:            openaigo.ChatModel(model),
		Messages:         buildMessages(c.persona, history, OutboundPrompt(it, text, c.affirmationSeed(it.Kind))),
		Temperature:      openaigo.Float(config.DefaultTemperature),
		TopP:             openaigo.Float(config.DefaultTopP),
		MaxTokens:        openaigo.Int(config.DefaultMaxTokens),
		FrequencyPenalty: openaigo.Float(config.DefaultFrequencyPenalty),
		PresencePenalty:  openaigo.Float(config.DefaultPresencePenalty),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUpstream)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%w: empty content", ErrUpstream)
	}
	return out, nil
}
