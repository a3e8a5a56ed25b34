package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"kokoro/internal/config"
)

// Reply is the outbound delivery payload.
type Reply struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// PostReply delivers a reply with up to 3 attempts and jittered
// doubling backoff. Exhaustion is the caller's DeliveryError: there is
// nothing further to do user-side since the reply channel itself failed.
func PostReply(ctx context.Context, httpClient *http.Client, webhookURL string, reply Reply, attempts int) error {
	return postReply(ctx, httpClient, webhookURL, reply, attempts, config.DefaultBackoffBase)
}

func postReply(ctx context.Context, httpClient *http.Client, webhookURL string, reply Reply, attempts int, backoffBase time.Duration) error {
	if attempts <= 0 {
		attempts = config.DefaultMaxAttempts
	}
	body, err := json.Marshal(reply)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := postJSON(ctx, httpClient, webhookURL, body); err != nil {
			lastErr = err
			if attempt == attempts {
				break
			}
			backoff := backoffBase << (attempt - 1)
			jittered := time.Duration(float64(backoff) * (0.5 + rand.Float64()*0.5))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(jittered):
				continue
			}
		}
		return nil
	}
	return lastErr
}

func postJSON(ctx context.Context, httpClient *http.Client, webhookURL string, body []byte) error {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultPostHTTPTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(webhookURL), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return errors.New(msg)
	}
	return nil
}
