// Package affirm fetches an optional RSS/Atom feed of daily
// affirmations and keeps the newest item cached in memory. When no feed
// is configured the rest of the system falls back to pure LLM output.
package affirm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"kokoro/internal/xutil/htmlutil"
)

const maxFeedBytes = 5 * 1024 * 1024

type Source struct {
	feedURL    string
	httpClient *http.Client
	parser     *gofeed.Parser

	mu           sync.RWMutex
	etag         string
	lastModified string
	current      string
}

func NewSource(feedURL string, httpClient *http.Client) *Source {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Source{
		feedURL:    strings.TrimSpace(feedURL),
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
	}
}

func (s *Source) Enabled() bool { return s != nil && s.feedURL != "" }

// Current returns the cached affirmation text, if any.
func (s *Source) Current() (string, bool) {
	if !s.Enabled() {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return "", false
	}
	return s.current, true
}

// Fetch refreshes the cache with a conditional GET. A 304 keeps the
// cached item and is not an error.
func (s *Source) Fetch(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return err
	}
	s.mu.RLock()
	if s.etag != "" {
		req.Header.Set("If-None-Match", s.etag)
	}
	if s.lastModified != "" {
		req.Header.Set("If-Modified-Since", s.lastModified)
	}
	s.mu.RUnlock()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("feed fetch failed: status=%d: %s", resp.StatusCode, msg)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return err
	}
	feed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return err
	}

	item := firstUsableItem(feed)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.etag = strings.TrimSpace(resp.Header.Get("ETag"))
	s.lastModified = strings.TrimSpace(resp.Header.Get("Last-Modified"))
	if item != "" {
		s.current = item
	}
	return nil
}

// firstUsableItem prefers the item description over the title and
// flattens any HTML to plain text.
func firstUsableItem(feed *gofeed.Feed) string {
	if feed == nil {
		return ""
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		if text := htmlutil.CleanText(item.Description); text != "" {
			return text
		}
		if text := htmlutil.CleanText(item.Title); text != "" {
			return text
		}
	}
	return ""
}
