// Package webhook is the push-style channel transport: inbound messages
// arrive as JSON posts, replies go back in the response body and, when
// configured, to an outbound reply webhook. It also hosts the
// shared-secret admin endpoint for the premium flag.
package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"kokoro/internal/xutil/htmlutil"
)

// Engine is the conversation engine as seen from this transport.
type Engine interface {
	Handle(ctx context.Context, id, text string) string
	SetPremiumStatus(id string, premium bool)
}

const AdminSecretHeader = "X-Admin-Secret"

type Server struct {
	engine      Engine
	adminSecret string
	replyURL    string
	httpClient  *http.Client
	logPrefix   string
}

func NewServer(engine Engine, adminSecret, replyURL string, httpClient *http.Client, logPrefix string) *Server {
	if logPrefix == "" {
		logPrefix = "[webhook]"
	}
	return &Server{
		engine:      engine,
		adminSecret: adminSecret,
		replyURL:    replyURL,
		httpClient:  httpClient,
		logPrefix:   logPrefix,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /inbound", s.handleInbound)
	mux.HandleFunc("POST /admin/premium", s.handleAdminPremium)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type inboundRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type inboundResponse struct {
	Reply string `json:"reply"`
}

// handleInbound validates the payload at the boundary; malformed
// requests never reach the engine.
func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	var req inboundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID := strings.TrimSpace(req.UserID)
	text := htmlutil.CleanText(req.Text)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	reply := s.engine.Handle(r.Context(), userID, text)

	if strings.TrimSpace(s.replyURL) != "" {
		if err := PostReply(r.Context(), s.httpClient, s.replyURL, Reply{UserID: userID, Content: reply}, 0); err != nil {
			// Delivery failed after retries; the reply still goes out in
			// the response body, so log and move on.
			log.Printf("%s reply delivery failed: user=%s err=%v", s.logPrefix, userID, err)
		}
	}

	writeJSON(w, http.StatusOK, inboundResponse{Reply: reply})
}

type adminPremiumRequest struct {
	UserID  string `json:"user_id"`
	Premium bool   `json:"premium"`
}

func (s *Server) handleAdminPremium(w http.ResponseWriter, r *http.Request) {
	if s.adminSecret == "" {
		writeError(w, http.StatusNotFound, "admin endpoint disabled")
		return
	}
	secret := r.Header.Get(AdminSecretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid admin secret")
		return
	}

	var req adminPremiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	s.engine.SetPremiumStatus(strings.TrimSpace(req.UserID), req.Premium)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
