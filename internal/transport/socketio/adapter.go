package socketio

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"kokoro/internal/config"
	"kokoro/internal/xutil/strutil"
)

const (
	EventMessageCreate = "message.create"
	EventMessageSend   = "message.send"
)

// Message is the inbound chat event payload.
type Message struct {
	ID        string          `json:"id"`
	ChannelID string          `json:"channel_id"`
	Content   string          `json:"content"`
	AuthorRaw json.RawMessage `json:"author"`
}

func (m Message) AuthorID() string {
	if len(m.AuthorRaw) == 0 {
		return ""
	}
	var author struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(m.AuthorRaw, &author); err != nil {
		return ""
	}
	return strings.TrimSpace(author.ID)
}

// Handler is the conversation engine as seen from a transport.
type Handler interface {
	Handle(ctx context.Context, id, text string) string
}

// Adapter translates gateway events into Handle calls and emits the
// reply on the same channel.
type Adapter struct {
	engine    Handler
	botUserID string
	logPrefix string
}

func NewAdapter(engine Handler, botUserID, logPrefix string) *Adapter {
	if logPrefix == "" {
		logPrefix = "[socketio]"
	}
	return &Adapter{engine: engine, botUserID: botUserID, logPrefix: logPrefix}
}

// HandleEvent is an EventHandler. Malformed payloads are dropped at
// this boundary and never reach the engine.
func (a *Adapter) HandleEvent(ctx context.Context, eventName string, payload json.RawMessage, emit EmitFunc) error {
	if eventName != EventMessageCreate || len(payload) == 0 {
		return nil
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("%s invalid payload dropped: %v", a.logPrefix, err)
		return nil
	}

	userID := msg.AuthorID()
	text := strings.TrimSpace(msg.Content)
	if strings.TrimSpace(msg.ChannelID) == "" || userID == "" || text == "" {
		return nil
	}
	if a.botUserID != "" && userID == a.botUserID {
		return nil
	}

	log.Printf("%s message: channel=%s user=%s content=%q",
		a.logPrefix, msg.ChannelID, userID, strutil.Preview(text, config.LogContentPreviewLen))

	reply := a.engine.Handle(ctx, userID, text)
	if strings.TrimSpace(reply) == "" {
		return nil
	}

	if err := emit(EventMessageSend, map[string]string{
		"channel_id": msg.ChannelID,
		"content":    reply,
	}); err != nil {
		log.Printf("%s emit reply failed: channel=%s err=%v", a.logPrefix, msg.ChannelID, err)
	}
	return nil
}
