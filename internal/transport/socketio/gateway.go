package socketio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type EmitFunc func(event string, payload any) error

type EventHandler func(ctx context.Context, eventName string, payload json.RawMessage, emit EmitFunc) error

type GatewayOptions struct {
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

func (o GatewayOptions) withDefaults() GatewayOptions {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	return o
}

// session is one live websocket connection. Writes are serialized
// through writeMu because replies and pongs come from different paths.
type session struct {
	conn    *websocket.Conn
	opts    GatewayOptions
	token   string
	handler EventHandler
	writeMu sync.Mutex
}

func (s *session) writeText(payload string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, []byte(payload))
}

func (s *session) emit(event string, payload any) error {
	frame, err := EmitFrame(event, payload)
	if err != nil {
		return err
	}
	return s.writeText(frame)
}

// authenticate answers the engine.io open with a socket.io connect
// carrying the auth token.
func (s *session) authenticate() error {
	auth, err := json.Marshal(map[string]string{"token": s.token})
	if err != nil {
		return err
	}
	return s.writeText("40" + string(auth))
}

// dispatch routes one decoded frame. A non-nil error ends the session.
func (s *session) dispatch(ctx context.Context, frame string) error {
	switch frame[0] {
	case '0': // engine.io open
		return s.authenticate()
	case '1': // engine.io close
		return errors.New("engine.io close")
	case '2': // ping
		return s.writeText("3")
	case '4': // socket.io message
		if len(frame) >= 2 && frame[1] == '4' {
			return fmt.Errorf("socket.io error: %s", strings.TrimSpace(frame))
		}
		if !strings.HasPrefix(frame, "42") {
			return nil
		}
		eventName, payload, ok, err := decodeEventPayload([]byte(frame[2:]))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return s.handler(ctx, eventName, payload, s.emit)
	default:
		return nil
	}
}

// RunGatewayOnce runs a single websocket session until it fails or ctx
// is done.
func RunGatewayOnce(ctx context.Context, wsURL, token string, handler EventHandler, opts GatewayOptions) error {
	if strings.TrimSpace(wsURL) == "" {
		return fmt.Errorf("wsURL is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	s := &session{opts: opts.withDefaults(), token: token, handler: handler}

	dialer := websocket.Dialer{HandshakeTimeout: s.opts.HandshakeTimeout}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	defer conn.Close()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"), time.Now().Add(2*time.Second))
			_ = conn.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		for _, frame := range SplitFrames(msg) {
			if len(frame) == 0 {
				continue
			}
			if err := s.dispatch(ctx, string(frame)); err != nil {
				return err
			}
		}
	}
}
