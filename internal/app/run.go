// Package app wires the service together: config, stores, gateway,
// engine, transports, and the optional feed/check-in loops.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kokoro/internal/affirm"
	"kokoro/internal/ai"
	"kokoro/internal/checkin"
	"kokoro/internal/config"
	"kokoro/internal/engine"
	"kokoro/internal/store"
	"kokoro/internal/transport/socketio"
	"kokoro/internal/transport/webhook"
	"kokoro/internal/xutil/syncx"
)

const logPrefix = "[kokoro]"

func Run() error {
	config.LoadDotEnv(logPrefix)

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	persona := loadPersona(cfg.PersonaFile)

	profiles := store.NewProfileStore()
	history := store.NewHistoryStore(profiles)
	affirmations := affirm.NewSource(cfg.AffirmationFeedURL, nil)
	completer := ai.NewClient(cfg.Model, persona, ai.NewHTTPClient(), affirmations.Current)
	eng := engine.New(profiles, history, completer, engine.Options{LogPrefix: logPrefix})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := syncx.NewGroup(ctx)

	if affirmations.Enabled() {
		g.Go(func(ctx context.Context) {
			syncx.RunInterval(ctx, config.DefaultAffirmationRefresh, true, func(ctx context.Context) {
				if err := affirmations.Fetch(ctx); err != nil {
					log.Printf("%s affirmation feed fetch failed: %v", logPrefix, err)
				}
			})
		})
	}

	srv := webhook.NewServer(eng, cfg.AdminSecret, cfg.ReplyWebhookURL, nil, logPrefix)
	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Handler()}
	g.Go(func(ctx context.Context) {
		log.Printf("%s webhook transport listening on %s", logPrefix, cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("%s http server stopped: %v", logPrefix, err)
		}
	})
	g.Go(func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	})

	if cfg.WSURL != "" {
		wsURL, err := socketio.WebsocketURL(cfg.WSURL)
		if err != nil {
			return err
		}
		adapter := socketio.NewAdapter(eng, cfg.WSBotUserID, logPrefix)
		g.Go(func(ctx context.Context) {
			err := socketio.RunGatewayWithReconnect(ctx, wsURL, cfg.WSToken, adapter.HandleEvent,
				socketio.GatewayOptions{}, socketio.ReconnectOptions{
					OnDisconnect: func(err error, nextBackoff time.Duration) {
						log.Printf("%s gateway disconnected: %v (reconnecting in %s)", logPrefix, err, nextBackoff)
					},
				})
			if err != nil && ctx.Err() == nil {
				log.Printf("%s gateway stopped: %v", logPrefix, err)
			}
		})
	}

	if cfg.CheckinEnabled && cfg.ReplyWebhookURL != "" {
		deliver := func(ctx context.Context, userID, text string) error {
			return webhook.PostReply(ctx, nil, cfg.ReplyWebhookURL, webhook.Reply{UserID: userID, Content: text}, 0)
		}
		loop := checkin.NewLoop(profiles, deliver, affirmations, checkin.Options{LogPrefix: logPrefix})
		g.Go(loop.Run)
	}

	g.Wait()
	return nil
}

// loadPersona reads the persona override file; a missing file means the
// built-in persona.
func loadPersona(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("%s read persona file failed: %v", logPrefix, err)
		}
		return ""
	}
	return strings.TrimSpace(string(b))
}
