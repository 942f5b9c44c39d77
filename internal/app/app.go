package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyhall-live/relay-server/internal/auth"
	"github.com/studyhall-live/relay-server/internal/config"
	"github.com/studyhall-live/relay-server/internal/relay"
	"github.com/studyhall-live/relay-server/internal/store"
	"github.com/studyhall-live/relay-server/internal/store/sqlite"
	transporthttp "github.com/studyhall-live/relay-server/internal/transport/http"
)

// App wires together the relay core, persistence, and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *relay.Hub
	store           store.Store
	log             *zerolog.Logger
}

// historySink adapts the message store to the relay's handoff interface.
type historySink struct {
	store store.MessageStore
}

func (s historySink) SaveMessage(ctx context.Context, m *relay.ChatMessage) error {
	return s.store.SaveMessage(ctx, &store.Message{
		UID:          m.ID,
		SenderUserID: m.SenderUserID,
		SenderName:   m.SenderName,
		Text:         m.Text,
		IsAdmin:      m.IsAdmin,
		CallID:       m.CallID,
		CreatedAt:    m.SentAt,
	})
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt_secret is required")
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	}
	authService := auth.NewService(st, jwtConfig)

	if err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	hub := relay.NewHub(relay.HubConfig{
		MaxActiveCalls: cfg.MaxActiveCalls,
		MaxMessageLen:  cfg.MaxMessageLen,
	}, historySink{store: st}, logger)

	server := transporthttp.NewServer(hub, authService, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
