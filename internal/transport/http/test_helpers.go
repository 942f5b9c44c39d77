package http

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyhall-live/relay-server/internal/auth"
	"github.com/studyhall-live/relay-server/internal/config"
	"github.com/studyhall-live/relay-server/internal/relay"
	"github.com/studyhall-live/relay-server/internal/store/sqlite"
)

// testEnv bundles everything a transport test needs.
type testEnv struct {
	ts   *httptest.Server
	auth *auth.Service
	st   *sqlite.SQLiteStore
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.JWTSecret = "test-secret-change-me"
	cfg.JWTIssuer = "test"
	cfg.JWTAudience = "test"
	return cfg
}

func startTestServer(t *testing.T, cfg config.Config) testEnv {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "relay.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Hour,
	})
	if err := authService.EnsureAdmin(context.Background(), "prof", "supersecret"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	disabledLogger := zerolog.Nop()
	hub := relay.NewHub(relay.HubConfig{
		MaxActiveCalls: cfg.MaxActiveCalls,
		MaxMessageLen:  cfg.MaxMessageLen,
	}, nil, &disabledLogger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, authService, st, &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return testEnv{ts: ts, auth: authService, st: st}
}

// adminToken logs the seeded admin in.
func (e testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.auth.Login(context.Background(), "prof", "supersecret")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return token
}

// studentToken registers a fresh student account.
func (e testEnv) studentToken(t *testing.T, username string) string {
	t.Helper()
	token, err := e.auth.Register(context.Background(), username, "password123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return token
}
