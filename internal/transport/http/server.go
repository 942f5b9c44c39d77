package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyhall-live/relay-server/internal/auth"
	"github.com/studyhall-live/relay-server/internal/config"
	"github.com/studyhall-live/relay-server/internal/relay"
	"github.com/studyhall-live/relay-server/internal/store"
)

// NewServer builds the HTTP server: REST auth endpoints, chat history,
// and the websocket entry point into the relay.
func NewServer(hub *relay.Hub, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/healthz", healthHandler)

	api := NewAPIHandlers(authService, st, logger)
	router.POST("/api/register", api.Register)
	router.POST("/api/login", api.Login)
	router.GET("/api/messages", AuthMiddleware(authService, logger), api.RecentMessages)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
