package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ilindan-dev/homemaster-mailer/internal/auth"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/rs/zerolog"
	"net/http"
	"time"
)

// Server is a wrapper for the HTTP server.
type Server struct {
	*http.Server
	logger zerolog.Logger
}

// NewServer creates and configures a new Gin server.
func NewServer(cfg *config.Config, handlers *Handlers, verifier auth.Verifier, logger *zerolog.Logger) *Server {
	log := logger.With().Str("layer", "http_server").Logger()
	log.Info().Msg("initializing http server")

	log.Info().Str("mode", cfg.HTTP.GinMode).Msg("setting gin mode")
	gin.SetMode(cfg.HTTP.GinMode)

	router := NewRouter(handlers, verifier, logger)

	server := &http.Server{
		Addr:              cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{server, log}
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(handlers *Handlers, verifier auth.Verifier, logger *zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := router.Group("/", Authenticate(verifier, logger))
	handlers.RegisterRoutes(authed)

	return router
}
