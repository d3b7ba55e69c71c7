package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vision-overlay/config"
	"vision-overlay/internal/api/rest/handlers"
	"vision-overlay/internal/container"
	"vision-overlay/internal/domain/port"
)

const Version = "1.0.0"

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler   *handlers.HealthHandler
	annotateHandler *handlers.AnnotateHandler
}

// NewServer proxy используется маршрутом /api/infer.
func NewServer(cfg *config.Config, c *container.Container, proxy port.Inferencer) *Server {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		config:          cfg,
		router:          gin.New(),
		healthHandler:   handlers.NewHealthHandler(Version),
		annotateHandler: handlers.NewAnnotateHandler(c.AnnotationService, proxy),
	}
}

func (s *Server) Setup() {
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting HTTP API")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	log.Info().Msg("Stopping HTTP API")
	return s.server.Shutdown(ctx)
}

// Handler отдаёт роутер, пригодный для httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}
