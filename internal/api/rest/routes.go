package rest

import "vision-overlay/internal/api/rest/middleware"

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.CORS())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler.HealthCheck)

	api := s.router.Group("/api", middleware.BodyLimit(s.config.MaxUploadBytes))
	{
		api.POST("/infer", s.annotateHandler.Infer)
		api.POST("/annotate", s.annotateHandler.Annotate)
		api.POST("/annotate/upload", s.annotateHandler.Upload)
		api.POST("/overlay", s.annotateHandler.Overlay)
		api.POST("/camera/capture", s.annotateHandler.Capture)
	}
}
