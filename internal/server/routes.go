package server

import (
	"github.com/gin-gonic/gin"
)

const healthPath = "/api/health"

// setupRoutes mounts the health, metrics and module routes
func (s *Server) setupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
	}

	if s.metrics != nil && s.cfg.Metrics.Enabled {
		r.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	s.registry.RegisterRoutes(r)
}
