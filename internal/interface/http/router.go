package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes() {
	r := s.engine
	r.Use(gin.Recovery(), requestID(), s.ginLogger(), corsMiddleware())
	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, errCodeNotFound, "route not found")
	})

	api := r.Group("/api")
	api.GET("/ping", s.handlePing)
	api.GET("/health", s.handleHealth)

	dash := api.Group("/dashboard")
	dash.GET("", s.handleDashboard)
	dash.GET("/export", s.handleExport)
	dash.GET("/current", s.handleCurrent)
	dash.POST("/range", s.handleSelectRange)
}
