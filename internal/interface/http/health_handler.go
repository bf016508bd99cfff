package httpapi

import (
	"context"
	"net/http"
	"time"

	"bearcart-analytics/internal/infrastructure/db"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"status":    "alive",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	health := "ok"

	dbStatus := "using_memory"
	if s.db != nil {
		dbStatus = "ok"
		if err := db.Ping(ctx, s.db); err != nil {
			dbStatus = "error: " + err.Error()
			health = "degraded"
		}
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "ok"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}
	}

	upstreamStatus := "disabled"
	if s.upstream != nil {
		upstreamStatus = "ok"
		if err := s.upstream.Ping(ctx); err != nil {
			upstreamStatus = "error: " + err.Error()
			health = "degraded"
		}
	}

	snapshot := "loading"
	if s.loader != nil {
		if snap, ok := s.loader.Current(); ok {
			snapshot = snap.FetchedAt.Format(time.RFC3339)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"health":   health,
		"source":   s.sourceName,
		"db":       dbStatus,
		"redis":    redisStatus,
		"upstream": upstreamStatus,
		"snapshot": snapshot,
		"time":     time.Now().Format(time.RFC3339),
	})
}
