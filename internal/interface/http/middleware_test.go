package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/id", nil)
		router.ServeHTTP(w, req)

		got := w.Header().Get(requestIDHeader)
		if len(got) != 36 || w.Body.String() != got {
			t.Errorf("expected generated uuid, header=%q body=%q", got, w.Body.String())
		}
	})

	t.Run("Propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/id", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		router.ServeHTTP(w, req)

		if w.Header().Get(requestIDHeader) != "abc-123" {
			t.Errorf("expected caller id to be echoed, got %q", w.Header().Get(requestIDHeader))
		}
	})
}

func TestCORSMiddleware(t *testing.T) {
	server, _ := newTestServer(t, demoStore(), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/api/dashboard", nil)
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}
