package logger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMiddlewareScopesLoggerToRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var fromGin, fromCtx *slog.Logger
	r := gin.New()
	r.Use(Middleware(base))
	r.GET("/ping", func(c *gin.Context) {
		fromGin = FromGin(c)
		fromCtx = From(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if fromGin == nil || fromGin == base || fromGin == slog.Default() {
		t.Fatalf("handler did not receive a request-scoped logger")
	}
	if fromCtx != fromGin {
		t.Fatalf("request context logger differs from gin context logger")
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("response is missing the request id header")
	}
}

func TestMiddlewareEchoesProvidedRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := slog.New(slog.NewJSONHandler(io.Discard, nil))

	r := gin.New()
	r.Use(Middleware(base))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("request id = %q, want req-42", got)
	}
}

func TestFromFallsBackToDefault(t *testing.T) {
	if From(context.Background()) != slog.Default() {
		t.Fatalf("bare context should yield the default logger")
	}
}
