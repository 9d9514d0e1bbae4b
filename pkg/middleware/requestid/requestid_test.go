package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newEchoRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		*captured = Value(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestMiddlewareReusesIncomingHeader(t *testing.T) {
	var inContext string
	r := newEchoRouter(&inContext)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "gw-12345")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if inContext != "gw-12345" {
		t.Fatalf("context id = %q, want gw-12345", inContext)
	}
	if got := w.Header().Get("X-Request-ID"); got != "gw-12345" {
		t.Fatalf("response header = %q, want gw-12345", got)
	}
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var inContext string
	r := newEchoRouter(&inContext)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if inContext == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := w.Header().Get("X-Request-ID"); got != inContext {
		t.Fatalf("response header = %q, want %q", got, inContext)
	}
}
