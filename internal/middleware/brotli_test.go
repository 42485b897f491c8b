package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func newBrotliRouter(body string, skip ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Brotli(64, skip...))
	handler := func(c *gin.Context) { c.String(http.StatusOK, body) }
	r.GET("/data", handler)
	r.GET("/metrics", handler)
	return r
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("quiz answer ", 100)
	r := newBrotliRouter(body)

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("expected br encoding, got %q", w.Header().Get("Content-Encoding"))
	}
	plain, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(plain) != body {
		t.Fatal("round-tripped body differs")
	}
}

func TestBrotliPassesSmallBodiesThrough(t *testing.T) {
	r := newBrotliRouter("tiny")

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "" {
		t.Fatalf("small body should not be compressed")
	}
	if w.Body.String() != "tiny" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestBrotliHonoursSkipPathsAndAcceptEncoding(t *testing.T) {
	body := strings.Repeat("x", 500)
	r := newBrotliRouter(body, "/metrics")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != body {
		t.Fatal("skipped path was compressed")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != body {
		t.Fatal("client without br support got compressed output")
	}
}
