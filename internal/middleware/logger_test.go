package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	buf := captureLog(t)

	handler := chimiddleware.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/logos/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	line := buf.String()
	if !strings.Contains(line, "GET /logos/nope 404") {
		t.Errorf("log line missing method/path/status: %q", line)
	}
	if !strings.Contains(line, "7B") {
		t.Errorf("log line missing response size: %q", line)
	}
	open, end := strings.Index(line, "["), strings.Index(line, "]")
	if open < 0 || end < open+2 {
		t.Errorf("log line missing request id: %q", line)
	}
}

func TestLogger_DefaultStatusIs200(t *testing.T) {
	buf := captureLog(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !strings.Contains(buf.String(), "GET /health 200") {
		t.Errorf("log line = %q, want implicit 200", buf.String())
	}
}
