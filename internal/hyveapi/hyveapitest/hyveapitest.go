// Package hyveapitest runs a fake HYVE API for service tests.
package hyveapitest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

// Request is one request received by the fake API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Decode unmarshals the request body into v.
func (r Request) Decode(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode request body %q: %v", r.Body, err)
	}
}

// Server records requests and answers them with a handler.
type Server struct {
	mu       sync.Mutex
	requests []Request
}

// New starts a fake API answering with h and returns a client pointed at it.
// The server is closed when the test ends.
func New(t testing.TB, h http.HandlerFunc) (*Server, *hyveapi.Client) {
	t.Helper()
	s := &Server{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := hyveapi.NewClient(hyveapi.Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil, logger, hyveapi.WithHTTPClient(srv.Client()))
	return s, client
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Last returns the most recent request. It fails the test when there is none.
func (s *Server) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("the fake API received no request")
	}
	return reqs[len(reqs)-1]
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data answers 200 with {"data": v}.
func Data(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]any{"data": v})
	}
}

// Page answers 200 with a list envelope.
func Page(items any, total, page, pages int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]any{"data": items, "totalCount": total, "currentPage": page, "totalPages": pages})
	}
}

// Fail answers status with {"message": message}.
func Fail(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, status, map[string]any{"message": message})
	}
}
