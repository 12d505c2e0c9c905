package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookmark-highlighter/internal/config"
	"bookmark-highlighter/internal/domain"
)

func newTestContainer() *config.Container {
	logger := NewMockHandlerLogger()
	return &config.Container{
		Config: &config.AppConfig{
			ServerPort:     "8080",
			LogLevel:       "info",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Logger:           logger,
		HighlightService: newTestService(),
	}
}

func TestRouter_Health(t *testing.T) {
	router := NewRouter(newTestContainer())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %q", body["status"])
	}
}

func TestRouter_ProtectedRoutesLocalMode(t *testing.T) {
	// Without a Supabase client the middleware injects the local user, so
	// the full stack is exercisable end to end.
	router := NewRouter(newTestContainer())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookmarks/bookmark-1/highlights", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	var highlights []*domain.Highlight
	if err := json.Unmarshal(rr.Body.Bytes(), &highlights); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestRouter_AnnotateEndToEnd(t *testing.T) {
	router := NewRouter(newTestContainer())

	// Capture through the router, then annotate a fresh copy of the page.
	capture := strings.NewReader(`{
		"html": "<p>The quick brown fox jumps</p>",
		"start_path": "/p/text()[1]",
		"start_offset": 4,
		"end_path": "/p/text()[1]",
		"end_offset": 19
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/bookmark-1/highlights/capture", capture)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("capture: expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	annotate := strings.NewReader(`{"html":"<p>The quick brown fox jumps</p>"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/bookmark-1/annotate", annotate)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("annotate: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	var resp struct {
		HTML    string   `json:"html"`
		Applied []string `json:"applied"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Applied) != 1 {
		t.Fatalf("expected 1 applied highlight, got %v", resp.Applied)
	}
	if !strings.Contains(resp.HTML, ">quick brown fox</mark>") {
		t.Fatalf("expected the marked text in the html, got %s", resp.HTML)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(newTestContainer())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
