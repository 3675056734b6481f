package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_GEMINI_KEY", "test-key")
	c, err := New(Config{APIKeyEnv: "TEST_GEMINI_KEY", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGenerateConcatenatesParts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello, "},{"text":"world."}]}}]}`))
	})

	got, err := c.Generate(context.Background(), "greet")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Hello, world." {
		t.Errorf("answer = %q", got)
	}
}

func TestGenerateAPIErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := c.Generate(context.Background(), "greet")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error dropped the API message: %v", err)
	}
}

func TestGenerateNonJSONErrorBodyKeepsStatus(t *testing.T) {
	// Proxies return HTML error pages; the HTTP status must survive them.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.Generate(context.Background(), "greet")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error lost the HTTP status: %v", err)
	}
	if strings.Contains(err.Error(), "decoding response") {
		t.Errorf("non-JSON error body reported as a decode failure: %v", err)
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})

	if _, err := c.Generate(context.Background(), "greet"); err == nil {
		t.Fatal("expected an error for an empty candidate list")
	}
}
