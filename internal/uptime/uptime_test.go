package uptime

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestMonitors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		if r.URL.Path != "/getMonitors" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if r.PostForm.Get("api_key") != "key-123" {
			t.Errorf("api_key = %q", r.PostForm.Get("api_key"))
		}
		_, _ = w.Write([]byte(`{"stat": "ok", "monitors": []}`))
	}))
	defer srv.Close()

	monitors, err := NewWithBaseURL("key-123", testLogger(), srv.URL).Monitors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(monitors) != `{"stat": "ok", "monitors": []}` {
		t.Errorf("monitors = %s", monitors)
	}
}

func TestMonitors_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewWithBaseURL("key-123", testLogger(), srv.URL).Monitors(context.Background()); err == nil {
		t.Error("expected an error on HTTP 500")
	}
}
