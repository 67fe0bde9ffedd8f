package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/radiorasclat/api/internal/catalog"
	"github.com/radiorasclat/api/internal/changelog"
	"github.com/radiorasclat/api/internal/radio"
)

var errUpstream = errors.New("upstream unreachable")

func TestLiveInfoServesStation(t *testing.T) {
	fix := newTestRouter(t, nil)
	fix.radio.info = &radio.LiveInfo{
		Station: json.RawMessage(`{"name":"Radio Rasclat"}`),
		Tracks: radio.TrackSet{
			Previous: json.RawMessage(`{"name":"Dub Track"}`),
			Current:  json.RawMessage(`{"name":"Riddim"}`),
			Next:     json.RawMessage(`null`),
		},
	}

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/live-info", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != `{"name":"Radio Rasclat"}` {
		t.Errorf("body = %s, want station payload only", got)
	}
}

func TestPreviousTrackPath(t *testing.T) {
	fix := newTestRouter(t, nil)
	fix.radio.info = &radio.LiveInfo{
		Tracks: radio.TrackSet{Previous: json.RawMessage(`{"name":"Dub Track"}`)},
	}

	// The previous-track route is mounted under the singular "track"
	// segment, unlike current and next.
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/track/previous", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != `{"name":"Dub Track"}` {
		t.Errorf("body = %s, want previous track payload", got)
	}
}

func TestLiveInfoUpstreamDown(t *testing.T) {
	fix := newTestRouter(t, nil)
	fix.radio.err = errUpstream

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/tracks/current", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestChangelogRepoSelection(t *testing.T) {
	fix := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/changelog/radio-rasclat-ios", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if fix.rels.repo != changelog.RepoIOS {
		t.Errorf("repo = %q, want %q", fix.rels.repo, changelog.RepoIOS)
	}
}

func TestStatusProxiesMonitors(t *testing.T) {
	fix := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != `{"stat":"ok"}` {
		t.Errorf("body = %s, want monitor payload", got)
	}
}

func TestRecordingsListIsCached(t *testing.T) {
	calls := 0
	fix := newTestRouter(t, &fakeStore{
		listRecordings: func(context.Context) ([]catalog.RecordingDetail, error) {
			calls++
			return []catalog.RecordingDetail{{Title: "Dub Session #1"}}, nil
		},
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recordings", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}

	if calls != 1 {
		t.Errorf("store reads = %d, want 1 (second response from cache)", calls)
	}
}
