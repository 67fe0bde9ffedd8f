package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/radiorasclat/api/internal/catalog"
)

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("WriteField(%q) error = %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestListArtists(t *testing.T) {
	id := primitive.NewObjectID()
	fix := newTestRouter(t, &fakeStore{
		listArtists: func(context.Context) ([]catalog.ArtistSummary, error) {
			return []catalog.ArtistSummary{
				{Artist: catalog.Artist{ID: id, Title: "Jahcoozi", Slug: "jahcoozi"}},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/artists", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "jahcoozi") {
		t.Errorf("body = %s, want artist list", rec.Body.String())
	}
}

func TestGetArtistNotFound(t *testing.T) {
	fix := newTestRouter(t, &fakeStore{
		getArtist: func(context.Context, string) (*catalog.ArtistDetail, error) {
			return nil, catalog.ErrNotFound
		},
	})

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/artists/artist/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["message"] != "Artist not found." {
		t.Errorf("message = %q, want %q", env["message"], "Artist not found.")
	}
}

func TestCreateArtistRequiresToken(t *testing.T) {
	fix := newTestRouter(t, nil)

	body, ct := multipartBody(t, map[string]string{"title": "Jahcoozi"})
	req := httptest.NewRequest(http.MethodPost, "/artists", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateArtistMissingTitle(t *testing.T) {
	fix := newTestRouter(t, nil)

	body, ct := multipartBody(t, map[string]string{})
	req := httptest.NewRequest(http.MethodPost, "/artists", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+fix.token)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["success"] != false {
		t.Error("success = true, want false")
	}
	if env["message"] != "No artist title was provided." {
		t.Errorf("message = %q, want %q", env["message"], "No artist title was provided.")
	}
}

func TestCreateArtist(t *testing.T) {
	var created *catalog.Artist
	fix := newTestRouter(t, &fakeStore{
		createArtist: func(_ context.Context, a *catalog.Artist) error {
			a.ID = primitive.NewObjectID()
			a.Slug = catalog.Slugify(a.Title)
			created = a
			return nil
		},
		stampArtist: func(_ context.Context, _, objectID string) (*catalog.Artist, error) {
			created.ObjectID = objectID
			return created, nil
		},
	})

	body, ct := multipartBody(t, map[string]string{"title": "Jahcoozi"})
	req := httptest.NewRequest(http.MethodPost, "/artists", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+fix.token)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["success"] != true {
		t.Fatalf("success = %v, want true: %s", env["success"], rec.Body.String())
	}
	if env["message"] != "Artist added." {
		t.Errorf("message = %q, want %q", env["message"], "Artist added.")
	}
	artist, ok := env["artist"].(map[string]any)
	if !ok {
		t.Fatalf("artist key missing in %s", rec.Body.String())
	}
	if artist["objectID"] != "obj-1" {
		t.Errorf("objectID = %v, want obj-1", artist["objectID"])
	}
	if fix.index.added != 1 {
		t.Errorf("index adds = %d, want 1", fix.index.added)
	}
}

func TestCreateArtistDuplicate(t *testing.T) {
	fix := newTestRouter(t, &fakeStore{
		createArtist: func(context.Context, *catalog.Artist) error {
			return catalog.ErrDuplicateTitle
		},
	})

	body, ct := multipartBody(t, map[string]string{"title": "Jahcoozi"})
	req := httptest.NewRequest(http.MethodPost, "/artists", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+fix.token)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, req)

	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["message"] != "This artist already exists in the database." {
		t.Errorf("message = %q, want duplicate message", env["message"])
	}
	if fix.index.added != 0 {
		t.Error("index add ran for a failed create")
	}
}

func TestUpdateArtist(t *testing.T) {
	var gotSet bson.M
	fix := newTestRouter(t, &fakeStore{
		updateArtist: func(_ context.Context, _ string, set bson.M) (*catalog.Artist, error) {
			gotSet = set
			return &catalog.Artist{Title: "Jahcoozi", ObjectID: "obj-1"}, nil
		},
	})

	form := strings.NewReader("_id=5c9d0a2c9c7a0a1bc4c0a111&title=Jahcoozi")
	req := httptest.NewRequest(http.MethodPut, "/artists/update", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+fix.token)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, req)

	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["success"] != true {
		t.Fatalf("success = %v, want true: %s", env["success"], rec.Body.String())
	}
	if env["message"] != "The artist has been updated." {
		t.Errorf("message = %q", env["message"])
	}
	if _, ok := env["artist"]; ok {
		t.Error("update response carries the entity, want message only")
	}
	if gotSet["title"] != "Jahcoozi" {
		t.Errorf("set = %v, want title in update set", gotSet)
	}
	if _, ok := gotSet["_id"]; ok {
		t.Error("_id leaked into the update set")
	}
}

func TestDeleteArtist(t *testing.T) {
	deleted := false
	fix := newTestRouter(t, &fakeStore{
		findArtist: func(context.Context, string) (*catalog.Artist, error) {
			return &catalog.Artist{Title: "Jahcoozi", ObjectID: "obj-9"}, nil
		},
		deleteArtist: func(context.Context, string) error {
			deleted = true
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/artists/delete", strings.NewReader(`{"_id":"5c9d0a2c9c7a0a1bc4c0a111"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+fix.token)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, req)

	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["message"] != "Artist has been removed." {
		t.Errorf("message = %q", env["message"])
	}
	if !deleted {
		t.Error("store delete never ran")
	}
	if len(fix.index.deleted) != 1 || fix.index.deleted[0] != "obj-9" {
		t.Errorf("index deletes = %v, want [obj-9]", fix.index.deleted)
	}
}

func TestDeleteArtistNotFound(t *testing.T) {
	fix := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/artists/delete", strings.NewReader(`{"_id":"5c9d0a2c9c7a0a1bc4c0a111"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+fix.token)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, req)

	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["message"] != "Artist could not be found." {
		t.Errorf("message = %q", env["message"])
	}
}
