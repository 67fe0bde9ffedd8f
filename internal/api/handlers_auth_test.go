package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postForm(t *testing.T, handler http.Handler, path, form string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginMissingCredentials(t *testing.T) {
	fix := newTestRouter(t, nil)

	rec := postForm(t, fix.handler, "/auth/login", "username=admin")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	errObj, ok := env["error"].(map[string]any)
	if !ok {
		t.Fatalf("body = %s, want nested error object", rec.Body.String())
	}
	if errObj["message"] != "Login fehlgeschlagen." {
		t.Errorf("message = %q, want %q", errObj["message"], "Login fehlgeschlagen.")
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	fix := newTestRouter(t, nil)

	rec := postForm(t, fix.handler, "/auth/logout", "refreshToken=never-issued")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env["message"] != "You will be signed out." {
		t.Errorf("message = %q, want %q", env["message"], "You will be signed out.")
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	fix := newTestRouter(t, nil)

	rec := postForm(t, fix.handler, "/auth/refresh-token", "refreshToken=never-issued")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
