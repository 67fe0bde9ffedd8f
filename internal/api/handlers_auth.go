package api

import (
	"errors"
	"net/http"

	"github.com/radiorasclat/api/internal/auth"
)

// loginError is the login failure shape: a nested error object rather than
// the success/message envelope the content routes use.
func loginError(message string) envelope {
	return envelope{"error": envelope{"message": message}}
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusUnauthorized, loginError("Login fehlgeschlagen."))
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeJSON(w, http.StatusUnauthorized, loginError("Login fehlgeschlagen."))
		return
	}

	session, err := rt.authService.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeJSON(w, http.StatusUnauthorized, loginError("Benutzername nicht gefunden."))
		case errors.Is(err, auth.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, loginError("Passwort falsch."))
		default:
			rt.sink.Capture(err)
			writeJSON(w, http.StatusUnauthorized, loginError("Login fehlgeschlagen."))
		}
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":      true,
		"message":      "Sie werden eingeloggt...",
		"token":        session.Token,
		"refreshToken": session.RefreshToken,
		"username":     session.Username,
	})
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err == nil {
		// Revoking an unknown token is a no-op; logout always succeeds.
		_ = rt.authService.Logout(r.Context(), r.PostFormValue("refreshToken"))
	}
	writeJSON(w, http.StatusOK, okMsg("You will be signed out."))
}

func (rt *Router) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := rt.authService.Refresh(r.Context(), r.PostFormValue("refreshToken"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":      true,
		"message":      "You will be signed in.",
		"token":        session.Token,
		"refreshToken": session.RefreshToken,
		"username":     session.Username,
	})
}
