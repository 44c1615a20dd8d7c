package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/idle-clicker/internal/credential"
	"github.com/crucial707/idle-clicker/internal/game"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeGameError maps a game.Error to a status and a message that is safe to show.
// Anything unclassified is logged in full and answered with a generic 500.
func writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch game.KindOf(err) {
	case game.KindBadHeader:
		var he *credential.HeaderError
		if errors.As(err, &he) {
			JSONError(w, he.Error(), http.StatusBadRequest)
			return
		}
		JSONError(w, "invalid authorization header", http.StatusBadRequest)
	case game.KindNotFound:
		JSONError(w, "there is no user with that name", http.StatusNotFound)
	case game.KindConflict:
		JSONError(w, "the provided username already exists", http.StatusConflict)
	case game.KindStale:
		JSONError(w, "account was modified concurrently, retry", http.StatusConflict)
	case game.KindUnauthorized:
		JSONError(w, "the password is incorrect", http.StatusUnauthorized)
	case game.KindInsufficientFunds:
		JSONError(w, "insufficient funds for the next level", http.StatusForbidden)
	default:
		slog.Error("request failed",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
