package handlers

import (
	"net/http"

	"github.com/crucial707/idle-clicker/internal/game"
)

// ==========================
// GameHandler
// ==========================
type GameHandler struct {
	Service *game.Service
}

// ==========================
// Claim (create account from the Basic credential)
// ==========================
func (h *GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	account, err := h.Service.Claim(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.Service.Params().View(*account))
}

// ==========================
// Collect (settle accrued currency)
// ==========================
func (h *GameHandler) Collect(w http.ResponseWriter, r *http.Request) {
	account, err := h.Service.Collect(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Params().View(*account))
}

// ==========================
// Upgrade (buy every affordable level)
// ==========================
func (h *GameHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	account, err := h.Service.Upgrade(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Params().View(*account))
}
