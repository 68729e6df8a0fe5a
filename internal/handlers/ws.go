package handlers

import (
	"net/http"

	"finance/internal/middleware"
	"finance/internal/websocket"
)

// WSCash streams the caller's own cash updates.
func (h *Handler) WSCash(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	websocket.ServeWS(w, r, h.upgrader, h.hub, userID)
}
