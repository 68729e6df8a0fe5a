package handlers

import (
	"net/http"

	"finance/internal/middleware"
	"finance/internal/views"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	portfolio, err := h.trading.Portfolio(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index", "Portfolio", portfolio)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	page, limit := parsePageParams(r)
	rows, err := h.trading.History(r.Context(), userID, page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "history", "History", views.HistoryData{
		Transactions: rows,
		Page:         page,
		Limit:        limit,
		HasMore:      len(rows) == limit,
	})
}
