package handlers

import (
	"net/http"
	"strconv"

	"finance/internal/services"
)

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parsePageParams(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", 1)
	limit = queryInt(r, "limit", services.DefaultHistoryLimit)
	if limit > services.MaxHistoryLimit {
		limit = services.MaxHistoryLimit
	}
	return page, limit
}
