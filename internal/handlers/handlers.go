package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finance/internal/middleware"
	"finance/internal/services"
	"finance/internal/views"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	_, loggedIn := middleware.UserIDFromContext(r.Context())
	page := views.Page{
		Title:    title,
		Flash:    popFlash(w, r),
		LoggedIn: loggedIn,
		Data:     data,
	}
	if err := h.views.Render(w, status, name, page); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) apology(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "apology", "Apology", views.ApologyData{Status: status, Message: message})
}

// respondError maps service errors to a status at the edge. Anything that
// is not a services.Error is logged and hidden behind a generic 500. A
// session whose account is gone is dropped and sent back to the login page.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrAccountNotFound) {
		middleware.ClearSession(w, h.secureCookies())
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
		return
	}
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	h.apology(w, r, status, message)
}

func statusFor(err error) (int, string) {
	kind, ok := services.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, "internal server error"
	}
	switch kind {
	case services.KindValidation, services.KindBusinessRule:
		return http.StatusBadRequest, err.Error()
	case services.KindAuth:
		return http.StatusForbidden, err.Error()
	case services.KindDependency:
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}
