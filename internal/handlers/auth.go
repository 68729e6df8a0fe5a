package handlers

import (
	"net/http"

	"finance/internal/auth"
	"finance/internal/middleware"
	"finance/internal/services"
)

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSession(w, h.secureCookies())
	h.render(w, r, http.StatusOK, "login", "Log In", nil)
}

// Login always drops the current session first, so a failed attempt leaves
// the client logged out.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSession(w, h.secureCookies())
	user, err := h.accounts.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.startSession(w, r, user.ID)
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSession(w, h.secureCookies())
	h.render(w, r, http.StatusOK, "register", "Register", nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSession(w, h.secureCookies())
	user, err := h.accounts.Register(r.Context(), services.RegisterRequest{
		Username:     r.PostFormValue("username"),
		Password:     r.PostFormValue("password"),
		Confirmation: r.PostFormValue("confirmation"),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	setFlash(w, "Registered!")
	h.startSession(w, r, user.ID)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID string) {
	token, err := auth.GenerateToken(h.cfg.SessionSecret, userID, h.cfg.SessionTTL)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	middleware.SetSession(w, token, h.cfg.SessionTTL, h.secureCookies())
	redirectHome(w, r)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSession(w, h.secureCookies())
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}
