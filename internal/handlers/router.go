package handlers

import (
	"net/http"
	"strings"

	"finance/internal/config"
	"finance/internal/middleware"
	"finance/internal/views"
	"finance/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorillaws "github.com/gorilla/websocket"
)

type Handler struct {
	cfg      config.Config
	accounts AccountService
	trading  TradingService
	views    *views.Renderer
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func New(cfg config.Config, accounts AccountService, trading TradingService, renderer *views.Renderer, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:      cfg,
		accounts: accounts,
		trading:  trading,
		views:    renderer,
		hub:      hub,
		upgrader: websocket.NewUpgrader(allowedOrigins(cfg.AllowedOrigins)),
	}
}

func allowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (h *Handler) secureCookies() bool {
	return h.cfg.AppEnv == "production"
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NoCache)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(h.cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/login", h.LoginForm)
	router.Post("/login", h.Login)
	router.Get("/register", h.RegisterForm)
	router.Post("/register", h.Register)
	router.Get("/logout", h.Logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.SessionSecret))
		r.Get("/", h.Index)
		r.Get("/buy", h.BuyForm)
		r.Post("/buy", h.Buy)
		r.Get("/sell", h.SellForm)
		r.Post("/sell", h.Sell)
		r.Get("/quote", h.QuoteForm)
		r.Post("/quote", h.Quote)
		r.Get("/history", h.History)
		r.Get("/cash", h.CashForm)
		r.Post("/cash", h.Cash)
		r.Get("/ws/cash", h.WSCash)
	})
	return router
}
