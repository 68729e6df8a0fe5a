package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"finance/internal/auth"
	"finance/internal/config"
	"finance/internal/middleware"
	"finance/internal/models"
	"finance/internal/quote"
	"finance/internal/services"
	"finance/internal/views"
	"finance/internal/websocket"
)

type stubAccountService struct {
	registerFn     func(ctx context.Context, req services.RegisterRequest) (models.User, error)
	authenticateFn func(ctx context.Context, username, password string) (models.User, error)
}

func (s stubAccountService) Register(ctx context.Context, req services.RegisterRequest) (models.User, error) {
	if s.registerFn == nil {
		return models.User{}, nil
	}
	return s.registerFn(ctx, req)
}

func (s stubAccountService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	if s.authenticateFn == nil {
		return models.User{}, nil
	}
	return s.authenticateFn(ctx, username, password)
}

type stubTradingService struct {
	buyFn       func(ctx context.Context, req services.TradeRequest) (services.TradeReceipt, error)
	sellFn      func(ctx context.Context, req services.TradeRequest) (services.TradeReceipt, error)
	depositFn   func(ctx context.Context, userID string, amountMinor int64) (services.DepositReceipt, error)
	quoteFn     func(ctx context.Context, symbol string) (quote.Quote, error)
	portfolioFn func(ctx context.Context, userID string) (services.Portfolio, error)
	holdingsFn  func(ctx context.Context, userID string) ([]models.Holding, error)
	historyFn   func(ctx context.Context, userID string, page, limit int) ([]models.Transaction, error)
	cashFn      func(ctx context.Context, userID string) (int64, error)
}

func (s stubTradingService) Buy(ctx context.Context, req services.TradeRequest) (services.TradeReceipt, error) {
	if s.buyFn == nil {
		return services.TradeReceipt{}, nil
	}
	return s.buyFn(ctx, req)
}

func (s stubTradingService) Sell(ctx context.Context, req services.TradeRequest) (services.TradeReceipt, error) {
	if s.sellFn == nil {
		return services.TradeReceipt{}, nil
	}
	return s.sellFn(ctx, req)
}

func (s stubTradingService) Deposit(ctx context.Context, userID string, amountMinor int64) (services.DepositReceipt, error) {
	if s.depositFn == nil {
		return services.DepositReceipt{}, nil
	}
	return s.depositFn(ctx, userID, amountMinor)
}

func (s stubTradingService) Quote(ctx context.Context, symbol string) (quote.Quote, error) {
	if s.quoteFn == nil {
		return quote.Quote{}, nil
	}
	return s.quoteFn(ctx, symbol)
}

func (s stubTradingService) Portfolio(ctx context.Context, userID string) (services.Portfolio, error) {
	if s.portfolioFn == nil {
		return services.Portfolio{}, nil
	}
	return s.portfolioFn(ctx, userID)
}

func (s stubTradingService) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	if s.holdingsFn == nil {
		return nil, nil
	}
	return s.holdingsFn(ctx, userID)
}

func (s stubTradingService) History(ctx context.Context, userID string, page, limit int) ([]models.Transaction, error) {
	if s.historyFn == nil {
		return nil, nil
	}
	return s.historyFn(ctx, userID, page, limit)
}

func (s stubTradingService) Cash(ctx context.Context, userID string) (int64, error) {
	if s.cashFn == nil {
		return 0, nil
	}
	return s.cashFn(ctx, userID)
}

func newTestHandler(t *testing.T, accounts AccountService, trading TradingService) *Handler {
	t.Helper()
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		SessionSecret:  "secret",
		SessionTTL:     time.Minute,
		AllowedOrigins: "*",
	}
	renderer, err := views.New()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return New(cfg, accounts, trading, renderer, websocket.NewHub())
}

func sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

// serve runs a request through the full router. An empty userID sends no
// session cookie.
func serve(t *testing.T, h *Handler, method, target string, form url.Values, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req.AddCookie(sessionCookie(t, userID))
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func flashFrom(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	c := findCookie(rr, flashCookieName)
	if c == nil {
		t.Fatalf("expected a flash cookie")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	return popFlash(httptest.NewRecorder(), req)
}
