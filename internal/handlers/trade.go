package handlers

import (
	"fmt"
	"net/http"

	"finance/internal/middleware"
	"finance/internal/money"
	"finance/internal/services"
	"finance/internal/views"
)

// tradeRequest reads the symbol and share count in the order users see the
// errors: a missing symbol is reported before a bad share count.
func tradeRequest(r *http.Request) (services.TradeRequest, error) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	symbol := services.NormalizeSymbol(r.PostFormValue("symbol"))
	if symbol == "" {
		return services.TradeRequest{}, services.ErrMissingSymbol
	}
	shares, err := services.ParseShares(r.PostFormValue("shares"))
	if err != nil {
		return services.TradeRequest{}, err
	}
	return services.TradeRequest{UserID: userID, Symbol: symbol, Shares: shares}, nil
}

func (h *Handler) BuyForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "buy", "Buy", nil)
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	req, err := tradeRequest(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	receipt, err := h.trading.Buy(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	setFlash(w, fmt.Sprintf("Bought %d shares of %s for %s!", receipt.Shares, receipt.Symbol, money.FormatUSD(receipt.TotalMinor)))
	redirectHome(w, r)
}

func (h *Handler) SellForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	holdings, err := h.trading.Holdings(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "sell", "Sell", views.SellData{Holdings: holdings})
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	req, err := tradeRequest(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	receipt, err := h.trading.Sell(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	setFlash(w, fmt.Sprintf("Sold %d shares of %s for %s!", receipt.Shares, receipt.Symbol, money.FormatUSD(receipt.TotalMinor)))
	redirectHome(w, r)
}

func (h *Handler) QuoteForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "quote", "Quote", nil)
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	q, err := h.trading.Quote(r.Context(), r.PostFormValue("symbol"))
	if err != nil {
		// The quote page reports every unresolved lookup as a bad request.
		if kind, _ := services.KindOf(err); kind == services.KindDependency {
			h.apology(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "quoted", "Quoted", q)
}

func (h *Handler) CashForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	cash, err := h.trading.Cash(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "cash", "Add Cash", views.CashData{CashMinor: cash})
}

func (h *Handler) Cash(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	amount, err := services.ParseDeposit(r.PostFormValue("cash"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	receipt, err := h.trading.Deposit(r.Context(), userID, amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	setFlash(w, fmt.Sprintf("Added %s to your account. Your new total is %s!", money.FormatUSD(receipt.AmountMinor), money.FormatUSD(receipt.CashMinor)))
	redirectHome(w, r)
}
