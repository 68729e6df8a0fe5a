package handlers

import (
	"context"

	"finance/internal/models"
	"finance/internal/quote"
	"finance/internal/services"
)

type AccountService interface {
	Register(ctx context.Context, req services.RegisterRequest) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

type TradingService interface {
	Buy(ctx context.Context, req services.TradeRequest) (services.TradeReceipt, error)
	Sell(ctx context.Context, req services.TradeRequest) (services.TradeReceipt, error)
	Deposit(ctx context.Context, userID string, amountMinor int64) (services.DepositReceipt, error)
	Quote(ctx context.Context, symbol string) (quote.Quote, error)
	Portfolio(ctx context.Context, userID string) (services.Portfolio, error)
	Holdings(ctx context.Context, userID string) ([]models.Holding, error)
	History(ctx context.Context, userID string, page, limit int) ([]models.Transaction, error)
	Cash(ctx context.Context, userID string) (int64, error)
}
