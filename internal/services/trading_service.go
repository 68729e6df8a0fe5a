package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"finance/internal/db"
	"finance/internal/models"
	"finance/internal/money"
	"finance/internal/quote"
	"finance/internal/store"
	"finance/internal/validator"
	"finance/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (models.User, error)
	AdjustCash(ctx context.Context, tx store.Getter, userID string, delta int64) (int64, error)
}

type LedgerStore interface {
	Append(ctx context.Context, tx store.Execer, input store.LedgerInput) error
	Holdings(ctx context.Context, userID string) ([]models.Holding, error)
	SharesHeld(ctx context.Context, q store.Getter, userID, symbol string) (int64, error)
	History(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
}

type CashHub interface {
	BroadcastCash(userID string, update websocket.CashUpdate)
}

type TradingService struct {
	txRunner db.TxRunner
	users    UserStore
	ledger   LedgerStore
	quotes   quote.Provider
	hub      CashHub
}

func NewTradingService(txRunner db.TxRunner, users UserStore, ledger LedgerStore, quotes quote.Provider, hub CashHub) *TradingService {
	return &TradingService{
		txRunner: txRunner,
		users:    users,
		ledger:   ledger,
		quotes:   quotes,
		hub:      hub,
	}
}

// NormalizeSymbol trims and upper-cases a ticker as typed by a user.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseShares accepts only a positive decimal integer.
func ParseShares(raw string) (int64, error) {
	n, ok := parsePositive(raw)
	if !ok {
		return 0, ErrInvalidShares
	}
	return n, nil
}

// ParseDeposit accepts a positive whole-dollar amount and returns cents.
func ParseDeposit(raw string) (int64, error) {
	n, ok := parsePositive(raw)
	if !ok {
		return 0, ErrInvalidAmount
	}
	cents, err := money.MulMinor(100, n)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func parsePositive(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if !money.IsDigits(raw) {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type TradeRequest struct {
	UserID string
	Symbol string
	Shares int64
}

// TradeReceipt describes a committed buy or sell. Money fields are cents.
type TradeReceipt struct {
	TransactionID string
	Symbol        string
	Name          string
	Shares        int64
	PriceMinor    int64
	TotalMinor    int64
	CashMinor     int64
}

// Quote resolves a symbol for display.
func (s *TradingService) Quote(ctx context.Context, rawSymbol string) (quote.Quote, error) {
	symbol := NormalizeSymbol(rawSymbol)
	if symbol == "" {
		return quote.Quote{}, ErrMissingSymbol
	}
	return s.lookup(ctx, symbol)
}

func (s *TradingService) lookup(ctx context.Context, symbol string) (quote.Quote, error) {
	if validator.ValidateSymbol(symbol) != nil {
		return quote.Quote{}, ErrSymbolNotFound
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	switch {
	case err == nil:
		return q, nil
	case errors.Is(err, quote.ErrNotFound):
		return quote.Quote{}, ErrSymbolNotFound
	default:
		log.Printf("quote lookup %s: %v", symbol, err)
		return quote.Quote{}, ErrQuoteUnavailable
	}
}

func (s *TradingService) Buy(ctx context.Context, req TradeRequest) (TradeReceipt, error) {
	symbol := NormalizeSymbol(req.Symbol)
	if symbol == "" {
		return TradeReceipt{}, ErrMissingSymbol
	}
	if req.Shares <= 0 {
		return TradeReceipt{}, ErrInvalidShares
	}
	q, err := s.lookup(quote.Fresh(ctx), symbol)
	if err != nil {
		return TradeReceipt{}, err
	}
	cost, err := money.MulMinor(q.PriceMinor, req.Shares)
	if err != nil {
		return TradeReceipt{}, ErrInsufficientFunds
	}
	receipt := TradeReceipt{
		Symbol:     symbol,
		Name:       q.Name,
		Shares:     req.Shares,
		PriceMinor: q.PriceMinor,
		TotalMinor: cost,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, req.UserID)
		if err != nil {
			return accountErr(err)
		}
		if user.Cash < cost {
			return ErrInsufficientFunds
		}
		cash, err := s.users.AdjustCash(ctx, tx, req.UserID, -cost)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInsufficientFunds
			}
			return err
		}
		receipt.CashMinor = cash
		receipt.TransactionID = uuid.NewString()
		return s.ledger.Append(ctx, tx, store.LedgerInput{
			ID:     receipt.TransactionID,
			UserID: req.UserID,
			Symbol: symbol,
			Shares: req.Shares,
			Price:  q.PriceMinor,
		})
	})
	if err != nil {
		return TradeReceipt{}, err
	}
	s.hub.BroadcastCash(req.UserID, websocket.CashUpdate{
		Kind:   "buy",
		Cash:   money.FormatMinor(receipt.CashMinor),
		Symbol: symbol,
		Shares: req.Shares,
	})
	return receipt, nil
}

func (s *TradingService) Sell(ctx context.Context, req TradeRequest) (TradeReceipt, error) {
	symbol := NormalizeSymbol(req.Symbol)
	if symbol == "" {
		return TradeReceipt{}, ErrMissingSymbol
	}
	if req.Shares <= 0 {
		return TradeReceipt{}, ErrInvalidShares
	}
	holdings, err := s.ledger.Holdings(ctx, req.UserID)
	if err != nil {
		return TradeReceipt{}, err
	}
	if err := checkHeld(heldShares(holdings, symbol), req.Shares); err != nil {
		return TradeReceipt{}, err
	}
	q, err := s.lookup(quote.Fresh(ctx), symbol)
	if err != nil {
		return TradeReceipt{}, err
	}
	proceeds, err := money.MulMinor(q.PriceMinor, req.Shares)
	if err != nil {
		return TradeReceipt{}, fmt.Errorf("sale total: %w", err)
	}
	receipt := TradeReceipt{
		Symbol:     symbol,
		Name:       q.Name,
		Shares:     req.Shares,
		PriceMinor: q.PriceMinor,
		TotalMinor: proceeds,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.users.GetForUpdate(ctx, tx, req.UserID); err != nil {
			return accountErr(err)
		}
		held, err := s.ledger.SharesHeld(ctx, tx, req.UserID, symbol)
		if err != nil {
			return err
		}
		if err := checkHeld(held, req.Shares); err != nil {
			return err
		}
		cash, err := s.users.AdjustCash(ctx, tx, req.UserID, proceeds)
		if err != nil {
			return err
		}
		receipt.CashMinor = cash
		receipt.TransactionID = uuid.NewString()
		return s.ledger.Append(ctx, tx, store.LedgerInput{
			ID:     receipt.TransactionID,
			UserID: req.UserID,
			Symbol: symbol,
			Shares: -req.Shares,
			Price:  q.PriceMinor,
		})
	})
	if err != nil {
		return TradeReceipt{}, err
	}
	s.hub.BroadcastCash(req.UserID, websocket.CashUpdate{
		Kind:   "sell",
		Cash:   money.FormatMinor(receipt.CashMinor),
		Symbol: symbol,
		Shares: -req.Shares,
	})
	return receipt, nil
}

func heldShares(holdings []models.Holding, symbol string) int64 {
	for _, h := range holdings {
		if h.Symbol == symbol {
			return h.Shares
		}
	}
	return 0
}

func checkHeld(held, requested int64) error {
	if held <= 0 {
		return ErrNoShares
	}
	if requested > held {
		return ErrNotEnoughShares
	}
	return nil
}

type DepositReceipt struct {
	AmountMinor int64
	CashMinor   int64
}

// Deposit adds cash without writing a ledger row; deposits are not trades.
func (s *TradingService) Deposit(ctx context.Context, userID string, amountMinor int64) (DepositReceipt, error) {
	if amountMinor <= 0 {
		return DepositReceipt{}, ErrInvalidAmount
	}
	receipt := DepositReceipt{AmountMinor: amountMinor}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return accountErr(err)
		}
		if _, err := money.AddMinor(user.Cash, amountMinor); err != nil {
			return ErrInvalidAmount
		}
		cash, err := s.users.AdjustCash(ctx, tx, userID, amountMinor)
		if err != nil {
			return err
		}
		receipt.CashMinor = cash
		return nil
	})
	if err != nil {
		return DepositReceipt{}, err
	}
	s.hub.BroadcastCash(userID, websocket.CashUpdate{
		Kind: "deposit",
		Cash: money.FormatMinor(receipt.CashMinor),
	})
	return receipt, nil
}

func (s *TradingService) Cash(ctx context.Context, userID string) (int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, accountErr(err)
	}
	return user.Cash, nil
}

// accountErr reports a session whose user row no longer exists.
func accountErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	return err
}

func (s *TradingService) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	return s.ledger.Holdings(ctx, userID)
}

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// History returns one page of ledger rows, newest first. Page is 1-based;
// pages past any representable offset are empty.
func (s *TradingService) History(ctx context.Context, userID string, page, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt/limit {
		return nil, nil
	}
	return s.ledger.History(ctx, userID, limit, (page-1)*limit)
}
