package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"finance/internal/models"
	"finance/internal/quote"
	"finance/internal/store"
	"finance/internal/websocket"

	"github.com/jmoiron/sqlx"
)

// memBook is an in-memory users table and ledger. Its fakeTxRunner restores
// the previous state when the callback fails, like a rolled back transaction.
type memBook struct {
	users      map[string]models.User
	rows       []models.Transaction
	appendErr  error
	createErr  error
	clock      time.Time
	lastOffset int
}

func newMemBook() *memBook {
	return &memBook{
		users: map[string]models.User{},
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *memBook) addUser(id, username string, cash int64) {
	b.users[id] = models.User{ID: id, Username: username, Cash: cash}
}

func (b *memBook) addRow(userID, symbol string, shares, price int64) {
	b.clock = b.clock.Add(time.Minute)
	b.rows = append(b.rows, models.Transaction{
		ID:        symbol + b.clock.Format(time.RFC3339),
		UserID:    userID,
		Symbol:    symbol,
		Shares:    shares,
		Price:     price,
		CreatedAt: b.clock,
	})
}

func (b *memBook) cash(userID string) int64 {
	return b.users[userID].Cash
}

type bookState struct {
	users map[string]models.User
	rows  []models.Transaction
}

func (b *memBook) snapshot() bookState {
	users := make(map[string]models.User, len(b.users))
	for k, v := range b.users {
		users[k] = v
	}
	return bookState{users: users, rows: append([]models.Transaction(nil), b.rows...)}
}

func (b *memBook) restore(state bookState) {
	b.users = state.users
	b.rows = state.rows
}

type fakeTxRunner struct {
	book *memBook
	err  error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	state := f.book.snapshot()
	if err := fn(nil); err != nil {
		f.book.restore(state)
		return err
	}
	return nil
}

func (b *memBook) Create(_ context.Context, _ store.Execer, id, username, passwordHash string, cash int64) error {
	if b.createErr != nil {
		return b.createErr
	}
	b.users[id] = models.User{ID: id, Username: username, PasswordHash: passwordHash, Cash: cash}
	return nil
}

func (b *memBook) GetByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range b.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (b *memBook) GetByID(_ context.Context, userID string) (models.User, error) {
	u, ok := b.users[userID]
	if !ok {
		return models.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (b *memBook) GetForUpdate(ctx context.Context, _ store.Getter, userID string) (models.User, error) {
	return b.GetByID(ctx, userID)
}

func (b *memBook) AdjustCash(_ context.Context, _ store.Getter, userID string, delta int64) (int64, error) {
	u, ok := b.users[userID]
	if !ok || u.Cash+delta < 0 {
		return 0, sql.ErrNoRows
	}
	u.Cash += delta
	b.users[userID] = u
	return u.Cash, nil
}

func (b *memBook) Append(_ context.Context, _ store.Execer, input store.LedgerInput) error {
	if b.appendErr != nil {
		return b.appendErr
	}
	b.clock = b.clock.Add(time.Minute)
	b.rows = append(b.rows, models.Transaction{
		ID:        input.ID,
		UserID:    input.UserID,
		Symbol:    input.Symbol,
		Shares:    input.Shares,
		Price:     input.Price,
		CreatedAt: b.clock,
	})
	return nil
}

func (b *memBook) Holdings(_ context.Context, userID string) ([]models.Holding, error) {
	sums := map[string]int64{}
	for _, row := range b.rows {
		if row.UserID == userID {
			sums[row.Symbol] += row.Shares
		}
	}
	var holdings []models.Holding
	for symbol, shares := range sums {
		if shares > 0 {
			holdings = append(holdings, models.Holding{Symbol: symbol, Shares: shares})
		}
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

func (b *memBook) SharesHeld(_ context.Context, _ store.Getter, userID, symbol string) (int64, error) {
	var total int64
	for _, row := range b.rows {
		if row.UserID == userID && row.Symbol == symbol {
			total += row.Shares
		}
	}
	return total, nil
}

func (b *memBook) History(_ context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	b.lastOffset = offset
	var rows []models.Transaction
	for i := len(b.rows) - 1; i >= 0; i-- {
		if b.rows[i].UserID == userID {
			rows = append(rows, b.rows[i])
		}
	}
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type stubQuotes struct {
	prices   map[string]int64
	errs     map[string]error
	raw      map[string]quote.Quote
	calls    int
	fresh    []bool
	lookupFn func(symbol string)
}

func (s *stubQuotes) Lookup(ctx context.Context, symbol string) (quote.Quote, error) {
	s.calls++
	s.fresh = append(s.fresh, quote.IsFresh(ctx))
	if s.lookupFn != nil {
		s.lookupFn(symbol)
	}
	if err, ok := s.errs[symbol]; ok {
		return quote.Quote{}, err
	}
	if q, ok := s.raw[symbol]; ok {
		return q, nil
	}
	price, ok := s.prices[symbol]
	if !ok {
		return quote.Quote{}, quote.ErrNotFound
	}
	return quote.Quote{Symbol: symbol, Name: symbol + " Inc", PriceMinor: price}, nil
}

type stubHub struct {
	calls []websocket.CashUpdate
}

func (s *stubHub) BroadcastCash(_ string, update websocket.CashUpdate) {
	s.calls = append(s.calls, update)
}

func newTestTradingService(book *memBook, quotes *stubQuotes, hub *stubHub) *TradingService {
	return NewTradingService(fakeTxRunner{book: book}, book, book, quotes, hub)
}
