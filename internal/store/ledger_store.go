package store

import (
	"context"

	"finance/internal/models"
)

// LedgerStore is the append-only trade log. Rows are never updated or
// deleted; holdings are always derived from it.
type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

type LedgerInput struct {
	ID     string
	UserID string
	Symbol string
	Shares int64
	Price  int64
}

func (s *LedgerStore) Append(ctx context.Context, tx Execer, input LedgerInput) error {
	query := `
		INSERT INTO transactions (id, user_id, symbol, shares, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, input.ID, input.UserID, input.Symbol, input.Shares, input.Price)
	return err
}

func (s *LedgerStore) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	var rows []models.Holding
	err := s.db.SelectContext(ctx, &rows, `
		SELECT symbol, SUM(shares) AS shares
		FROM transactions
		WHERE user_id = $1
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SharesHeld sums one symbol for one user. Pass the transaction that holds
// the user row lock when the result guards a sell.
func (s *LedgerStore) SharesHeld(ctx context.Context, q Getter, userID, symbol string) (int64, error) {
	var shares int64
	err := q.GetContext(ctx, &shares, `
		SELECT COALESCE(SUM(shares), 0)
		FROM transactions
		WHERE user_id = $1 AND symbol = $2
	`, userID, symbol)
	return shares, err
}

func (s *LedgerStore) History(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, symbol, shares, price, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
