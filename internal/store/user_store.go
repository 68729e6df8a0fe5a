package store

import (
	"context"

	"finance/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, passwordHash string, cash int64) error {
	query := `
		INSERT INTO users (id, username, password_hash, cash)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, username, passwordHash, cash)
	return err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, password_hash, cash, created_at
		FROM users
		WHERE username = $1
	`, username)
	return user, err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, password_hash, cash, created_at
		FROM users
		WHERE id = $1
	`, userID)
	return user, err
}

// GetForUpdate locks the user row for the rest of the transaction. Every
// cash or holdings mutation takes this lock first, so concurrent trades for
// one user are serialized.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (models.User, error) {
	var user models.User
	err := tx.GetContext(ctx, &user, `
		SELECT id, username, password_hash, cash, created_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	return user, err
}

// AdjustCash adds delta to the balance and returns the new balance. The
// update only applies while the result stays non-negative; otherwise
// sql.ErrNoRows is returned and nothing changes.
func (s *UserStore) AdjustCash(ctx context.Context, tx Getter, userID string, delta int64) (int64, error) {
	var cash int64
	err := tx.GetContext(ctx, &cash, `
		UPDATE users
		SET cash = cash + $1
		WHERE id = $2 AND cash + $1 >= 0
		RETURNING cash
	`, delta, userID)
	return cash, err
}
