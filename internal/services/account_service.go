package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"finance/internal/auth"
	"finance/internal/db"
	"finance/internal/models"
	"finance/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type AccountUserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, passwordHash string, cash int64) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

type AccountService struct {
	txRunner     db.TxRunner
	users        AccountUserStore
	startingCash int64
}

func NewAccountService(txRunner db.TxRunner, users AccountUserStore, startingCash int64) *AccountService {
	return &AccountService{
		txRunner:     txRunner,
		users:        users,
		startingCash: startingCash,
	}
}

type RegisterRequest struct {
	Username     string
	Password     string
	Confirmation string
}

// Register creates a user with the starting balance. Usernames match
// exactly, so "Alice" and "alice" are different accounts.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		return models.User{}, ErrMissingUsername
	case strings.TrimSpace(req.Password) == "":
		return models.User{}, ErrMissingPassword
	case strings.TrimSpace(req.Confirmation) == "":
		return models.User{}, ErrMissingConfirmation
	case req.Password != req.Confirmation:
		return models.User{}, ErrPasswordMismatch
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Cash:         s.startingCash,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.users.Create(ctx, tx, user.ID, user.Username, user.PasswordHash, user.Cash)
	})
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate returns the same error for an unknown username and a wrong
// password.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	if username == "" {
		return models.User{}, ErrLoginUsernameRequired
	}
	if password == "" {
		return models.User{}, ErrLoginPasswordRequired
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
