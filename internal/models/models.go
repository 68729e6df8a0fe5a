package models

import "time"

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Cash         int64     `db:"cash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Transaction is one ledger row. Shares is positive for a buy and negative
// for a sell; Price is the per-share price in cents at execution time.
type Transaction struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Symbol    string    `db:"symbol"`
	Shares    int64     `db:"shares"`
	Price     int64     `db:"price"`
	CreatedAt time.Time `db:"created_at"`
}

func (t Transaction) Type() string {
	if t.Shares > 0 {
		return "BUY"
	}
	return "SELL"
}

// Holding is the net positive share count for one symbol.
type Holding struct {
	Symbol string `db:"symbol"`
	Shares int64  `db:"shares"`
}
