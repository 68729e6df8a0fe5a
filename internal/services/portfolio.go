package services

import (
	"context"
	"log"

	"finance/internal/money"
)

const unknownName = "Unknown"

// Position is one holding priced at the current quote. A position whose
// lookup failed, or whose quote lacks a name or price, has Name "Unknown"
// and zero price and value.
type Position struct {
	Symbol     string
	Name       string
	Shares     int64
	PriceMinor int64
	ValueMinor int64
	Priced     bool
}

type Portfolio struct {
	Positions  []Position
	CashMinor  int64
	TotalMinor int64
}

// Portfolio prices every holding. Lookup failures degrade the affected
// position instead of failing the whole view.
func (s *TradingService) Portfolio(ctx context.Context, userID string) (Portfolio, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Portfolio{}, accountErr(err)
	}
	holdings, err := s.ledger.Holdings(ctx, userID)
	if err != nil {
		return Portfolio{}, err
	}
	result := Portfolio{
		Positions:  make([]Position, 0, len(holdings)),
		CashMinor:  user.Cash,
		TotalMinor: user.Cash,
	}
	for _, h := range holdings {
		position := Position{Symbol: h.Symbol, Name: unknownName, Shares: h.Shares}
		q, err := s.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			log.Printf("portfolio: pricing %s for %s: %v", h.Symbol, userID, err)
			result.Positions = append(result.Positions, position)
			continue
		}
		if q.Name == "" || q.PriceMinor <= 0 {
			log.Printf("portfolio: pricing %s for %s: incomplete quote %+v", h.Symbol, userID, q)
			result.Positions = append(result.Positions, position)
			continue
		}
		value, err := money.MulMinor(q.PriceMinor, h.Shares)
		if err != nil {
			log.Printf("portfolio: valuing %s for %s: %v", h.Symbol, userID, err)
			result.Positions = append(result.Positions, position)
			continue
		}
		total, err := money.AddMinor(result.TotalMinor, value)
		if err != nil {
			log.Printf("portfolio: total for %s: %v", userID, err)
			result.Positions = append(result.Positions, position)
			continue
		}
		position.Name = q.Name
		position.PriceMinor = q.PriceMinor
		position.ValueMinor = value
		position.Priced = true
		result.TotalMinor = total
		result.Positions = append(result.Positions, position)
	}
	return result, nil
}
