package services

import (
	"context"
	"errors"
	"testing"

	"finance/internal/quote"
)

func TestPortfolioDegradesFailedLookups(t *testing.T) {
	book := newMemBook()
	book.addUser("user-1", "alice", 100000)
	book.addRow("user-1", "AAA", 10, 2000)
	book.addRow("user-1", "BBB", 4, 500)
	quotes := &stubQuotes{
		prices: map[string]int64{"AAA": 2500},
		errs:   map[string]error{"BBB": errors.New("timeout")},
	}
	service := newTestTradingService(book, quotes, &stubHub{})

	portfolio, err := service.Portfolio(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("portfolio: %v", err)
	}
	if len(portfolio.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %#v", portfolio.Positions)
	}
	aaa, bbb := portfolio.Positions[0], portfolio.Positions[1]
	if aaa.Symbol != "AAA" || aaa.Name != "AAA Inc" || aaa.PriceMinor != 2500 || aaa.ValueMinor != 25000 || !aaa.Priced {
		t.Fatalf("unexpected AAA position: %#v", aaa)
	}
	if bbb.Symbol != "BBB" || bbb.Name != "Unknown" || bbb.PriceMinor != 0 || bbb.ValueMinor != 0 || bbb.Shares != 4 || bbb.Priced {
		t.Fatalf("unexpected BBB position: %#v", bbb)
	}
	if portfolio.CashMinor != 100000 || portfolio.TotalMinor != 125000 {
		t.Fatalf("unexpected totals: cash %d total %d", portfolio.CashMinor, portfolio.TotalMinor)
	}
}

func TestPortfolioUnknownUser(t *testing.T) {
	service := newTestTradingService(newMemBook(), &stubQuotes{}, &stubHub{})
	if _, err := service.Portfolio(context.Background(), "missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestPortfolioTreatsIncompleteQuotesAsUnknown(t *testing.T) {
	book := newMemBook()
	book.addUser("user-1", "alice", 0)
	book.addRow("user-1", "AAA", 2, 1000)
	book.addRow("user-1", "BBB", 3, 1000)
	quotes := &stubQuotes{raw: map[string]quote.Quote{
		"AAA": {Symbol: "AAA", PriceMinor: 1000},
		"BBB": {Symbol: "BBB", Name: "BBB Corp", PriceMinor: 0},
	}}
	service := newTestTradingService(book, quotes, &stubHub{})

	portfolio, err := service.Portfolio(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("portfolio: %v", err)
	}
	for _, p := range portfolio.Positions {
		if p.Name != "Unknown" || p.PriceMinor != 0 || p.ValueMinor != 0 || p.Priced {
			t.Fatalf("expected unknown position, got %#v", p)
		}
	}
	if portfolio.TotalMinor != 0 {
		t.Fatalf("incomplete quotes must not count toward the total, got %d", portfolio.TotalMinor)
	}
}
