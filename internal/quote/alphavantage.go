package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finance/internal/money"

	"github.com/shopspring/decimal"
)

// AlphaVantage looks up quotes with the GLOBAL_QUOTE function.
type AlphaVantage struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAlphaVantage(baseURL, apiKey string, timeout time.Duration) *AlphaVantage {
	return &AlphaVantage{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (a *AlphaVantage) Lookup(ctx context.Context, symbol string) (Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", a.apiKey)
	var payload globalQuoteResponse
	if err := a.getJSON(ctx, a.baseURL+"?"+params.Encode(), &payload); err != nil {
		return Quote{}, err
	}
	if payload.Note != "" || payload.Information != "" {
		return Quote{}, fmt.Errorf("%w: throttled", ErrUnavailable)
	}
	if payload.ErrorMessage != "" || strings.TrimSpace(payload.GlobalQuote.Price) == "" {
		return Quote{}, ErrNotFound
	}
	price, err := decimal.NewFromString(strings.TrimSpace(payload.GlobalQuote.Price))
	if err != nil {
		return Quote{}, fmt.Errorf("%w: malformed price %q", ErrUnavailable, payload.GlobalQuote.Price)
	}
	priceMinor, err := money.DecimalToMinor(price)
	if err != nil || priceMinor <= 0 {
		return Quote{}, ErrNotFound
	}
	resolved := strings.ToUpper(strings.TrimSpace(payload.GlobalQuote.Symbol))
	if resolved == "" {
		resolved = symbol
	}
	return Quote{Symbol: resolved, Name: resolved, PriceMinor: priceMinor}, nil
}

// getJSON performs a GET bounded by the client timeout and decodes the body.
func (a *AlphaVantage) getJSON(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s%s: %s", ErrUnavailable, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
