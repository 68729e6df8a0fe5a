package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "GLOBAL_QUOTE" {
			t.Errorf("unexpected function: %s", r.URL.Query().Get("function"))
		}
		if r.URL.Query().Get("apikey") != "key" {
			t.Errorf("missing api key")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAlphaVantageLookup(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"Global Quote":{"01. symbol":"IBM","05. price":"189.9800"}}`)
	provider := NewAlphaVantage(server.URL, "key", time.Second)
	q, err := provider.Lookup(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Symbol != "IBM" || q.Name != "IBM" || q.PriceMinor != 18998 {
		t.Fatalf("unexpected quote: %#v", q)
	}
}

func TestAlphaVantageUnknownSymbol(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"Global Quote":{}}`)
	provider := NewAlphaVantage(server.URL, "key", time.Second)
	if _, err := provider.Lookup(context.Background(), "ZZZZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlphaVantageThrottled(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"Note":"Thank you for using Alpha Vantage!"}`)
	provider := NewAlphaVantage(server.URL, "key", time.Second)
	if _, err := provider.Lookup(context.Background(), "IBM"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAlphaVantageMalformed(t *testing.T) {
	for _, body := range []string{`not json`, `{"Global Quote":{"05. price":"abc"}}`} {
		server := newTestServer(t, http.StatusOK, body)
		provider := NewAlphaVantage(server.URL, "key", time.Second)
		if _, err := provider.Lookup(context.Background(), "IBM"); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("body %q: expected ErrUnavailable, got %v", body, err)
		}
	}
}

func TestAlphaVantageServerError(t *testing.T) {
	server := newTestServer(t, http.StatusInternalServerError, `oops`)
	provider := NewAlphaVantage(server.URL, "key", time.Second)
	if _, err := provider.Lookup(context.Background(), "IBM"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAlphaVantageTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)
	provider := NewAlphaVantage(server.URL, "key", 50*time.Millisecond)
	if _, err := provider.Lookup(context.Background(), "IBM"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
