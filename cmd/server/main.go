package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance/internal/config"
	"finance/internal/db"
	"finance/internal/handlers"
	"finance/internal/quote"
	"finance/internal/services"
	"finance/internal/store"
	"finance/internal/views"
	"finance/internal/websocket"
)

const (
	breakerThreshold = 5
	breakerReset     = 30 * time.Second
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	var quotes quote.Provider = quote.NewBreaker(
		quote.NewAlphaVantage(cfg.QuoteAPIURL, cfg.QuoteAPIKey, cfg.QuoteTimeout),
		breakerThreshold,
		breakerReset,
	)
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := quote.ConnectRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Printf("quote cache disabled: %v", err)
		} else {
			defer client.Close()
			quotes = quote.NewCached(quotes, quote.NewRedisCache(client, cfg.QuoteCacheTTL))
			log.Printf("quote cache enabled, ttl %s", cfg.QuoteCacheTTL)
		}
	}

	users := store.NewUserStore(database)
	ledger := store.NewLedgerStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	trading := services.NewTradingService(txRunner, users, ledger, quotes, hub)
	accounts := services.NewAccountService(txRunner, users, cfg.StartingCash)

	renderer, err := views.New()
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	handler := handlers.New(cfg, accounts, trading, renderer, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + cfg.QuoteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("finance listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
