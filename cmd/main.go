package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/govalues/money"

	"github.com/tinoosan/budget/internal/config"
	"github.com/tinoosan/budget/internal/events"
	httpapi "github.com/tinoosan/budget/internal/httpapi/v1"
	"github.com/tinoosan/budget/internal/seed"
	"github.com/tinoosan/budget/internal/service/account"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/service/transaction"
	"github.com/tinoosan/budget/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := cfg.Logger()
	slog.SetDefault(logger)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	currency := money.MustParseCurr(cfg.Currency)

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.StorageBackend, "err", err)
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("storage backend: " + cfg.StorageBackend)

	// Change events are optional; without AMQP_URL writes are not announced.
	var pub events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Error("failed to connect to AMQP", "err", err)
			os.Exit(1)
		}
		defer amqpPub.Close()
		pub = amqpPub
		logger.Info("publishing change events", "exchange", cfg.AMQPExchange)
	}

	if cfg.DevSeed {
		svcs := seed.Services{
			Accounts:     account.New(store, store, pub),
			Budget:       budget.New(store, store, pub),
			Transactions: transaction.New(store, store, pub),
		}
		res, err := seed.Apply(ctx, seed.Dev(), svcs)
		if err != nil {
			logger.Error("dev seed failed", "err", err)
		} else {
			logDevSeed(logger, cfg.StorageBackend, res)
			printDevSeedBanner(res)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(store, pub, currency, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("budget service listening", "addr", srv.Addr, "currency", cfg.Currency)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
}

// logDevSeed emits structured logs with the seeded row counts
func logDevSeed(l *slog.Logger, backend string, res seed.Result) {
	l.Info("DEV seed ("+backend+")",
		"accounts", res.Accounts,
		"income_sources", res.IncomeSources,
		"expense_categories", res.ExpenseCategories,
		"transactions", res.Transactions,
	)
}

// printDevSeedBanner prints a simple banner to stdout so a developer sees what was loaded
func printDevSeedBanner(res seed.Result) {
	fmt.Println("==================== DEV SEED ====================")
	fmt.Printf("accounts: %d\n", res.Accounts)
	fmt.Printf("income_sources: %d\n", res.IncomeSources)
	fmt.Printf("expense_categories: %d\n", res.ExpenseCategories)
	fmt.Printf("transactions: %d\n", res.Transactions)
	fmt.Println("==================================================")
}
