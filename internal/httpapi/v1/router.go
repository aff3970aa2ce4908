// Package v1 wires the HTTP surface of the budget service.
// It keeps handlers thin, delegating business rules to the service layer.
package v1

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/govalues/money"

	"github.com/tinoosan/budget/internal/events"
	"github.com/tinoosan/budget/internal/service/account"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/service/report"
	"github.com/tinoosan/budget/internal/service/transaction"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	accounts     account.Service
	budget       budget.Service
	transactions transaction.Service
	reports      report.Service
	probes       []any
	currency     money.Currency
	idem         *idempotencyCache
	log          *slog.Logger
	rt           *chi.Mux
}

// New constructs the HTTP server with routes and middleware. Amounts are
// presented in currency. pub may be nil.
func New(store Store, pub events.Publisher, currency money.Currency, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		accounts:     account.New(store, store, pub),
		budget:       budget.New(store, store, pub),
		transactions: transaction.New(store, store, pub),
		reports:      report.New(store),
		probes:       []any{store, pub},
		currency:     currency,
		idem:         newIdempotencyCache(),
		log:          logger,
		rt:           r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	// Accounts
	s.rt.With(s.validateAccount()).Post("/v1/accounts", s.postAccount)
	s.rt.Get("/v1/accounts", s.listAccounts)
	s.rt.Get("/v1/accounts/{id}", s.getAccount)
	s.rt.With(s.validateAccount()).Put("/v1/accounts/{id}", s.putAccount)
	s.rt.Delete("/v1/accounts/{id}", s.deleteAccount)
	// Income sources
	s.rt.With(s.validateIncomeSource()).Post("/v1/income-sources", s.postIncomeSource)
	s.rt.Get("/v1/income-sources", s.listIncomeSources)
	s.rt.Get("/v1/income-sources/{id}", s.getIncomeSource)
	s.rt.With(s.validateIncomeSource()).Put("/v1/income-sources/{id}", s.putIncomeSource)
	s.rt.Delete("/v1/income-sources/{id}", s.deleteIncomeSource)
	// Expense categories
	s.rt.With(s.validateExpenseCategory()).Post("/v1/expense-categories", s.postExpenseCategory)
	s.rt.Get("/v1/expense-categories", s.listExpenseCategories)
	s.rt.Get("/v1/expense-categories/{id}", s.getExpenseCategory)
	s.rt.With(s.validateExpenseCategory()).Put("/v1/expense-categories/{id}", s.putExpenseCategory)
	s.rt.Delete("/v1/expense-categories/{id}", s.deleteExpenseCategory)
	// Transactions
	s.rt.With(s.idempotent, s.validateTransaction()).Post("/v1/transactions", s.postTransaction)
	s.rt.Get("/v1/transactions", s.listTransactions)
	s.rt.Get("/v1/transactions/{id}", s.getTransaction)
	s.rt.With(s.validateTransaction()).Put("/v1/transactions/{id}", s.putTransaction)
	s.rt.Delete("/v1/transactions/{id}", s.deleteTransaction)
	// Read models
	s.rt.Get("/v1/classify", s.classify)
	s.rt.Get("/v1/display-name", s.displayName)
	s.rt.Get("/v1/summary", s.summary)
	s.rt.Get("/v1/ledger", s.ledgerView)
	s.rt.With(s.validateRange()).Get("/v1/statistics", s.statistics)
	s.rt.Get("/v1/dictionary/{kind}", s.getDictionary)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())
}
