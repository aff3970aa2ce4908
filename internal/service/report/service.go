// Package report loads snapshots and derives the read-side views from them.
// Every call reloads the collections, so a query after a write always sees it.
package report

import (
	"context"
	"fmt"

	"github.com/govalues/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/ledger"
)

type Repo interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	ListIncomeSources(ctx context.Context) ([]ledger.IncomeSource, error)
	ListExpenseCategories(ctx context.Context) ([]ledger.ExpenseCategory, error)
	ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
}

// LedgerView is the date-grouped history plus its overall net change.
type LedgerView struct {
	Days      []ledger.Day
	NetChange decimal.Decimal
}

type Service interface {
	Snapshot(ctx context.Context) (ledger.Snapshot, error)
	Summary(ctx context.Context) (ledger.Aggregates, error)
	Ledger(ctx context.Context) (LedgerView, error)
	Statistics(ctx context.Context, from, to string) (ledger.Statistics, error)
	DisplayName(ctx context.Context, tag string) (string, error)
}

type service struct {
	repo Repo
}

func New(repo Repo) Service { return &service{repo: repo} }

// Snapshot fetches the four collections concurrently. Any failure fails the
// whole load; no partial snapshot is returned.
func (s *service) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if snap.Accounts, err = s.repo.ListAccounts(gctx); err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.IncomeSources, err = s.repo.ListIncomeSources(gctx); err != nil {
			return fmt.Errorf("list income sources: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.ExpenseCategories, err = s.repo.ListExpenseCategories(gctx); err != nil {
			return fmt.Errorf("list expense categories: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.Transactions, err = s.repo.ListTransactions(gctx); err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

func (s *service) Summary(ctx context.Context) (ledger.Aggregates, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledger.Aggregates{}, err
	}
	return snap.Aggregates(), nil
}

func (s *service) Ledger(ctx context.Context) (LedgerView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return LedgerView{}, err
	}
	return LedgerView{Days: snap.Days(), NetChange: ledger.NetChange(snap.Transactions)}, nil
}

// Statistics summarizes flows dated within [from, to]; empty bounds are open.
func (s *service) Statistics(ctx context.Context, from, to string) (ledger.Statistics, error) {
	for _, d := range []string{from, to} {
		if d != "" && !ledger.ValidDate(d) {
			return ledger.Statistics{}, fmt.Errorf("%w: %q", errs.ErrInvalidDate, d)
		}
	}
	if from != "" && to != "" && from > to {
		return ledger.Statistics{}, fmt.Errorf("%w: from is after to", errs.ErrInvalid)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledger.Statistics{}, err
	}
	return snap.Statistics(from, to), nil
}

func (s *service) DisplayName(ctx context.Context, tag string) (string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return snap.DisplayName(tag), nil
}
