// Package budget manages the budget lines on either side of the accounts:
// income sources (expected inflows) and expense categories (spending ceilings).
package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/events"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/slug"
)

type Repo interface {
	ListIncomeSources(ctx context.Context) ([]ledger.IncomeSource, error)
	GetIncomeSource(ctx context.Context, id uuid.UUID) (ledger.IncomeSource, error)
	ListExpenseCategories(ctx context.Context) ([]ledger.ExpenseCategory, error)
	GetExpenseCategory(ctx context.Context, id uuid.UUID) (ledger.ExpenseCategory, error)
	ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
}

type Writer interface {
	CreateIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error)
	ReplaceIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error)
	DeleteIncomeSource(ctx context.Context, id uuid.UUID) error
	CreateExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error)
	ReplaceExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error)
	DeleteExpenseCategory(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	ValidateIncomeSource(src ledger.IncomeSource) error
	CreateIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error)
	ListIncomeSources(ctx context.Context) ([]ledger.IncomeSource, error)
	GetIncomeSource(ctx context.Context, id uuid.UUID) (ledger.IncomeSource, error)
	ReplaceIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error)
	DeleteIncomeSource(ctx context.Context, id uuid.UUID) error

	ValidateExpenseCategory(c ledger.ExpenseCategory) error
	CreateExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error)
	ListExpenseCategories(ctx context.Context) ([]ledger.ExpenseCategory, error)
	GetExpenseCategory(ctx context.Context, id uuid.UUID) (ledger.ExpenseCategory, error)
	ReplaceExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error)
	DeleteExpenseCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repo
	writer Writer
	pub    events.Publisher
}

func New(repo Repo, writer Writer, pub events.Publisher) Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &service{repo: repo, writer: writer, pub: pub}
}

func validateLine(name string, amount decimal.Decimal, field string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalid)
	}
	if !amount.IsPos() {
		return fmt.Errorf("%w: %s must be positive", errs.ErrInvalid, field)
	}
	return nil
}

// --- income sources ---

func (s *service) ValidateIncomeSource(src ledger.IncomeSource) error {
	return validateLine(src.Name, src.ExpectedAmount, "expected amount")
}

func (s *service) CreateIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	src.ID = uuid.Nil
	src.Name = strings.TrimSpace(src.Name)
	if err := s.ValidateIncomeSource(src); err != nil {
		return ledger.IncomeSource{}, err
	}
	if err := s.uniqueIncomeName(ctx, src); err != nil {
		return ledger.IncomeSource{}, err
	}
	created, err := s.writer.CreateIncomeSource(ctx, src)
	if err != nil {
		return ledger.IncomeSource{}, fmt.Errorf("create income source: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionIncomeSources, events.OpCreate, created.ID))
	return created, nil
}

func (s *service) ListIncomeSources(ctx context.Context) ([]ledger.IncomeSource, error) {
	return s.repo.ListIncomeSources(ctx)
}

func (s *service) GetIncomeSource(ctx context.Context, id uuid.UUID) (ledger.IncomeSource, error) {
	return s.repo.GetIncomeSource(ctx, id)
}

func (s *service) ReplaceIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	if src.ID == uuid.Nil {
		return ledger.IncomeSource{}, errs.ErrInvalid
	}
	src.Name = strings.TrimSpace(src.Name)
	if err := s.ValidateIncomeSource(src); err != nil {
		return ledger.IncomeSource{}, err
	}
	if _, err := s.repo.GetIncomeSource(ctx, src.ID); err != nil {
		return ledger.IncomeSource{}, err
	}
	if err := s.uniqueIncomeName(ctx, src); err != nil {
		return ledger.IncomeSource{}, err
	}
	updated, err := s.writer.ReplaceIncomeSource(ctx, src)
	if err != nil {
		return ledger.IncomeSource{}, fmt.Errorf("replace income source: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionIncomeSources, events.OpReplace, updated.ID))
	return updated, nil
}

func (s *service) DeleteIncomeSource(ctx context.Context, id uuid.UUID) error {
	src, err := s.repo.GetIncomeSource(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureUnreferenced(ctx, ledger.KindIncome, src.ID, src.Name); err != nil {
		return err
	}
	if err := s.writer.DeleteIncomeSource(ctx, id); err != nil {
		return fmt.Errorf("delete income source: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionIncomeSources, events.OpDelete, id))
	return nil
}

func (s *service) uniqueIncomeName(ctx context.Context, src ledger.IncomeSource) error {
	existing, err := s.repo.ListIncomeSources(ctx)
	if err != nil {
		return fmt.Errorf("list income sources: %w", err)
	}
	for _, e := range existing {
		if e.ID != src.ID && slug.Same(e.Name, src.Name) {
			return fmt.Errorf("income source %q: %w", src.Name, errs.ErrNameExists)
		}
	}
	return nil
}

// --- expense categories ---

func (s *service) ValidateExpenseCategory(c ledger.ExpenseCategory) error {
	return validateLine(c.Name, c.BudgetAmount, "budget amount")
}

func (s *service) CreateExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	c.ID = uuid.Nil
	c.Name = strings.TrimSpace(c.Name)
	if err := s.ValidateExpenseCategory(c); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	if err := s.uniqueExpenseName(ctx, c); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	created, err := s.writer.CreateExpenseCategory(ctx, c)
	if err != nil {
		return ledger.ExpenseCategory{}, fmt.Errorf("create expense category: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionExpenseCategories, events.OpCreate, created.ID))
	return created, nil
}

func (s *service) ListExpenseCategories(ctx context.Context) ([]ledger.ExpenseCategory, error) {
	return s.repo.ListExpenseCategories(ctx)
}

func (s *service) GetExpenseCategory(ctx context.Context, id uuid.UUID) (ledger.ExpenseCategory, error) {
	return s.repo.GetExpenseCategory(ctx, id)
}

func (s *service) ReplaceExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	if c.ID == uuid.Nil {
		return ledger.ExpenseCategory{}, errs.ErrInvalid
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := s.ValidateExpenseCategory(c); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	if _, err := s.repo.GetExpenseCategory(ctx, c.ID); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	if err := s.uniqueExpenseName(ctx, c); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	updated, err := s.writer.ReplaceExpenseCategory(ctx, c)
	if err != nil {
		return ledger.ExpenseCategory{}, fmt.Errorf("replace expense category: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionExpenseCategories, events.OpReplace, updated.ID))
	return updated, nil
}

func (s *service) DeleteExpenseCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.GetExpenseCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureUnreferenced(ctx, ledger.KindExpense, c.ID, c.Name); err != nil {
		return err
	}
	if err := s.writer.DeleteExpenseCategory(ctx, id); err != nil {
		return fmt.Errorf("delete expense category: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionExpenseCategories, events.OpDelete, id))
	return nil
}

func (s *service) uniqueExpenseName(ctx context.Context, c ledger.ExpenseCategory) error {
	existing, err := s.repo.ListExpenseCategories(ctx)
	if err != nil {
		return fmt.Errorf("list expense categories: %w", err)
	}
	for _, e := range existing {
		if e.ID != c.ID && slug.Same(e.Name, c.Name) {
			return fmt.Errorf("expense category %q: %w", c.Name, errs.ErrNameExists)
		}
	}
	return nil
}

func (s *service) ensureUnreferenced(ctx context.Context, k ledger.Kind, id uuid.UUID, name string) error {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	if (ledger.Snapshot{Transactions: txs}).References(k, id, name) {
		return fmt.Errorf("%s %q: %w", k, name, errs.ErrInUse)
	}
	return nil
}
