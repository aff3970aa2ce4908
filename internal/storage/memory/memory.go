// Package memory provides an in-memory store used for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/ledger"
)

// table keeps rows by id plus their insertion order, so lists are stable.
type table[T any] struct {
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() table[T] { return table[T]{rows: make(map[uuid.UUID]T)} }

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) get(id uuid.UUID) (T, error) {
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, errs.ErrNotFound
	}
	return v, nil
}

func (t *table[T]) insert(id uuid.UUID, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) replace(id uuid.UUID, v T) error {
	if _, ok := t.rows[id]; !ok {
		return errs.ErrNotFound
	}
	t.rows[id] = v
	return nil
}

func (t *table[T]) remove(id uuid.UUID) error {
	if _, ok := t.rows[id]; !ok {
		return errs.ErrNotFound
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(x uuid.UUID) bool { return x == id })
	return nil
}

// Store is an in-memory implementation of every repo and writer the services use.
// It is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu           sync.RWMutex
	accounts     table[ledger.Account]
	incomes      table[ledger.IncomeSource]
	expenses     table[ledger.ExpenseCategory]
	transactions table[ledger.Transaction]
}

// New constructs an empty in-memory store.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.accounts = newTable[ledger.Account]()
	s.incomes = newTable[ledger.IncomeSource]()
	s.expenses = newTable[ledger.ExpenseCategory]()
	s.transactions = newTable[ledger.Transaction]()
	s.mu.Unlock()
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// Seed helpers for local dev/tests. Rows keep their ID if set.
func (s *Store) SeedAccount(a ledger.Account) ledger.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = newID(a.ID)
	s.accounts.insert(a.ID, a)
	return a
}

func (s *Store) SeedIncomeSource(src ledger.IncomeSource) ledger.IncomeSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	src.ID = newID(src.ID)
	s.incomes.insert(src.ID, src)
	return src
}

func (s *Store) SeedExpenseCategory(c ledger.ExpenseCategory) ledger.ExpenseCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = newID(c.ID)
	s.expenses.insert(c.ID, c)
	return c
}

func (s *Store) SeedTransaction(t ledger.Transaction) ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = newID(t.ID)
	t.Metadata = t.Metadata.Clone()
	s.transactions.insert(t.ID, t)
	return t
}

// --- accounts ---

func (s *Store) ListAccounts(context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.list(), nil
}

func (s *Store) GetAccount(_ context.Context, id uuid.UUID) (ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.get(id)
}

func (s *Store) CreateAccount(_ context.Context, a ledger.Account) (ledger.Account, error) {
	return s.SeedAccount(a), nil
}

func (s *Store) ReplaceAccount(_ context.Context, a ledger.Account) (ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accounts.replace(a.ID, a); err != nil {
		return ledger.Account{}, err
	}
	return a, nil
}

func (s *Store) DeleteAccount(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.remove(id)
}

// --- income sources ---

func (s *Store) ListIncomeSources(context.Context) ([]ledger.IncomeSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incomes.list(), nil
}

func (s *Store) GetIncomeSource(_ context.Context, id uuid.UUID) (ledger.IncomeSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incomes.get(id)
}

func (s *Store) CreateIncomeSource(_ context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	return s.SeedIncomeSource(src), nil
}

func (s *Store) ReplaceIncomeSource(_ context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.incomes.replace(src.ID, src); err != nil {
		return ledger.IncomeSource{}, err
	}
	return src, nil
}

func (s *Store) DeleteIncomeSource(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incomes.remove(id)
}

// --- expense categories ---

func (s *Store) ListExpenseCategories(context.Context) ([]ledger.ExpenseCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expenses.list(), nil
}

func (s *Store) GetExpenseCategory(_ context.Context, id uuid.UUID) (ledger.ExpenseCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expenses.get(id)
}

func (s *Store) CreateExpenseCategory(_ context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	return s.SeedExpenseCategory(c), nil
}

func (s *Store) ReplaceExpenseCategory(_ context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expenses.replace(c.ID, c); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	return c, nil
}

func (s *Store) DeleteExpenseCategory(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.remove(id)
}

// --- transactions ---

// ListTransactions returns transactions in insertion order. Metadata maps are
// copied so callers cannot mutate stored rows.
func (s *Store) ListTransactions(context.Context) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.transactions.list()
	for i := range out {
		out[i].Metadata = out[i].Metadata.Clone()
	}
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.transactions.get(id)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t.Metadata = t.Metadata.Clone()
	return t, nil
}

func (s *Store) CreateTransaction(_ context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	return s.SeedTransaction(t), nil
}

func (s *Store) ReplaceTransaction(_ context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Metadata = t.Metadata.Clone()
	if err := s.transactions.replace(t.ID, t); err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.remove(id)
}
