// Package sqlite is a single-file storage backend on the pure Go modernc driver.
// Amounts are stored as decimal text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	_ "modernc.org/sqlite"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/meta"
)

type Store struct {
	db *sql.DB
}

// Open creates the database directory if needed, applies migrations and
// returns a ready store.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single writer connection avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Ready(ctx context.Context) error { return s.db.PingContext(ctx) }

type scanner interface{ Scan(dest ...any) error }

func parseRow(idText, amountText string) (uuid.UUID, decimal.Decimal, error) {
	id, err := uuid.Parse(idText)
	if err != nil {
		return uuid.Nil, decimal.Decimal{}, fmt.Errorf("decode id %q: %w", idText, err)
	}
	amt, err := decimal.Parse(amountText)
	if err != nil {
		return uuid.Nil, decimal.Decimal{}, fmt.Errorf("decode amount %q: %w", amountText, err)
	}
	return id, amt, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// list runs query and decodes every row with scan.
func list[T any](ctx context.Context, db *sql.DB, query string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// --- accounts ---

func scanAccount(row scanner) (ledger.Account, error) {
	var id, name, bal string
	if err := row.Scan(&id, &name, &bal); err != nil {
		return ledger.Account{}, err
	}
	uid, amt, err := parseRow(id, bal)
	return ledger.Account{ID: uid, Name: name, InitialBalance: amt}, err
}

func (s *Store) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	return list(ctx, s.db, `SELECT id, name, initial_balance FROM accounts ORDER BY seq`, scanAccount)
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx, `SELECT id, name, initial_balance FROM accounts WHERE id = ?`, id.String()))
	return a, notFound(err)
}

func (s *Store) CreateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	a.ID = uuid.New()
	_, err := s.db.ExecContext(ctx, `INSERT INTO accounts (id, name, initial_balance) VALUES (?, ?, ?)`,
		a.ID.String(), a.Name, a.InitialBalance.String())
	if err != nil {
		return ledger.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

func (s *Store) ReplaceAccount(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	if err := s.execOne(ctx, `UPDATE accounts SET name = ?, initial_balance = ? WHERE id = ?`,
		a.Name, a.InitialBalance.String(), a.ID.String()); err != nil {
		return ledger.Account{}, err
	}
	return a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, `DELETE FROM accounts WHERE id = ?`, id.String())
}

// --- income sources ---

func scanIncomeSource(row scanner) (ledger.IncomeSource, error) {
	var id, name, amt string
	if err := row.Scan(&id, &name, &amt); err != nil {
		return ledger.IncomeSource{}, err
	}
	uid, d, err := parseRow(id, amt)
	return ledger.IncomeSource{ID: uid, Name: name, ExpectedAmount: d}, err
}

func (s *Store) ListIncomeSources(ctx context.Context) ([]ledger.IncomeSource, error) {
	return list(ctx, s.db, `SELECT id, name, expected_amount FROM income_sources ORDER BY seq`, scanIncomeSource)
}

func (s *Store) GetIncomeSource(ctx context.Context, id uuid.UUID) (ledger.IncomeSource, error) {
	src, err := scanIncomeSource(s.db.QueryRowContext(ctx, `SELECT id, name, expected_amount FROM income_sources WHERE id = ?`, id.String()))
	return src, notFound(err)
}

func (s *Store) CreateIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	src.ID = uuid.New()
	_, err := s.db.ExecContext(ctx, `INSERT INTO income_sources (id, name, expected_amount) VALUES (?, ?, ?)`,
		src.ID.String(), src.Name, src.ExpectedAmount.String())
	if err != nil {
		return ledger.IncomeSource{}, fmt.Errorf("insert income source: %w", err)
	}
	return src, nil
}

func (s *Store) ReplaceIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	if err := s.execOne(ctx, `UPDATE income_sources SET name = ?, expected_amount = ? WHERE id = ?`,
		src.Name, src.ExpectedAmount.String(), src.ID.String()); err != nil {
		return ledger.IncomeSource{}, err
	}
	return src, nil
}

func (s *Store) DeleteIncomeSource(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, `DELETE FROM income_sources WHERE id = ?`, id.String())
}

// --- expense categories ---

func scanExpenseCategory(row scanner) (ledger.ExpenseCategory, error) {
	var id, name, amt string
	if err := row.Scan(&id, &name, &amt); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	uid, d, err := parseRow(id, amt)
	return ledger.ExpenseCategory{ID: uid, Name: name, BudgetAmount: d}, err
}

func (s *Store) ListExpenseCategories(ctx context.Context) ([]ledger.ExpenseCategory, error) {
	return list(ctx, s.db, `SELECT id, name, budget_amount FROM expense_categories ORDER BY seq`, scanExpenseCategory)
}

func (s *Store) GetExpenseCategory(ctx context.Context, id uuid.UUID) (ledger.ExpenseCategory, error) {
	c, err := scanExpenseCategory(s.db.QueryRowContext(ctx, `SELECT id, name, budget_amount FROM expense_categories WHERE id = ?`, id.String()))
	return c, notFound(err)
}

func (s *Store) CreateExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	c.ID = uuid.New()
	_, err := s.db.ExecContext(ctx, `INSERT INTO expense_categories (id, name, budget_amount) VALUES (?, ?, ?)`,
		c.ID.String(), c.Name, c.BudgetAmount.String())
	if err != nil {
		return ledger.ExpenseCategory{}, fmt.Errorf("insert expense category: %w", err)
	}
	return c, nil
}

func (s *Store) ReplaceExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	if err := s.execOne(ctx, `UPDATE expense_categories SET name = ?, budget_amount = ? WHERE id = ?`,
		c.Name, c.BudgetAmount.String(), c.ID.String()); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	return c, nil
}

func (s *Store) DeleteExpenseCategory(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, `DELETE FROM expense_categories WHERE id = ?`, id.String())
}

// --- transactions ---

const txColumns = `id, from_tag, to_tag, amount, date, metadata`

func scanTransaction(row scanner) (ledger.Transaction, error) {
	var id, amt, md string
	var t ledger.Transaction
	if err := row.Scan(&id, &t.From, &t.To, &amt, &t.Date, &md); err != nil {
		return ledger.Transaction{}, err
	}
	var err error
	if t.ID, t.Amount, err = parseRow(id, amt); err != nil {
		return ledger.Transaction{}, err
	}
	if t.Metadata, err = meta.Parse([]byte(md)); err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	return list(ctx, s.db, `SELECT `+txColumns+` FROM transactions ORDER BY seq`, scanTransaction)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	t, err := scanTransaction(s.db.QueryRowContext(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = ?`, id.String()))
	return t, notFound(err)
}

func (s *Store) CreateTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	t.ID = uuid.New()
	md, err := t.Metadata.MarshalStableJSON()
	if err != nil {
		return ledger.Transaction{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO transactions (id, from_tag, to_tag, amount, date, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.From, t.To, t.Amount.String(), t.Date, string(md))
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (s *Store) ReplaceTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	md, err := t.Metadata.MarshalStableJSON()
	if err != nil {
		return ledger.Transaction{}, err
	}
	if err := s.execOne(ctx, `UPDATE transactions SET from_tag = ?, to_tag = ?, amount = ?, date = ?, metadata = ? WHERE id = ?`,
		t.From, t.To, t.Amount.String(), t.Date, string(md), t.ID.String()); err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, `DELETE FROM transactions WHERE id = ?`, id.String())
}
