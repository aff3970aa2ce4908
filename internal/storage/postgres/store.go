// Package postgres provides a pgx-backed storage implementation that satisfies
// the repository and writer interfaces used by the services.
//
// The schema lives in migrations/ and is applied with Migrate. This package
// maps domain entities to rows; amounts travel as numeric text so no precision
// is lost on the way in or out.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/meta"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.Parse(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode amount %q: %w", raw, err)
	}
	return d, nil
}

// notFound maps a missing row to errs.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

func execOne(ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) error {
	ct, err := pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- accounts ---

func scanAccount(row pgx.Row) (ledger.Account, error) {
	var a ledger.Account
	var bal string
	if err := row.Scan(&a.ID, &a.Name, &bal); err != nil {
		return ledger.Account{}, err
	}
	var err error
	a.InitialBalance, err = parseAmount(bal)
	return a, err
}

func (s *Store) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	rows, err := s.pool.Query(ctx, `select id, name, initial_balance::text from accounts order by seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx, `select id, name, initial_balance::text from accounts where id = $1`, id))
	return a, notFound(err)
}

func (s *Store) CreateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	a.ID = uuid.New()
	_, err := s.pool.Exec(ctx, `insert into accounts (id, name, initial_balance) values ($1, $2, $3)`,
		a.ID, a.Name, a.InitialBalance.String())
	if err != nil {
		return ledger.Account{}, err
	}
	return a, nil
}

func (s *Store) ReplaceAccount(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	err := execOne(ctx, s.pool, `update accounts set name = $2, initial_balance = $3 where id = $1`,
		a.ID, a.Name, a.InitialBalance.String())
	if err != nil {
		return ledger.Account{}, err
	}
	return a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `delete from accounts where id = $1`, id)
}

// --- income sources ---

func scanIncomeSource(row pgx.Row) (ledger.IncomeSource, error) {
	var src ledger.IncomeSource
	var amt string
	if err := row.Scan(&src.ID, &src.Name, &amt); err != nil {
		return ledger.IncomeSource{}, err
	}
	var err error
	src.ExpectedAmount, err = parseAmount(amt)
	return src, err
}

func (s *Store) ListIncomeSources(ctx context.Context) ([]ledger.IncomeSource, error) {
	rows, err := s.pool.Query(ctx, `select id, name, expected_amount::text from income_sources order by seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.IncomeSource, 0)
	for rows.Next() {
		src, err := scanIncomeSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

func (s *Store) GetIncomeSource(ctx context.Context, id uuid.UUID) (ledger.IncomeSource, error) {
	src, err := scanIncomeSource(s.pool.QueryRow(ctx, `select id, name, expected_amount::text from income_sources where id = $1`, id))
	return src, notFound(err)
}

func (s *Store) CreateIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	src.ID = uuid.New()
	_, err := s.pool.Exec(ctx, `insert into income_sources (id, name, expected_amount) values ($1, $2, $3)`,
		src.ID, src.Name, src.ExpectedAmount.String())
	if err != nil {
		return ledger.IncomeSource{}, err
	}
	return src, nil
}

func (s *Store) ReplaceIncomeSource(ctx context.Context, src ledger.IncomeSource) (ledger.IncomeSource, error) {
	err := execOne(ctx, s.pool, `update income_sources set name = $2, expected_amount = $3 where id = $1`,
		src.ID, src.Name, src.ExpectedAmount.String())
	if err != nil {
		return ledger.IncomeSource{}, err
	}
	return src, nil
}

func (s *Store) DeleteIncomeSource(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `delete from income_sources where id = $1`, id)
}

// --- expense categories ---

func scanExpenseCategory(row pgx.Row) (ledger.ExpenseCategory, error) {
	var c ledger.ExpenseCategory
	var amt string
	if err := row.Scan(&c.ID, &c.Name, &amt); err != nil {
		return ledger.ExpenseCategory{}, err
	}
	var err error
	c.BudgetAmount, err = parseAmount(amt)
	return c, err
}

func (s *Store) ListExpenseCategories(ctx context.Context) ([]ledger.ExpenseCategory, error) {
	rows, err := s.pool.Query(ctx, `select id, name, budget_amount::text from expense_categories order by seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.ExpenseCategory, 0)
	for rows.Next() {
		c, err := scanExpenseCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetExpenseCategory(ctx context.Context, id uuid.UUID) (ledger.ExpenseCategory, error) {
	c, err := scanExpenseCategory(s.pool.QueryRow(ctx, `select id, name, budget_amount::text from expense_categories where id = $1`, id))
	return c, notFound(err)
}

func (s *Store) CreateExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	c.ID = uuid.New()
	_, err := s.pool.Exec(ctx, `insert into expense_categories (id, name, budget_amount) values ($1, $2, $3)`,
		c.ID, c.Name, c.BudgetAmount.String())
	if err != nil {
		return ledger.ExpenseCategory{}, err
	}
	return c, nil
}

func (s *Store) ReplaceExpenseCategory(ctx context.Context, c ledger.ExpenseCategory) (ledger.ExpenseCategory, error) {
	err := execOne(ctx, s.pool, `update expense_categories set name = $2, budget_amount = $3 where id = $1`,
		c.ID, c.Name, c.BudgetAmount.String())
	if err != nil {
		return ledger.ExpenseCategory{}, err
	}
	return c, nil
}

func (s *Store) DeleteExpenseCategory(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `delete from expense_categories where id = $1`, id)
}

// --- transactions ---

const txColumns = `id, from_tag, to_tag, amount::text, to_char(date, 'YYYY-MM-DD'), metadata`

func scanTransaction(row pgx.Row) (ledger.Transaction, error) {
	var t ledger.Transaction
	var amt string
	var md []byte
	if err := row.Scan(&t.ID, &t.From, &t.To, &amt, &t.Date, &md); err != nil {
		return ledger.Transaction{}, err
	}
	var err error
	if t.Amount, err = parseAmount(amt); err != nil {
		return ledger.Transaction{}, err
	}
	if t.Metadata, err = meta.Parse(md); err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := s.pool.Query(ctx, `select `+txColumns+` from transactions order by seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ledger.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	t, err := scanTransaction(s.pool.QueryRow(ctx, `select `+txColumns+` from transactions where id = $1`, id))
	return t, notFound(err)
}

func (s *Store) CreateTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	t.ID = uuid.New()
	md, err := t.Metadata.MarshalStableJSON()
	if err != nil {
		return ledger.Transaction{}, err
	}
	_, err = s.pool.Exec(ctx, `
		insert into transactions (id, from_tag, to_tag, amount, date, metadata)
		values ($1, $2, $3, $4, $5::date, $6)
	`, t.ID, t.From, t.To, t.Amount.String(), t.Date, md)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func (s *Store) ReplaceTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	md, err := t.Metadata.MarshalStableJSON()
	if err != nil {
		return ledger.Transaction{}, err
	}
	err = execOne(ctx, s.pool, `
		update transactions set from_tag = $2, to_tag = $3, amount = $4, date = $5::date, metadata = $6
		where id = $1
	`, t.ID, t.From, t.To, t.Amount.String(), t.Date, md)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `delete from transactions where id = $1`, id)
}

// Truncate removes every row. Tests use it between cases.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `truncate table transactions, expense_categories, income_sources, accounts`)
	return err
}
