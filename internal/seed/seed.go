// Package seed imports a book from a YAML file. Every row goes through the
// services, so seeded data obeys the same rules as data entered over HTTP.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/govalues/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/service/account"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/service/transaction"
)

// File is the seed.yaml layout.
type File struct {
	Accounts          []Account         `yaml:"accounts"`
	IncomeSources     []IncomeSource    `yaml:"income_sources"`
	ExpenseCategories []ExpenseCategory `yaml:"expense_categories"`
	Transactions      []Transaction     `yaml:"transactions"`
}

type Account struct {
	Name           string `yaml:"name"`
	InitialBalance string `yaml:"initial_balance,omitempty"`
}

type IncomeSource struct {
	Name           string `yaml:"name"`
	ExpectedAmount string `yaml:"expected_amount"`
}

type ExpenseCategory struct {
	Name         string `yaml:"name"`
	BudgetAmount string `yaml:"budget_amount"`
}

// Transaction endpoints use the "<kind>-<name>" form; they are canonicalized
// on import once the named entities exist.
type Transaction struct {
	From     string            `yaml:"from"`
	To       string            `yaml:"to"`
	Amount   string            `yaml:"amount"`
	Date     string            `yaml:"date,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// Services are the write paths a seed is applied through.
type Services struct {
	Accounts     account.Service
	Budget       budget.Service
	Transactions transaction.Service
}

// Result counts the created rows.
type Result struct {
	Accounts          int `json:"accounts" yaml:"accounts"`
	IncomeSources     int `json:"income_sources" yaml:"income_sources"`
	ExpenseCategories int `json:"expense_categories" yaml:"expense_categories"`
	Transactions      int `json:"transactions" yaml:"transactions"`
}

// Load reads a seed file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	return &f, nil
}

// Apply creates entities first, then transactions, stopping at the first
// rejected row. Rows created before the failure are kept.
func Apply(ctx context.Context, f *File, svc Services) (Result, error) {
	var res Result
	for i, a := range f.Accounts {
		bal, err := parseOptional(a.InitialBalance)
		if err != nil {
			return res, fmt.Errorf("account %d (%s): %w", i+1, a.Name, err)
		}
		if _, err := svc.Accounts.Create(ctx, ledger.Account{Name: a.Name, InitialBalance: bal}); err != nil {
			return res, fmt.Errorf("account %d (%s): %w", i+1, a.Name, err)
		}
		res.Accounts++
	}
	for i, src := range f.IncomeSources {
		amt, err := parseOptional(src.ExpectedAmount)
		if err != nil {
			return res, fmt.Errorf("income source %d (%s): %w", i+1, src.Name, err)
		}
		if _, err := svc.Budget.CreateIncomeSource(ctx, ledger.IncomeSource{Name: src.Name, ExpectedAmount: amt}); err != nil {
			return res, fmt.Errorf("income source %d (%s): %w", i+1, src.Name, err)
		}
		res.IncomeSources++
	}
	for i, c := range f.ExpenseCategories {
		amt, err := parseOptional(c.BudgetAmount)
		if err != nil {
			return res, fmt.Errorf("expense category %d (%s): %w", i+1, c.Name, err)
		}
		if _, err := svc.Budget.CreateExpenseCategory(ctx, ledger.ExpenseCategory{Name: c.Name, BudgetAmount: amt}); err != nil {
			return res, fmt.Errorf("expense category %d (%s): %w", i+1, c.Name, err)
		}
		res.ExpenseCategories++
	}
	for i, t := range f.Transactions {
		in := transaction.Input{From: t.From, To: t.To, Amount: t.Amount, Date: t.Date, Metadata: t.Metadata}
		if _, err := svc.Transactions.Create(ctx, in); err != nil {
			return res, fmt.Errorf("transaction %d (%s -> %s): %w", i+1, t.From, t.To, err)
		}
		res.Transactions++
	}
	return res, nil
}

func parseOptional(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, nil
	}
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Dev is the small book loaded when DEV_SEED is enabled.
func Dev() *File {
	return &File{
		Accounts: []Account{
			{Name: "Checking", InitialBalance: "1000"},
			{Name: "Cash", InitialBalance: "200"},
		},
		IncomeSources: []IncomeSource{
			{Name: "Salary", ExpectedAmount: "2000"},
		},
		ExpenseCategories: []ExpenseCategory{
			{Name: "Rent", BudgetAmount: "800"},
			{Name: "Groceries", BudgetAmount: "300"},
		},
		Transactions: []Transaction{
			{From: "income-Salary", To: "account-Checking", Amount: "1500", Date: "2024-05-01"},
			{From: "account-Checking", To: "expense-Rent", Amount: "800", Date: "2024-05-03"},
			{From: "account-Checking", To: "account-Cash", Amount: "100", Date: "2024-05-03"},
			{From: "account-Cash", To: "expense-Groceries", Amount: "45.50", Date: "2024-05-04"},
		},
	}
}
