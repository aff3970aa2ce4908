package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/meta"
)

func TestAccounts_CRUDKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.CreateAccount(ctx, ledger.Account{Name: "B", InitialBalance: decimal.MustParse("1")})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, a.ID)
	b, _ := s.CreateAccount(ctx, ledger.Account{Name: "A"})

	list, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	a.Name = "Renamed"
	_, err = s.ReplaceAccount(ctx, a)
	require.NoError(t, err)
	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	require.NoError(t, s.DeleteAccount(ctx, a.ID))
	_, err = s.GetAccount(ctx, a.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, s.DeleteAccount(ctx, a.ID), errs.ErrNotFound)
	_, err = s.ReplaceAccount(ctx, ledger.Account{ID: uuid.New(), Name: "x"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	list, _ = s.ListAccounts(ctx)
	assert.Len(t, list, 1)
}

func TestTransactions_MetadataIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, err := s.CreateTransaction(ctx, ledger.Transaction{
		From: "income-Salary", To: "account-Cash", Amount: decimal.MustParse("10"), Date: "2024-01-01",
		Metadata: meta.New(map[string]string{"note": "first"}),
	})
	require.NoError(t, err)

	list, _ := s.ListTransactions(ctx)
	list[0].Metadata["note"] = "mutated"

	got, err := s.GetTransaction(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Metadata["note"])
}

func TestBudgetLines_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	src, _ := s.CreateIncomeSource(ctx, ledger.IncomeSource{Name: "Salary", ExpectedAmount: decimal.MustParse("2000")})
	cat, _ := s.CreateExpenseCategory(ctx, ledger.ExpenseCategory{Name: "Rent", BudgetAmount: decimal.MustParse("800")})

	srcs, _ := s.ListIncomeSources(ctx)
	cats, _ := s.ListExpenseCategories(ctx)
	require.Len(t, srcs, 1)
	require.Len(t, cats, 1)

	require.NoError(t, s.DeleteIncomeSource(ctx, src.ID))
	require.NoError(t, s.DeleteExpenseCategory(ctx, cat.ID))
	_, err := s.GetExpenseCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	s.Reset()
	srcs, _ = s.ListIncomeSources(ctx)
	assert.Empty(t, srcs)
}
