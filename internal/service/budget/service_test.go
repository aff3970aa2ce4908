package budget_test

import (
	"context"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/storage/memory"
)

func TestIncomeSources(t *testing.T) {
	store := memory.New()
	svc := budget.New(store, store, nil)
	ctx := context.Background()

	_, err := svc.CreateIncomeSource(ctx, ledger.IncomeSource{Name: "Salary"})
	assert.ErrorIs(t, err, errs.ErrInvalid, "zero expected amount")

	src, err := svc.CreateIncomeSource(ctx, ledger.IncomeSource{Name: "Salary", ExpectedAmount: decimal.MustParse("2000")})
	require.NoError(t, err)
	_, err = svc.CreateIncomeSource(ctx, ledger.IncomeSource{Name: "SALARY", ExpectedAmount: decimal.MustParse("1")})
	assert.ErrorIs(t, err, errs.ErrNameExists)

	src.ExpectedAmount = decimal.MustParse("2500")
	got, err := svc.ReplaceIncomeSource(ctx, src)
	require.NoError(t, err)
	assert.Zero(t, got.ExpectedAmount.Cmp(decimal.MustParse("2500")))

	store.SeedTransaction(ledger.Transaction{From: ledger.IDTag(ledger.KindIncome, src.ID), To: "account-Cash", Amount: decimal.MustParse("1"), Date: "2024-01-01"})
	assert.ErrorIs(t, svc.DeleteIncomeSource(ctx, src.ID), errs.ErrInUse)
}

func TestExpenseCategories(t *testing.T) {
	store := memory.New()
	svc := budget.New(store, store, nil)
	ctx := context.Background()

	_, err := svc.CreateExpenseCategory(ctx, ledger.ExpenseCategory{Name: "Rent", BudgetAmount: decimal.MustParse("-3")})
	assert.ErrorIs(t, err, errs.ErrInvalid)

	c, err := svc.CreateExpenseCategory(ctx, ledger.ExpenseCategory{Name: "Rent", BudgetAmount: decimal.MustParse("800")})
	require.NoError(t, err)
	list, err := svc.ListExpenseCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteExpenseCategory(ctx, c.ID))
	_, err = svc.GetExpenseCategory(ctx, c.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
