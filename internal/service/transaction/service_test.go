package transaction_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/events"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/service/transaction"
	"github.com/tinoosan/budget/internal/storage/memory"
)

type fixture struct {
	store    *memory.Store
	rec      *events.Recorder
	svc      transaction.Service
	checking ledger.Account
	savings  ledger.Account
	salary   ledger.IncomeSource
	rent     ledger.ExpenseCategory
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	f := fixture{store: store, rec: &events.Recorder{}}
	f.checking = store.SeedAccount(ledger.Account{Name: "Checking", InitialBalance: decimal.MustParse("1000")})
	f.savings = store.SeedAccount(ledger.Account{Name: "Savings"})
	f.salary = store.SeedIncomeSource(ledger.IncomeSource{Name: "Salary", ExpectedAmount: decimal.MustParse("2000")})
	f.rent = store.SeedExpenseCategory(ledger.ExpenseCategory{Name: "Rent", BudgetAmount: decimal.MustParse("800")})
	clock := func() time.Time { return time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC) }
	f.svc = transaction.New(store, store, f.rec, transaction.WithClock(clock))
	return f
}

func TestCreate_CanonicalizesKnownNames(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx, err := f.svc.Create(ctx, transaction.Input{From: "income-Salary", To: "account-Checking", Amount: "1500", Date: "2024-05-01"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, ledger.IDTag(ledger.KindIncome, f.salary.ID), tx.From)
	assert.Equal(t, ledger.IDTag(ledger.KindAccount, f.checking.ID), tx.To)
	assert.Equal(t, ledger.FlowIncome, tx.Flow())

	changes := f.rec.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, events.CollectionTransactions, changes[0].Collection)
	assert.Equal(t, events.OpCreate, changes[0].Op)
}

func TestCreate_KeepsUnknownNamesAndDefaultsDate(t *testing.T) {
	f := setup(t)
	tx, err := f.svc.Create(context.Background(), transaction.Input{From: "account-Checking", To: "expense-Travel", Amount: "12.50"})
	require.NoError(t, err)
	assert.Equal(t, "expense-Travel", tx.To)
	assert.Equal(t, "2024-05-17", tx.Date)
}

func TestValidate_Rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cases := []struct {
		name string
		in   transaction.Input
		want error
	}{
		{"zero", transaction.Input{From: "income-Salary", To: "account-Checking", Amount: "0"}, errs.ErrInvalidAmount},
		{"negative", transaction.Input{From: "income-Salary", To: "account-Checking", Amount: "-5"}, errs.ErrInvalidAmount},
		{"text", transaction.Input{From: "income-Salary", To: "account-Checking", Amount: "abc"}, errs.ErrInvalidAmount},
		{"same", transaction.Input{From: "account-Checking", To: "account-Checking", Amount: "5"}, errs.ErrSameEndpoint},
		{"same after canonicalization", transaction.Input{From: "account-Checking", To: ledger.IDTag(ledger.KindAccount, f.checking.ID), Amount: "5"}, errs.ErrSameEndpoint},
		{"expense to account", transaction.Input{From: "expense-Rent", To: "account-Checking", Amount: "5"}, errs.ErrUnsupportedKind},
		{"bad date", transaction.Input{From: "income-Salary", To: "account-Checking", Amount: "5", Date: "17/05/2024"}, errs.ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Validate(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	list, _ := f.svc.List(ctx)
	assert.Empty(t, list)
}

func TestReplace_RevalidatesAndKeepsID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx, err := f.svc.Create(ctx, transaction.Input{From: "account-Checking", To: "account-Savings", Amount: "100", Date: "2024-05-01"})
	require.NoError(t, err)

	_, err = f.svc.Replace(ctx, tx.ID, transaction.Input{From: "account-Checking", To: "income-Salary", Amount: "100", Date: "2024-05-01"})
	require.ErrorIs(t, err, errs.ErrUnsupportedKind)

	updated, err := f.svc.Replace(ctx, tx.ID, transaction.Input{From: "account-Checking", To: "expense-Rent", Amount: "80", Date: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, ledger.FlowExpense, updated.Flow())

	got, err := f.svc.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Amount.Cmp(decimal.MustParse("80")))

	_, err = f.svc.Replace(ctx, uuid.New(), transaction.Input{From: "income-Salary", To: "account-Checking", Amount: "1"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx, err := f.svc.Create(ctx, transaction.Input{From: "income-Salary", To: "account-Checking", Amount: "1"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, tx.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, tx.ID), errs.ErrNotFound)
	assert.Len(t, f.rec.Changes(), 2)
}

type failingRepo struct{ *memory.Store }

var errBoom = errors.New("boom")

func (failingRepo) ListAccounts(context.Context) ([]ledger.Account, error) { return nil, errBoom }

func TestCreate_PropagatesCollaboratorErrors(t *testing.T) {
	store := memory.New()
	svc := transaction.New(failingRepo{store}, store, nil)
	_, err := svc.Create(context.Background(), transaction.Input{From: "income-A", To: "account-B", Amount: "1"})
	assert.ErrorIs(t, err, errBoom)
}

func TestClassify_SeesThroughTagForms(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	flow, err := f.svc.Classify(ctx, "account-Checking", "expense-Rent")
	require.NoError(t, err)
	assert.Equal(t, ledger.FlowExpense, flow)

	flow, err = f.svc.Classify(ctx, "account-Checking", ledger.IDTag(ledger.KindAccount, f.checking.ID))
	require.NoError(t, err)
	assert.Equal(t, ledger.FlowInvalid, flow)

	flow, err = f.svc.Classify(ctx, "account-Checking", "account-Savings")
	require.NoError(t, err)
	assert.Equal(t, ledger.FlowTransfer, flow)
}

func TestCreate_RejectsSelfTransferAcrossIDSpellings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.checking.ID.String()
	canon := ledger.IDTag(ledger.KindAccount, f.checking.ID)

	for _, spelling := range []string{strings.ToUpper(id), "{" + id + "}", "urn:uuid:" + id, strings.ReplaceAll(id, "-", "")} {
		_, err := f.svc.Create(ctx, transaction.Input{From: canon, To: "account:" + spelling, Amount: "50", Date: "2024-05-01"})
		assert.ErrorIs(t, err, errs.ErrSameEndpoint, spelling)
	}
	txs, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	tx, err := f.svc.Create(ctx, transaction.Input{From: "account:" + strings.ToUpper(id), To: "account-Savings", Amount: "50", Date: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, canon, tx.From)
	assert.Equal(t, ledger.FlowTransfer, tx.Flow())
}
