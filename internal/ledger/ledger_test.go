package ledger

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/budget/internal/errs"
)

func dec(s string) decimal.Decimal { return decimal.MustParse(s) }

// idSpellings returns the forms uuid.Parse accepts for one id.
func idSpellings(id uuid.UUID) []string {
	s := id.String()
	return []string{s, strings.ToUpper(s), "{" + s + "}", "urn:uuid:" + s, strings.ReplaceAll(s, "-", "")}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Zero(t, dec(want).Cmp(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestParseEndpoint(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		tag  string
		want Endpoint
	}{
		{"income-Salary", Endpoint{Kind: KindIncome, Name: "Salary"}},
		{"account-Checking", Endpoint{Kind: KindAccount, Name: "Checking"}},
		{"expense-Car-Repair", Endpoint{Kind: KindExpense, Name: "Car-Repair"}},
		{"account:" + id.String(), Endpoint{Kind: KindAccount, ID: id}},
		{"account:not-a-uuid", Endpoint{Kind: KindUnknown, Name: "account:not-a-uuid"}},
		{"accountant-Bob", Endpoint{Kind: KindUnknown, Name: "accountant-Bob"}},
		{"savings-Box", Endpoint{Kind: KindUnknown, Name: "savings-Box"}},
		{"income", Endpoint{Kind: KindUnknown, Name: "income"}},
		{"", Endpoint{Kind: KindUnknown, Name: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEndpoint(tt.tag))
		})
	}
}

func TestEndpointString_RoundTrips(t *testing.T) {
	id := uuid.New()
	for _, tag := range []string{"income-Salary", "expense-Rent", IDTag(KindAccount, id), "weird"} {
		assert.Equal(t, tag, ParseEndpoint(tag).String())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		from, to string
		want     Flow
	}{
		{"income-A", "account-B", FlowIncome},
		{"account-B", "expense-C", FlowExpense},
		{"account-B", "account-D", FlowTransfer},
		{"account-B", "account-B", FlowInvalid},
		{"expense-C", "account-B", FlowInvalid},
		{"income-A", "expense-C", FlowInvalid},
		{"income-A", "income-B", FlowInvalid},
		{"account-B", "income-A", FlowInvalid},
		{"foo-A", "account-B", FlowInvalid},
		{"account:" + uuid.NewString(), "expense:" + uuid.NewString(), FlowExpense},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestClassify_IDSpellingsAreOneEndpoint(t *testing.T) {
	id := uuid.New()
	canon := IDTag(KindAccount, id)
	for _, spelling := range idSpellings(id) {
		assert.Equal(t, FlowInvalid, Classify(canon, "account:"+spelling), spelling)
		assert.True(t, SameEndpoint("account:"+spelling, canon), spelling)
	}
	assert.False(t, SameEndpoint(canon, IDTag(KindExpense, id)))
	assert.Equal(t, FlowTransfer, Classify(canon, IDTag(KindAccount, uuid.New())))
}

func TestClassify_IgnoresAmountDateAndID(t *testing.T) {
	a := Transaction{ID: uuid.New(), From: "income-A", To: "account-B", Amount: dec("1"), Date: "2024-01-01"}
	b := Transaction{ID: uuid.New(), From: "income-A", To: "account-B", Amount: dec("999"), Date: "2030-12-31"}
	assert.Equal(t, a.Flow(), b.Flow())
}

func TestValidate(t *testing.T) {
	for _, bad := range []string{"0", "-5", "abc", "", "NaN", "Inf"} {
		_, _, err := Validate("income-A", "account-B", bad)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount, "amount %q", bad)
	}
	for _, good := range []string{"0.01", "1000", " 42.5 "} {
		amt, flow, err := Validate("income-A", "account-B", good)
		require.NoError(t, err, "amount %q", good)
		assert.Equal(t, FlowIncome, flow)
		assert.True(t, amt.IsPos())
	}
}

func TestValidate_OrderOfChecks(t *testing.T) {
	// a bad amount wins over identical endpoints
	_, _, err := Validate("account-B", "account-B", "abc")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)

	_, _, err = Validate("account-B", "account-B", "10")
	assert.ErrorIs(t, err, errs.ErrSameEndpoint)

	_, _, err = Validate("expense-C", "account-B", "10")
	assert.ErrorIs(t, err, errs.ErrUnsupportedKind)

	id := uuid.New()
	_, _, err = Validate(IDTag(KindAccount, id), "account:"+strings.ToUpper(id.String()), "10")
	assert.ErrorIs(t, err, errs.ErrSameEndpoint)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2023-02-29"))
	assert.False(t, ValidDate("2024-02-29T10:00:00Z"))
}

func scenario() Snapshot {
	return Snapshot{
		Accounts:          []Account{{ID: uuid.New(), Name: "Checking", InitialBalance: dec("1000")}},
		IncomeSources:     []IncomeSource{{ID: uuid.New(), Name: "Salary", ExpectedAmount: dec("2000")}},
		ExpenseCategories: []ExpenseCategory{{ID: uuid.New(), Name: "Rent", BudgetAmount: dec("800")}},
		Transactions: []Transaction{
			{ID: uuid.New(), From: "income-Salary", To: "account-Checking", Amount: dec("1500"), Date: "2024-05-01"},
			{ID: uuid.New(), From: "account-Checking", To: "expense-Rent", Amount: dec("800"), Date: "2024-05-02"},
		},
	}
}

func TestComputeAggregates_Scenario(t *testing.T) {
	agg := scenario().Aggregates()

	require.Len(t, agg.Accounts, 1)
	assertDec(t, "1700", agg.Accounts[0].Current)
	assertDec(t, "1000", agg.Accounts[0].Initial)
	assertDec(t, "1500", agg.Totals.TotalIncomeReceived)
	assertDec(t, "800", agg.Totals.TotalSpentFromAccounts)
	assertDec(t, "700", agg.Totals.NetChange)
	assertDec(t, "1000", agg.Totals.TotalBalance)
	assertDec(t, "2000", agg.Totals.TotalIncomeExpected)
	assertDec(t, "800", agg.Totals.TotalBudgeted)

	require.Len(t, agg.Categories, 1)
	assertDec(t, "800", agg.Categories[0].Budgeted)
	assertDec(t, "800", agg.Categories[0].Spent)
	require.Len(t, agg.IncomeSources, 1)
	assertDec(t, "1500", agg.IncomeSources[0].Received)
}

func TestComputeAggregates_IncomeMinusExpense(t *testing.T) {
	acc := Account{ID: uuid.New(), Name: "Main", InitialBalance: dec("1000")}
	txs := []Transaction{
		{From: "income-Job", To: "account-Main", Amount: dec("500"), Date: "2024-01-01"},
		{From: "account-Main", To: "expense-Food", Amount: dec("200"), Date: "2024-01-02"},
	}
	agg := ComputeAggregates(txs, []Account{acc}, nil, nil)
	assertDec(t, "1300", agg.Accounts[0].Current)
}

func TestComputeAggregates_TransfersAndSignConvention(t *testing.T) {
	a := Account{ID: uuid.New(), Name: "A", InitialBalance: dec("100")}
	b := Account{ID: uuid.New(), Name: "B", InitialBalance: dec("0")}
	txs := []Transaction{
		{From: "account-A", To: "account-B", Amount: dec("30"), Date: "2024-01-01"},
		{From: "account-A", To: "expense-X", Amount: dec("10"), Date: "2024-01-01"},
	}
	agg := ComputeAggregates(txs, []Account{a, b}, nil, nil)
	assertDec(t, "60", agg.Accounts[0].Current)
	assertDec(t, "30", agg.Accounts[1].Current)
	// transfers count positively in the ledger summary
	assertDec(t, "20", agg.Totals.NetChange)
	assertDec(t, "10", agg.Totals.TotalSpentFromAccounts)
}

func TestComputeAggregates_SkipsInvalidAndCountsOrphans(t *testing.T) {
	acc := Account{ID: uuid.New(), Name: "Main", InitialBalance: dec("10")}
	txs := []Transaction{
		{From: "expense-X", To: "account-Main", Amount: dec("999"), Date: "2024-01-01"},
		{From: "account-Main", To: "account-Main", Amount: dec("999"), Date: "2024-01-01"},
		{From: "account-Gone", To: "expense-Ghost", Amount: dec("4"), Date: "2024-01-01"},
	}
	agg := ComputeAggregates(txs, []Account{acc}, nil, nil)
	assertDec(t, "10", agg.Accounts[0].Current)
	assertDec(t, "4", agg.Totals.TotalSpentFromAccounts)
	assertDec(t, "-4", agg.Totals.NetChange)
}

func TestComputeAggregates_IDTagsSurviveRename(t *testing.T) {
	acc := Account{ID: uuid.New(), Name: "Old", InitialBalance: dec("0")}
	txs := []Transaction{{From: "income-Job", To: IDTag(KindAccount, acc.ID), Amount: dec("5"), Date: "2024-01-01"}}
	acc.Name = "New"
	agg := ComputeAggregates(txs, []Account{acc}, nil, nil)
	assertDec(t, "5", agg.Accounts[0].Current)
}

func TestComputeAggregates_DeleteLeavesNoResidue(t *testing.T) {
	s := scenario()
	full := s.Transactions
	_ = s.Aggregates()
	s.Transactions = full[:1]
	after := s.Aggregates()
	before := ComputeAggregates([]Transaction{full[0]}, s.Accounts, s.IncomeSources, s.ExpenseCategories)
	assert.Equal(t, before, after)
}

func TestByDate_StableAndRestartable(t *testing.T) {
	txs := []Transaction{
		{ID: uuid.New(), From: "income-A", To: "account-B", Amount: dec("1"), Date: "2024-01-02"},
		{ID: uuid.New(), From: "account-B", To: "expense-C", Amount: dec("2"), Date: "2024-01-01"},
		{ID: uuid.New(), From: "income-A", To: "account-B", Amount: dec("3"), Date: "2024-01-02"},
	}
	orig := append([]Transaction(nil), txs...)

	collect := func() ([]string, map[string][]Transaction) {
		var dates []string
		groups := map[string][]Transaction{}
		for d, g := range ByDate(txs) {
			dates = append(dates, d)
			groups[d] = g
		}
		return dates, groups
	}
	d1, g1 := collect()
	d2, g2 := collect()

	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, d1)
	assert.Equal(t, d1, d2)
	assert.Equal(t, g1, g2)
	require.Len(t, g1["2024-01-02"], 2)
	assert.Equal(t, txs[0].ID, g1["2024-01-02"][0].ID)
	assert.Equal(t, txs[2].ID, g1["2024-01-02"][1].ID)
	assert.Equal(t, orig, txs)
}

func TestByDate_EarlyStop(t *testing.T) {
	txs := []Transaction{{Date: "2024-01-01"}, {Date: "2024-01-02"}}
	n := 0
	for range ByDate(txs) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestDays_NetChangePerDay(t *testing.T) {
	days := scenario().Days()
	require.Len(t, days, 2)
	assertDec(t, "1500", days[0].NetChange)
	assertDec(t, "-800", days[1].NetChange)
}

func TestSnapshot_DisplayName(t *testing.T) {
	s := scenario()
	acc := s.Accounts[0]
	assert.Equal(t, "Checking", s.DisplayName("account-Checking"))
	assert.Equal(t, "Checking", s.DisplayName(IDTag(KindAccount, acc.ID)))
	assert.Equal(t, "Savings", s.DisplayName("account-Savings"))
	orphan := IDTag(KindExpense, uuid.New())
	assert.Equal(t, orphan, s.DisplayName(orphan))
	assert.Equal(t, "mystery", s.DisplayName("mystery"))
}

func TestSnapshot_CanonicalAndExternal(t *testing.T) {
	s := scenario()
	acc := s.Accounts[0]
	canon := s.Canonical("account-Checking")
	assert.Equal(t, IDTag(KindAccount, acc.ID), canon)
	assert.Equal(t, "account-Checking", s.ExternalTag(canon))
	assert.Equal(t, "account-Nobody", s.Canonical("account-Nobody"))
	for _, spelling := range idSpellings(acc.ID) {
		assert.Equal(t, canon, s.Canonical("account:"+spelling), spelling)
	}
	dangling := uuid.New()
	assert.Equal(t, IDTag(KindExpense, dangling), s.Canonical("expense:"+strings.ToUpper(dangling.String())))
	assert.True(t, s.References(KindAccount, acc.ID, acc.Name))
	assert.False(t, s.References(KindAccount, uuid.New(), "Other"))
}

func TestStatistics_DateRange(t *testing.T) {
	s := scenario()
	s.Transactions = append(s.Transactions, Transaction{From: "income-Salary", To: "account-Checking", Amount: dec("100"), Date: "2024-06-01"})

	st := s.Statistics("2024-05-01", "2024-05-31")
	require.Len(t, st.IncomeBySource, 1)
	assert.Equal(t, "Salary", st.IncomeBySource[0].Name)
	assertDec(t, "1500", st.IncomeBySource[0].Amount)
	require.Len(t, st.ExpenseByCategory, 1)
	assertDec(t, "800", st.TotalExpense)

	all := s.Statistics("", "")
	assertDec(t, "1600", all.TotalIncome)

	// bounds are inclusive on both ends
	day := s.Statistics("2024-05-02", "2024-05-02")
	assert.Empty(t, day.IncomeBySource)
	assertDec(t, "800", day.TotalExpense)
	edges := s.Statistics("2024-05-01", "2024-06-01")
	assertDec(t, "1600", edges.TotalIncome)
}

// Wire shapes belong to the transport packages; entities carry no encoding tags.
func TestEntities_HaveNoEncodingTags(t *testing.T) {
	for _, v := range []any{Account{}, IncomeSource{}, ExpenseCategory{}, Transaction{}} {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			assert.Empty(t, f.Tag, "%s.%s", typ.Name(), f.Name)
		}
	}
}
