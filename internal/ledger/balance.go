package ledger

import (
	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// AccountBalance is the derived state of one account.
type AccountBalance struct {
	AccountID uuid.UUID
	Name      string
	Initial   decimal.Decimal
	Current   decimal.Decimal
}

// CategorySpend compares a category budget with what was spent in it.
type CategorySpend struct {
	CategoryID uuid.UUID
	Name       string
	Budgeted   decimal.Decimal
	Spent      decimal.Decimal
}

// IncomeProgress compares an expected inflow with what was received from it.
type IncomeProgress struct {
	SourceID uuid.UUID
	Name     string
	Expected decimal.Decimal
	Received decimal.Decimal
}

// Totals are the dashboard-level sums.
type Totals struct {
	// TotalBalance sums initial balances, not current ones.
	TotalBalance           decimal.Decimal
	TotalSpentFromAccounts decimal.Decimal
	TotalIncomeExpected    decimal.Decimal
	TotalIncomeReceived    decimal.Decimal
	TotalBudgeted          decimal.Decimal
	// NetChange counts income and transfers as positive and expenses as negative.
	NetChange decimal.Decimal
}

// Aggregates is everything derived from one snapshot.
type Aggregates struct {
	Accounts      []AccountBalance
	Categories    []CategorySpend
	IncomeSources []IncomeProgress
	Totals        Totals
}

// ComputeAggregates folds all transactions into per-entity balances and totals.
// Transactions with an invalid flow contribute nothing.
func ComputeAggregates(txs []Transaction, accounts []Account, incomes []IncomeSource, expenses []ExpenseCategory) Aggregates {
	type parsed struct {
		from, to Endpoint
		flow     Flow
		amount   decimal.Decimal
	}
	ps := make([]parsed, 0, len(txs))
	var totals Totals
	for _, t := range txs {
		p := parsed{from: ParseEndpoint(t.From), to: ParseEndpoint(t.To), flow: t.Flow(), amount: t.Amount}
		if p.flow == FlowInvalid {
			continue
		}
		ps = append(ps, p)
		switch p.flow {
		case FlowIncome:
			totals.TotalIncomeReceived = add(totals.TotalIncomeReceived, p.amount)
		case FlowExpense:
			totals.TotalSpentFromAccounts = add(totals.TotalSpentFromAccounts, p.amount)
		}
	}
	totals.NetChange = NetChange(txs)

	out := Aggregates{
		Accounts:      make([]AccountBalance, 0, len(accounts)),
		Categories:    make([]CategorySpend, 0, len(expenses)),
		IncomeSources: make([]IncomeProgress, 0, len(incomes)),
	}
	for _, a := range accounts {
		cur := a.InitialBalance
		for _, p := range ps {
			if p.to.Refers(KindAccount, a.ID, a.Name) {
				cur = add(cur, p.amount)
			}
			if p.from.Refers(KindAccount, a.ID, a.Name) {
				cur = sub(cur, p.amount)
			}
		}
		totals.TotalBalance = add(totals.TotalBalance, a.InitialBalance)
		out.Accounts = append(out.Accounts, AccountBalance{AccountID: a.ID, Name: a.Name, Initial: a.InitialBalance, Current: cur})
	}
	for _, c := range expenses {
		var spent decimal.Decimal
		for _, p := range ps {
			if p.to.Refers(KindExpense, c.ID, c.Name) {
				spent = add(spent, p.amount)
			}
		}
		totals.TotalBudgeted = add(totals.TotalBudgeted, c.BudgetAmount)
		out.Categories = append(out.Categories, CategorySpend{CategoryID: c.ID, Name: c.Name, Budgeted: c.BudgetAmount, Spent: spent})
	}
	for _, s := range incomes {
		var got decimal.Decimal
		for _, p := range ps {
			if p.flow == FlowIncome && p.from.Refers(KindIncome, s.ID, s.Name) {
				got = add(got, p.amount)
			}
		}
		totals.TotalIncomeExpected = add(totals.TotalIncomeExpected, s.ExpectedAmount)
		out.IncomeSources = append(out.IncomeSources, IncomeProgress{SourceID: s.ID, Name: s.Name, Expected: s.ExpectedAmount, Received: got})
	}
	out.Totals = totals
	return out
}

// NetChange is the ledger-summary change: income and transfers add, expenses subtract.
func NetChange(txs []Transaction) decimal.Decimal {
	var net decimal.Decimal
	for _, t := range txs {
		switch t.Flow() {
		case FlowIncome, FlowTransfer:
			net = add(net, t.Amount)
		case FlowExpense:
			net = sub(net, t.Amount)
		}
	}
	return net
}

// add and sub keep the fold total: an overflowing step is skipped.
func add(a, b decimal.Decimal) decimal.Decimal {
	if r, err := a.Add(b); err == nil {
		return r
	}
	return a
}

func sub(a, b decimal.Decimal) decimal.Decimal {
	if r, err := a.Sub(b); err == nil {
		return r
	}
	return a
}
