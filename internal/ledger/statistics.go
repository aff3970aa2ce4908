package ledger

import (
	"slices"
	"strings"

	"github.com/govalues/decimal"
)

// NamedAmount is a total attributed to a display name.
type NamedAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Statistics summarizes income and expense flows within a date range.
type Statistics struct {
	From, To          string
	IncomeBySource    []NamedAmount
	ExpenseByCategory []NamedAmount
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
}

// InRange reports whether date lies in [from, to]. Empty bounds are open.
func InRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// Statistics groups income by source and expenses by category for
// transactions dated within [from, to]. Both bounds are inclusive, so
// from == to selects exactly that day and a month range can be written with
// its first and last dates.
func (s Snapshot) Statistics(from, to string) Statistics {
	income := map[string]decimal.Decimal{}
	expense := map[string]decimal.Decimal{}
	st := Statistics{From: from, To: to}
	for _, t := range s.Transactions {
		if !InRange(t.Date, from, to) {
			continue
		}
		switch t.Flow() {
		case FlowIncome:
			name := s.DisplayName(t.From)
			income[name] = add(income[name], t.Amount)
			st.TotalIncome = add(st.TotalIncome, t.Amount)
		case FlowExpense:
			name := s.DisplayName(t.To)
			expense[name] = add(expense[name], t.Amount)
			st.TotalExpense = add(st.TotalExpense, t.Amount)
		}
	}
	st.IncomeBySource = sortedAmounts(income)
	st.ExpenseByCategory = sortedAmounts(expense)
	return st
}

func sortedAmounts(m map[string]decimal.Decimal) []NamedAmount {
	out := make([]NamedAmount, 0, len(m))
	for name, amt := range m {
		out = append(out, NamedAmount{Name: name, Amount: amt})
	}
	slices.SortFunc(out, func(a, b NamedAmount) int { return strings.Compare(a.Name, b.Name) })
	return out
}
