// Package dictionary lists starter names offered when a user sets up a new book.
package dictionary

import "github.com/tinoosan/budget/internal/ledger"

type Entry struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

var curated = map[ledger.Kind][]Entry{
	ledger.KindAccount: {
		{Name: "Cash", Label: "Cash"},
		{Name: "Checking", Label: "Checking account"},
		{Name: "Savings", Label: "Savings account"},
		{Name: "Card", Label: "Debit card"},
		{Name: "Deposit", Label: "Term deposit"},
	},
	ledger.KindIncome: {
		{Name: "Salary", Label: "Salary"},
		{Name: "Freelance", Label: "Freelance work"},
		{Name: "Interest", Label: "Interest"},
		{Name: "Gifts", Label: "Gifts received"},
		{Name: "Other", Label: "Other income"},
	},
	ledger.KindExpense: {
		{Name: "Groceries", Label: "Groceries"},
		{Name: "Rent", Label: "Rent"},
		{Name: "Utilities", Label: "Utilities"},
		{Name: "Transport", Label: "Transport"},
		{Name: "Eating Out", Label: "Eating out"},
		{Name: "Health", Label: "Health"},
		{Name: "Entertainment", Label: "Entertainment"},
		{Name: "General", Label: "General"},
	},
}

// For returns a copy of the starter entries for kind k; unknown kinds get none.
func For(k ledger.Kind) []Entry {
	list := curated[k]
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Kinds lists the kinds that have starter entries.
func Kinds() []ledger.Kind {
	return []ledger.Kind{ledger.KindAccount, ledger.KindIncome, ledger.KindExpense}
}
