package ledger

import (
	"iter"
	"slices"

	"github.com/govalues/decimal"
)

// Day is one date group of the ledger.
type Day struct {
	Date         string
	Transactions []Transaction
	NetChange    decimal.Decimal
}

// ByDate yields (date, transactions) pairs in ascending date order. Transactions
// within a date keep their relative order from txs. Each iteration regroups txs
// from scratch and never modifies it.
func ByDate(txs []Transaction) iter.Seq2[string, []Transaction] {
	return func(yield func(string, []Transaction) bool) {
		groups := make(map[string][]Transaction)
		dates := make([]string, 0)
		for _, t := range txs {
			if _, ok := groups[t.Date]; !ok {
				dates = append(dates, t.Date)
			}
			groups[t.Date] = append(groups[t.Date], t)
		}
		slices.Sort(dates)
		for _, d := range dates {
			if !yield(d, groups[d]) {
				return
			}
		}
	}
}

// Days materializes ByDate with a net change per day.
func Days(txs []Transaction) []Day {
	out := make([]Day, 0)
	for date, group := range ByDate(txs) {
		out = append(out, Day{Date: date, Transactions: group, NetChange: NetChange(group)})
	}
	return out
}
