package ledger

import "github.com/google/uuid"

// Snapshot is the full set of collections at one point in time. All read-side
// queries take a Snapshot instead of consulting shared state.
type Snapshot struct {
	Accounts          []Account
	IncomeSources     []IncomeSource
	ExpenseCategories []ExpenseCategory
	Transactions      []Transaction
}

// Lookup resolves an endpoint tag against the snapshot. ok is false when the tag
// has an unknown kind or references no live entity.
func (s Snapshot) Lookup(tag string) (e Endpoint, id uuid.UUID, name string, ok bool) {
	e = ParseEndpoint(tag)
	switch e.Kind {
	case KindAccount:
		for _, a := range s.Accounts {
			if e.Refers(KindAccount, a.ID, a.Name) {
				return e, a.ID, a.Name, true
			}
		}
	case KindIncome:
		for _, src := range s.IncomeSources {
			if e.Refers(KindIncome, src.ID, src.Name) {
				return e, src.ID, src.Name, true
			}
		}
	case KindExpense:
		for _, c := range s.ExpenseCategories {
			if e.Refers(KindExpense, c.ID, c.Name) {
				return e, c.ID, c.Name, true
			}
		}
	}
	return e, uuid.Nil, "", false
}

// DisplayName returns the entity name for tag. Dangling name tags fall back to
// the bare name; dangling id tags and unknown kinds fall back to the raw tag.
func (s Snapshot) DisplayName(tag string) string {
	e, _, name, ok := s.Lookup(tag)
	switch {
	case ok:
		return name
	case e.Kind != KindUnknown && !e.ByID():
		return e.Name
	default:
		return tag
	}
}

// ExternalTag renders tag in the "<kind>-<name>" form when the entity resolves.
func (s Snapshot) ExternalTag(tag string) string {
	e, _, name, ok := s.Lookup(tag)
	if !ok {
		return tag
	}
	return NameTag(e.Kind, name)
}

// Canonical rewrites a name-form tag to the id form when the name resolves.
// Id-form tags are re-rendered in the lowercase dashed spelling whether or not
// they resolve. Other tags are returned unchanged.
func (s Snapshot) Canonical(tag string) string {
	e, id, _, ok := s.Lookup(tag)
	switch {
	case e.ByID():
		return e.String()
	case ok:
		return IDTag(e.Kind, id)
	default:
		return tag
	}
}

// References reports whether any transaction points at the entity.
func (s Snapshot) References(k Kind, id uuid.UUID, name string) bool {
	for _, t := range s.Transactions {
		if ParseEndpoint(t.From).Refers(k, id, name) || ParseEndpoint(t.To).Refers(k, id, name) {
			return true
		}
	}
	return false
}

// Aggregates computes balances and totals for the snapshot.
func (s Snapshot) Aggregates() Aggregates {
	return ComputeAggregates(s.Transactions, s.Accounts, s.IncomeSources, s.ExpenseCategories)
}

// Days groups the snapshot's transactions by date.
func (s Snapshot) Days() []Day { return Days(s.Transactions) }
