package ledger

import (
	"strings"
	"time"

	"github.com/govalues/decimal"
	"github.com/tinoosan/budget/internal/errs"
)

// ParseAmount parses a strictly positive decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.Parse(strings.TrimSpace(raw))
	if err != nil || !d.IsPos() {
		return decimal.Decimal{}, errs.ErrInvalidAmount
	}
	return d, nil
}

// Validate checks a proposed transaction. The first violation wins:
// amount, then identical endpoints, then the endpoint kind pairing.
func Validate(from, to, amount string) (decimal.Decimal, Flow, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return decimal.Decimal{}, FlowInvalid, err
	}
	if SameEndpoint(from, to) {
		return decimal.Decimal{}, FlowInvalid, errs.ErrSameEndpoint
	}
	flow := Classify(from, to)
	if flow == FlowInvalid {
		return decimal.Decimal{}, FlowInvalid, errs.ErrUnsupportedKind
	}
	return amt, flow, nil
}

// ValidDate reports whether s is a calendar day in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
