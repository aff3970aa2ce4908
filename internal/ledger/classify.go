package ledger

// Flow is the economic kind of a transaction.
type Flow string

const (
	// FlowIncome moves money from an income source into an account.
	FlowIncome Flow = "income"
	// FlowExpense moves money from an account to an expense category.
	FlowExpense Flow = "expense"
	// FlowTransfer moves money between two accounts.
	FlowTransfer Flow = "transfer"
	// FlowInvalid is any other pairing.
	FlowInvalid Flow = "invalid"
)

// Classify derives the flow from the two endpoint tags only.
func Classify(from, to string) Flow {
	if SameEndpoint(from, to) {
		return FlowInvalid
	}
	f, t := ParseEndpoint(from).Kind, ParseEndpoint(to).Kind
	switch {
	case f == KindIncome && t == KindAccount:
		return FlowIncome
	case f == KindAccount && t == KindExpense:
		return FlowExpense
	case f == KindAccount && t == KindAccount:
		return FlowTransfer
	default:
		return FlowInvalid
	}
}

// SameEndpoint reports whether two tags name the same endpoint. Id-form tags
// compare by parsed id, so every spelling uuid.Parse accepts is one endpoint.
func SameEndpoint(a, b string) bool {
	return ParseEndpoint(a).String() == ParseEndpoint(b).String()
}

// Flow classifies the transaction.
func (t Transaction) Flow() Flow { return Classify(t.From, t.To) }
