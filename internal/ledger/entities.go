package ledger

import (
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/tinoosan/budget/internal/meta"
)

// DateLayout is the calendar-day format used for transaction dates.
const DateLayout = "2006-01-02"

// Account holds money. Its current balance is always derived from transactions.
type Account struct {
	ID   uuid.UUID
	Name string
	// InitialBalance is the starting balance before any transaction.
	InitialBalance decimal.Decimal
}

// IncomeSource is an expected inflow. It does not hold money itself.
type IncomeSource struct {
	ID             uuid.UUID
	Name           string
	ExpectedAmount decimal.Decimal
}

// ExpenseCategory is a budgeted outflow ceiling. It does not hold money itself.
type ExpenseCategory struct {
	ID           uuid.UUID
	Name         string
	BudgetAmount decimal.Decimal
}

// Transaction moves Amount from one endpoint to another on Date.
type Transaction struct {
	ID uuid.UUID
	// From and To are endpoint tags, see ParseEndpoint.
	From   string
	To     string
	Amount decimal.Decimal
	// Date is a calendar day formatted with DateLayout.
	Date string
	// Metadata holds free-form notes attached by the user.
	Metadata meta.Metadata
}
