package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/meta"
)

// amountInput accepts an amount as a JSON number or a JSON string and keeps its
// literal text so no precision is lost before decimal parsing.
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountInput(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("amount must be a number or a string")
		}
		*a = amountInput(n.String())
	}
	return nil
}

// decimalOrZero parses an optional amount; an empty value is zero.
func (a amountInput) decimalOrZero() (decimal.Decimal, error) {
	raw := strings.TrimSpace(string(a))
	if raw == "" {
		return decimal.Decimal{}, nil
	}
	d, err := decimal.Parse(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", errs.ErrInvalidAmount, raw)
	}
	return d, nil
}

// moneyView presents an amount in the book currency.
type moneyView struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	AmountMinor int64  `json:"amount_minor"`
}

func (s *Server) present(d decimal.Decimal) moneyView {
	v := moneyView{Amount: d.String(), Currency: s.currency.Code()}
	amt, err := money.NewAmountFromDecimal(s.currency, d)
	if err != nil {
		return v
	}
	if minor, ok := amt.MinorUnits(); ok {
		v.AmountMinor = minor
	}
	return v
}

// Accounts

type accountRequest struct {
	Name           string      `json:"name"`
	InitialBalance amountInput `json:"initial_balance"`
}

type accountResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Tag            string    `json:"tag"`
	InitialBalance moneyView `json:"initial_balance"`
}

func (s *Server) toAccountResponse(a ledger.Account) accountResponse {
	return accountResponse{ID: a.ID, Name: a.Name, Tag: ledger.IDTag(ledger.KindAccount, a.ID), InitialBalance: s.present(a.InitialBalance)}
}

// Income sources

type incomeSourceRequest struct {
	Name           string      `json:"name"`
	ExpectedAmount amountInput `json:"expected_amount"`
}

type incomeSourceResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Tag            string    `json:"tag"`
	ExpectedAmount moneyView `json:"expected_amount"`
}

func (s *Server) toIncomeSourceResponse(src ledger.IncomeSource) incomeSourceResponse {
	return incomeSourceResponse{ID: src.ID, Name: src.Name, Tag: ledger.IDTag(ledger.KindIncome, src.ID), ExpectedAmount: s.present(src.ExpectedAmount)}
}

// Expense categories

type expenseCategoryRequest struct {
	Name         string      `json:"name"`
	BudgetAmount amountInput `json:"budget_amount"`
}

type expenseCategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Tag          string    `json:"tag"`
	BudgetAmount moneyView `json:"budget_amount"`
}

func (s *Server) toExpenseCategoryResponse(c ledger.ExpenseCategory) expenseCategoryResponse {
	return expenseCategoryResponse{ID: c.ID, Name: c.Name, Tag: ledger.IDTag(ledger.KindExpense, c.ID), BudgetAmount: s.present(c.BudgetAmount)}
}

// Transactions

type transactionRequest struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Amount   amountInput       `json:"amount"`
	Date     string            `json:"date"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// endpointView shows a stored endpoint three ways: the external name tag, the
// canonical stored reference and the display name.
type endpointView struct {
	Tag  string `json:"tag"`
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

type transactionResponse struct {
	ID       uuid.UUID     `json:"id"`
	From     endpointView  `json:"from"`
	To       endpointView  `json:"to"`
	Flow     ledger.Flow   `json:"flow"`
	Amount   moneyView     `json:"amount"`
	Date     string        `json:"date"`
	Metadata meta.Metadata `json:"metadata,omitempty"`
}

func endpointOf(snap ledger.Snapshot, tag string) endpointView {
	return endpointView{Tag: snap.ExternalTag(tag), Ref: tag, Name: snap.DisplayName(tag)}
}

func (s *Server) toTransactionResponse(snap ledger.Snapshot, t ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:       t.ID,
		From:     endpointOf(snap, t.From),
		To:       endpointOf(snap, t.To),
		Flow:     t.Flow(),
		Amount:   s.present(t.Amount),
		Date:     t.Date,
		Metadata: t.Metadata,
	}
}

// Read models

type accountBalanceResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	InitialBalance moneyView `json:"initial_balance"`
	CurrentBalance moneyView `json:"current_balance"`
}

type categorySpendResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Budgeted moneyView `json:"budgeted"`
	Spent    moneyView `json:"spent"`
}

type incomeProgressResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Expected moneyView `json:"expected"`
	Received moneyView `json:"received"`
}

type totalsResponse struct {
	TotalBalance           moneyView `json:"total_balance"`
	TotalSpentFromAccounts moneyView `json:"total_spent_from_accounts"`
	TotalIncomeExpected    moneyView `json:"total_income_expected"`
	TotalIncomeReceived    moneyView `json:"total_income_received"`
	TotalBudgeted          moneyView `json:"total_budgeted"`
	NetChange              moneyView `json:"net_change"`
}

type summaryResponse struct {
	Accounts          []accountBalanceResponse `json:"accounts"`
	ExpenseCategories []categorySpendResponse  `json:"expense_categories"`
	IncomeSources     []incomeProgressResponse `json:"income_sources"`
	Totals            totalsResponse           `json:"totals"`
}

func (s *Server) toSummaryResponse(agg ledger.Aggregates) summaryResponse {
	out := summaryResponse{
		Accounts:          make([]accountBalanceResponse, 0, len(agg.Accounts)),
		ExpenseCategories: make([]categorySpendResponse, 0, len(agg.Categories)),
		IncomeSources:     make([]incomeProgressResponse, 0, len(agg.IncomeSources)),
		Totals: totalsResponse{
			TotalBalance:           s.present(agg.Totals.TotalBalance),
			TotalSpentFromAccounts: s.present(agg.Totals.TotalSpentFromAccounts),
			TotalIncomeExpected:    s.present(agg.Totals.TotalIncomeExpected),
			TotalIncomeReceived:    s.present(agg.Totals.TotalIncomeReceived),
			TotalBudgeted:          s.present(agg.Totals.TotalBudgeted),
			NetChange:              s.present(agg.Totals.NetChange),
		},
	}
	for _, a := range agg.Accounts {
		out.Accounts = append(out.Accounts, accountBalanceResponse{ID: a.AccountID, Name: a.Name, InitialBalance: s.present(a.Initial), CurrentBalance: s.present(a.Current)})
	}
	for _, c := range agg.Categories {
		out.ExpenseCategories = append(out.ExpenseCategories, categorySpendResponse{ID: c.CategoryID, Name: c.Name, Budgeted: s.present(c.Budgeted), Spent: s.present(c.Spent)})
	}
	for _, src := range agg.IncomeSources {
		out.IncomeSources = append(out.IncomeSources, incomeProgressResponse{ID: src.SourceID, Name: src.Name, Expected: s.present(src.Expected), Received: s.present(src.Received)})
	}
	return out
}

type dayResponse struct {
	Date         string                `json:"date"`
	NetChange    moneyView             `json:"net_change"`
	Transactions []transactionResponse `json:"transactions"`
}

type ledgerResponse struct {
	Days      []dayResponse `json:"days"`
	NetChange moneyView     `json:"net_change"`
}

type namedAmountResponse struct {
	Name   string    `json:"name"`
	Amount moneyView `json:"amount"`
}

type statisticsResponse struct {
	From              string                `json:"from,omitempty"`
	To                string                `json:"to,omitempty"`
	IncomeBySource    []namedAmountResponse `json:"income_by_source"`
	ExpenseByCategory []namedAmountResponse `json:"expense_by_category"`
	TotalIncome       moneyView             `json:"total_income"`
	TotalExpense      moneyView             `json:"total_expense"`
}

func (s *Server) toNamedAmounts(in []ledger.NamedAmount) []namedAmountResponse {
	out := make([]namedAmountResponse, 0, len(in))
	for _, na := range in {
		out = append(out, namedAmountResponse{Name: na.Name, Amount: s.present(na.Amount)})
	}
	return out
}

// rangeQuery holds validated query params for GET /v1/statistics.
type rangeQuery struct {
	From string
	To   string
}
