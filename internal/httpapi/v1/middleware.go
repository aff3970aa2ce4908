package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/service/transaction"
)

type ctxKey string

const ctxKeyAccount ctxKey = "validatedAccount"
const ctxKeyIncomeSource ctxKey = "validatedIncomeSource"
const ctxKeyExpenseCategory ctxKey = "validatedExpenseCategory"
const ctxKeyTransaction ctxKey = "validatedTransaction"
const ctxKeyRange ctxKey = "validatedRange"

// validateAccount decodes an account body, applies the field rules and stores
// the domain value in the request context for the handler to use.
func (s *Server) validateAccount() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req accountRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			bal, err := req.InitialBalance.decimalOrZero()
			if err != nil {
				s.writeServiceErr(w, r, err)
				return
			}
			a := ledger.Account{Name: strings.TrimSpace(req.Name), InitialBalance: bal}
			if err := s.accounts.ValidateCreate(a); err != nil {
				s.writeServiceErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyAccount, a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) validateIncomeSource() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req incomeSourceRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			amt, err := req.ExpectedAmount.decimalOrZero()
			if err != nil {
				s.writeServiceErr(w, r, err)
				return
			}
			src := ledger.IncomeSource{Name: strings.TrimSpace(req.Name), ExpectedAmount: amt}
			if err := s.budget.ValidateIncomeSource(src); err != nil {
				s.writeServiceErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyIncomeSource, src)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) validateExpenseCategory() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req expenseCategoryRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			amt, err := req.BudgetAmount.decimalOrZero()
			if err != nil {
				s.writeServiceErr(w, r, err)
				return
			}
			c := ledger.ExpenseCategory{Name: strings.TrimSpace(req.Name), BudgetAmount: amt}
			if err := s.budget.ValidateExpenseCategory(c); err != nil {
				s.writeServiceErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyExpenseCategory, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateTransaction runs the full transaction validation before the handler
// so rejections are counted in one place.
func (s *Server) validateTransaction() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req transactionRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			in := transaction.Input{From: req.From, To: req.To, Amount: string(req.Amount), Date: req.Date, Metadata: req.Metadata}
			if _, err := s.transactions.Validate(r.Context(), in); err != nil {
				if code, _, ok := mapValidationError(err); ok {
					transactionsRejected.WithLabelValues(code).Inc()
				}
				s.writeServiceErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyTransaction, in)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateRange parses the optional from/to date bounds for GET /v1/statistics.
func (s *Server) validateRange() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := rangeQuery{From: strings.TrimSpace(r.URL.Query().Get("from")), To: strings.TrimSpace(r.URL.Query().Get("to"))}
			for _, d := range []string{q.From, q.To} {
				if d != "" && !ledger.ValidDate(d) {
					unprocessable(w, "dates must use YYYY-MM-DD", "invalid_date")
					return
				}
			}
			ctx := context.WithValue(r.Context(), ctxKeyRange, q)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
