package v1

import (
	"net/http"

	"github.com/tinoosan/budget/internal/ledger"
)

// Income sources

func (s *Server) postIncomeSource(w http.ResponseWriter, r *http.Request) {
	in, ok := r.Context().Value(ctxKeyIncomeSource).(ledger.IncomeSource)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	src, err := s.budget.CreateIncomeSource(r.Context(), in)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusCreated, s.toIncomeSourceResponse(src))
}

func (s *Server) listIncomeSources(w http.ResponseWriter, r *http.Request) {
	list, err := s.budget.ListIncomeSources(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	out := make([]incomeSourceResponse, 0, len(list))
	for _, src := range list {
		out = append(out, s.toIncomeSourceResponse(src))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getIncomeSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	src, err := s.budget.GetIncomeSource(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.toIncomeSourceResponse(src))
}

func (s *Server) putIncomeSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := r.Context().Value(ctxKeyIncomeSource).(ledger.IncomeSource)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	in.ID = id
	src, err := s.budget.ReplaceIncomeSource(r.Context(), in)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.toIncomeSourceResponse(src))
}

func (s *Server) deleteIncomeSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.budget.DeleteIncomeSource(r.Context(), id); err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Expense categories

func (s *Server) postExpenseCategory(w http.ResponseWriter, r *http.Request) {
	in, ok := r.Context().Value(ctxKeyExpenseCategory).(ledger.ExpenseCategory)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	c, err := s.budget.CreateExpenseCategory(r.Context(), in)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusCreated, s.toExpenseCategoryResponse(c))
}

func (s *Server) listExpenseCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.budget.ListExpenseCategories(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	out := make([]expenseCategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, s.toExpenseCategoryResponse(c))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getExpenseCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.budget.GetExpenseCategory(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.toExpenseCategoryResponse(c))
}

func (s *Server) putExpenseCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := r.Context().Value(ctxKeyExpenseCategory).(ledger.ExpenseCategory)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	in.ID = id
	c, err := s.budget.ReplaceExpenseCategory(r.Context(), in)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.toExpenseCategoryResponse(c))
}

func (s *Server) deleteExpenseCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.budget.DeleteExpenseCategory(r.Context(), id); err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
