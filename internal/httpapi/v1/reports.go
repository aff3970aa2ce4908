package v1

import (
	"net/http"
	"strings"

	"github.com/tinoosan/budget/internal/ledger"
)

// GET /v1/classify?from=&to=
func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flow, err := s.transactions.Classify(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, map[string]string{"flow": string(flow)})
}

// GET /v1/display-name?tag=
func (s *Server) displayName(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	if tag == "" {
		badRequest(w, "tag is required")
		return
	}
	name, err := s.reports.DisplayName(r.Context(), tag)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	agg, err := s.reports.Summary(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, s.toSummaryResponse(agg))
}

// ledgerView groups every transaction by date. Days and the transactions
// within them come from one snapshot.
func (s *Server) ledgerView(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	days := snap.Days()
	out := ledgerResponse{Days: make([]dayResponse, 0, len(days))}
	for _, d := range days {
		dr := dayResponse{Date: d.Date, NetChange: s.present(d.NetChange), Transactions: make([]transactionResponse, 0, len(d.Transactions))}
		for _, t := range d.Transactions {
			dr.Transactions = append(dr.Transactions, s.toTransactionResponse(snap, t))
		}
		out.Days = append(out.Days, dr)
	}
	out.NetChange = s.present(ledger.NetChange(snap.Transactions))
	toJSON(w, http.StatusOK, out)
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	q, ok := r.Context().Value(ctxKeyRange).(rangeQuery)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated query missing"})
		return
	}
	st, err := s.reports.Statistics(r.Context(), q.From, q.To)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, statisticsResponse{
		From:              st.From,
		To:                st.To,
		IncomeBySource:    s.toNamedAmounts(st.IncomeBySource),
		ExpenseByCategory: s.toNamedAmounts(st.ExpenseByCategory),
		TotalIncome:       s.present(st.TotalIncome),
		TotalExpense:      s.present(st.TotalExpense),
	})
}
