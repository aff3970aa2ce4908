package v1

import (
	"net/http"

	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/service/transaction"
)

// snapshotFor loads the entities needed to present transactions. A failed
// load is written as an error and reported with ok=false.
func (s *Server) snapshotFor(w http.ResponseWriter, r *http.Request) (ledger.Snapshot, bool) {
	snap, err := s.reports.Snapshot(r.Context())
	if err != nil {
		s.writeServiceErr(w, r, err)
		return ledger.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := r.Context().Value(ctxKeyTransaction).(transaction.Input)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	t, err := s.transactions.Create(r.Context(), in)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	toJSON(w, http.StatusCreated, s.toTransactionResponse(snap, t))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	out := make([]transactionResponse, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		out = append(out, s.toTransactionResponse(snap, t))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.transactions.Get(r.Context(), id)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	toJSON(w, http.StatusOK, s.toTransactionResponse(snap, t))
}

func (s *Server) putTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := r.Context().Value(ctxKeyTransaction).(transaction.Input)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	t, err := s.transactions.Replace(r.Context(), id, in)
	if err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	toJSON(w, http.StatusOK, s.toTransactionResponse(snap, t))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
