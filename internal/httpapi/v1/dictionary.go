package v1

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/tinoosan/budget/internal/dictionary"
	"github.com/tinoosan/budget/internal/ledger"
)

// GET /v1/dictionary/{kind}
func (s *Server) getDictionary(w http.ResponseWriter, r *http.Request) {
	kind := ledger.Kind(chi.URLParam(r, "kind"))
	for _, k := range dictionary.Kinds() {
		if k == kind {
			toJSON(w, http.StatusOK, struct {
				Kind  ledger.Kind        `json:"kind"`
				Items []dictionary.Entry `json:"items"`
			}{Kind: k, Items: dictionary.For(k)})
			return
		}
	}
	notFound(w)
}
