package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront.git/internal/store"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to response codes: structural and stock
// problems are the client's fault, missing references are 404.
func writeError(w http.ResponseWriter, err error) {
	var stockErr *store.StockError
	var dupErr *store.DuplicateProductError
	var valErr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"details": stockErr.Error()})
	case errors.As(err, &dupErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"details": dupErr.Error()})
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": valErr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
