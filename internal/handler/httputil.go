package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/matthewbaird/roster/internal/store"
	"github.com/matthewbaird/roster/internal/types"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes the error contract: a JSON object whose "detail"
// field is a human-readable message, surfaced verbatim to clients.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// storeErrToHTTP maps store errors to HTTP responses.
func storeErrToHTTP(w http.ResponseWriter, err error) {
	var re *store.RemoteError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Employee not found")
	case errors.As(err, &re):
		writeError(w, re.Status, re.Detail)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// maxListLimit caps the per-request page size.
const maxListLimit = 100

// parseListQuery reads pagination, sort, and the recognized filter
// params. skip/limit follow the offset convention; absent limit means
// unbounded. Unrecognized query params are ignored.
func parseListQuery(r *http.Request) types.ListQuery {
	q := r.URL.Query()

	lq := types.ListQuery{
		Sort: types.Sort{
			Key:       q.Get("sortBy"),
			Direction: types.ParseSortDirection(q.Get("sortDirection")),
		},
	}
	skip := 0
	if v := q.Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > maxListLimit {
				n = maxListLimit
			}
			lq.PerPage = n
			lq.Page = skip/n + 1
		}
	}

	filters := types.Filters{}
	for _, key := range store.FilterKeys {
		if v := q.Get(key); v != "" {
			filters[key] = v
		}
	}
	// Legacy lowercase alias for the project filter.
	if v := q.Get("project"); v != "" {
		if _, ok := filters[store.FilterProject]; !ok {
			filters[store.FilterProject] = v
		}
	}
	if len(filters) > 0 {
		lq.Filters = filters
	}
	return lq
}
