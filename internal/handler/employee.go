package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/matthewbaird/roster/internal/auth"
	"github.com/matthewbaird/roster/internal/expiry"
	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/store"
	"github.com/matthewbaird/roster/internal/types"
)

// Handler serves the employee, schema, dashboard, and auth endpoints.
type Handler struct {
	Store  store.Store
	Loader *schema.Loader
	Auth   *auth.Manager
	Hub    *Hub
	Log    *zap.Logger
	Now    func() time.Time
}

// New wires a Handler with a real clock.
func New(st store.Store, loader *schema.Loader, am *auth.Manager, hub *Hub, log *zap.Logger) *Handler {
	return &Handler{
		Store:  st,
		Loader: loader,
		Auth:   am,
		Hub:    hub,
		Log:    log,
		Now:    time.Now,
	}
}

func (h *Handler) activeSchema() schema.Schema {
	return h.Loader.Load()
}

// ListEmployees returns the filtered, sorted, paginated record page as
// a bare JSON array.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Store.List(r.Context(), parseListQuery(r))
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	if recs == nil {
		recs = []types.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// CountEmployees returns the total row count for the same filters the
// list endpoint accepts.
func (h *Handler) CountEmployees(w http.ResponseWriter, r *http.Request) {
	total, err := h.Store.Count(r.Context(), parseListQuery(r).Filters)
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total": total})
}

// GetEmployee returns a single record by id.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateEmployee inserts a new record. The countdown is recomputed
// server-side from the end date regardless of what the client sent.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var rec types.Record
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.refreshCountdown(rec)
	created, err := h.Store.Create(r.Context(), rec)
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	h.Hub.Broadcast(Event{Type: "created", ID: created.ID()})
	writeJSON(w, http.StatusCreated, created)
}

// UpdateEmployee merges the request body into the record. Fields absent
// from the body keep their stored values; the identifier is immutable.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var patch types.Record
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, touched := patch[schema.FieldEndDate]; touched {
		h.refreshCountdown(patch)
	}
	updated, err := h.Store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	h.Hub.Broadcast(Event{Type: "updated", ID: updated.ID()})
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEmployee removes a record; a missing id is a 404.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.Delete(r.Context(), id); err != nil {
		storeErrToHTTP(w, err)
		return
	}
	h.Hub.Broadcast(Event{Type: "deleted", ID: id})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee deleted successfully"})
}

// refreshCountdown recomputes the stored countdown when the active
// schema carries both the end date and countdown fields.
func (h *Handler) refreshCountdown(rec types.Record) {
	s := h.activeSchema()
	if _, ok := s.FieldByName(schema.FieldCountdown); !ok {
		return
	}
	if _, ok := s.FieldByName(schema.FieldEndDate); !ok {
		return
	}
	clamped, _ := expiry.Countdown(rec[schema.FieldEndDate], h.Now())
	if clamped == nil {
		rec[schema.FieldCountdown] = float64(0)
		return
	}
	rec[schema.FieldCountdown] = float64(*clamped)
}
