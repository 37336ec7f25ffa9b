package handler

import (
	"net/http"

	"github.com/matthewbaird/roster/internal/schema"
)

// GetSchema returns the active schema, resolving through the loader's
// saved-file / remote / fallback chain.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.activeSchema())
}

// SaveSchema validates and persists a replacement schema, e.g. one
// built by the import field-mapping flow.
func (h *Handler) SaveSchema(w http.ResponseWriter, r *http.Request) {
	var s schema.Schema
	if err := decodeJSON(r, &s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Loader.Save(s); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.Hub.Broadcast(Event{Type: "schema"})
	writeJSON(w, http.StatusOK, s)
}

// ClearSchema removes the saved schema so the loader falls back to the
// remote or built-in default.
func (h *Handler) ClearSchema(w http.ResponseWriter, r *http.Request) {
	if err := h.Loader.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Hub.Broadcast(Event{Type: "schema"})
	writeJSON(w, http.StatusOK, map[string]string{"message": "schema reset"})
}
