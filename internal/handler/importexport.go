package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/matthewbaird/roster/internal/importer"
	"github.com/matthewbaird/roster/internal/store"
)

// maxUploadBytes caps bulk import uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// BulkImportFile accepts a multipart upload ("file" field, .json or
// .xlsx), parses it, and upserts the rows by name identity.
func (h *Handler) BulkImportFile(w http.ResponseWriter, r *http.Request) {
	upserter, ok := h.Store.(store.Upserter)
	if !ok {
		writeError(w, http.StatusNotImplemented, "bulk import is not supported by this store")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	recs, err := importer.ParseUpload(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := importer.DirectImport(r.Context(), upserter, h.activeSchema(), recs, h.Now())
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	h.Hub.Broadcast(Event{Type: "imported"})
	writeJSON(w, http.StatusOK, report)
}

// ExportExcel streams the record set as a single-sheet workbook. The
// active query filters apply; pagination does not, so the export holds
// every row the filtered view would page through.
func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	q.Page, q.PerPage = 0, 0
	recs, err := h.Store.List(r.Context(), q)
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}

	buf, err := importer.ExportExcel(h.activeSchema(), recs)
	if err != nil {
		h.Log.Error("excel export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not build workbook")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Log.Warn("excel export write aborted", zap.Error(err))
	}
}
