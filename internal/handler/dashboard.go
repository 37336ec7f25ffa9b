package handler

import (
	"net/http"

	"github.com/matthewbaird/roster/internal/dashboard"
)

// DashboardSummary serves the aggregated KPI and chart payload.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := dashboard.Summarize(r.Context(), h.Store)
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SkillDistribution serves the per-stream tech skill tallies.
func (h *Handler) SkillDistribution(w http.ResponseWriter, r *http.Request) {
	skills, err := dashboard.SkillDistribution(r.Context(), h.Store)
	if err != nil {
		storeErrToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}
