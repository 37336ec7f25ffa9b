// Package types provides the shared domain types for the roster service:
// records, list queries, and the payload shapes exchanged over the
// employee and dashboard APIs.
package types

import "strings"

// Record is a single employee/resource row. Its keys are a subset of the
// active schema's field names plus the system identifier. Values are
// already coerced to the type declared for their field.
type Record map[string]any

// IDField is the system identifier key used by the remote contract.
// The client-side local list historically used "id"; both are accepted.
const IDField = "_id"

// ID returns the record's identifier, checking "_id" then "id".
func (r Record) ID() string {
	for _, key := range []string{IDField, "id"} {
		if v, ok := r[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the field's value as a string, or "" when absent or
// not string-typed.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Number returns the field's value as a float64 where possible.
func (r Record) Number(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Strings returns the field's value as a string slice. A JSON-decoded
// array arrives as []any; both representations are handled.
func (r Record) Strings(field string) []string {
	switch v := r[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// SortDirection is the order of a single-key sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts both the canonical "asc"/"desc" spellings
// and the legacy "ascending"/"descending" wire values.
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return SortAsc
	default:
		return SortDesc
	}
}

// Sort is a single-key sort specification.
type Sort struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Filters maps filter names to their raw string values. Empty values
// mean "no filter" and are skipped by every backend.
type Filters map[string]string

// Clone returns a copy with empty values dropped.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Equal reports whether two filter sets select the same rows, treating
// empty values as absent.
func (f Filters) Equal(other Filters) bool {
	a, b := f.Clone(), other.Clone()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// ListQuery is the uniform read query accepted by every record store
// backend: filters, a single-key sort, and 1-based pagination.
type ListQuery struct {
	Filters Filters
	Sort    Sort
	Page    int
	PerPage int
}

// Offset returns the number of rows to skip for the current page.
func (q ListQuery) Offset() int {
	if q.Page < 1 || q.PerPage <= 0 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// Limit returns the page size, or 0 meaning "no limit".
func (q ListQuery) Limit() int {
	if q.PerPage <= 0 {
		return 0
	}
	return q.PerPage
}

// ImportReport summarizes a bulk import: how many records were newly
// created vs. merged into existing ones.
type ImportReport struct {
	Message      string `json:"message"`
	CreatedCount int    `json:"created_count"`
	UpdatedCount int    `json:"updated_count"`
}

// NameValue is a generic chart datapoint.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StreamCounts is one row of the per-project stream pivot. Streams form
// a closed set, so absent streams are rendered as explicit zeroes.
type StreamCounts struct {
	Project  string `json:"project"`
	Backend  int    `json:"Backend"`
	Frontend int    `json:"Frontend"`
	QA       int    `json:"QA"`
}

// AtRiskEmployee is a dashboard row for a contract expiring soon.
type AtRiskEmployee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DaysLeft int    `json:"daysLeft"`
	Project  string `json:"project"`
}

// KPIs are the headline dashboard numbers.
type KPIs struct {
	TotalHeadcount     int `json:"totalHeadcount"`
	AtRiskContracts    int `json:"atRiskContracts"`
	PartiallyAllocated int `json:"partiallyAllocated"`
	ActiveProjects     int `json:"activeProjects"`
}

// Charts groups the aggregated chart series.
type Charts struct {
	HeadcountByStream          []NameValue    `json:"headcountByStream"`
	HeadcountPerProject        []NameValue    `json:"headcountPerProject"`
	ExpiringContractsBreakdown []NameValue    `json:"expiringContractsBreakdown"`
	ProjectStreamDistribution  []StreamCounts `json:"projectStreamDistribution"`
}

// DashboardSummary is the /dashboard-summary response body.
type DashboardSummary struct {
	KPIs            KPIs             `json:"kpis"`
	Charts          Charts           `json:"charts"`
	AtRiskEmployees []AtRiskEmployee `json:"atRiskEmployees"`
}

// SkillCount is one skill tally within a stream.
type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StreamSkills is the per-stream slice of the /skill-distribution response.
type StreamSkills struct {
	Stream string       `json:"stream"`
	Skills []SkillCount `json:"skills"`
}
