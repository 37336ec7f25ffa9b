// Package query owns the records view's query state: filters, sort,
// pagination, and the load lifecycle. It keeps that state consistent
// with shareable URL parameters through one-directional reconciliation
// passes and guarantees exactly one fetch per effective query change.
package query

import (
	"net/url"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/store"
	"github.com/matthewbaird/roster/internal/types"
)

// Phase is the load lifecycle of the records view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// DeepLinkParams are the URL query parameters recognized on the
// records view.
var DeepLinkParams = []string{
	store.FilterProject,
	store.FilterStream,
	store.FilterAllocationStatus,
	store.FilterExpiringStatus,
	store.FilterContract,
}

const (
	// DefaultPerPage matches the records table default page size.
	DefaultPerPage = 10
	// CanonicalPath is the clean records URL after deep-link adoption.
	CanonicalPath = "/records"
)

// State is the full query state of the records view. The zero value is
// not useful; start from NewState.
type State struct {
	Filters types.Filters
	Sort    types.Sort
	Page    int
	PerPage int

	Phase   Phase
	Records []types.Record
	Total   int
	Err     error
}

// NewState returns the boot state: no filters, sorted ascending by
// first name, page 1.
func NewState() State {
	return State{
		Filters: types.Filters{},
		Sort:    types.Sort{Key: schema.FieldFirstName, Direction: types.SortAsc},
		Page:    1,
		PerPage: DefaultPerPage,
		Phase:   Idle,
	}
}

// Query returns the effective list query for the current state.
func (s State) Query() types.ListQuery {
	return types.ListQuery{
		Filters: s.Filters.Clone(),
		Sort:    s.Sort,
		Page:    s.Page,
		PerPage: s.PerPage,
	}
}

// sameQuery reports whether two states select the same rows and page.
func sameQuery(a, b State) bool {
	return a.Filters.Equal(b.Filters) &&
		a.Sort == b.Sort &&
		a.Page == b.Page &&
		a.PerPage == b.PerPage
}

// WithFilter sets one filter value and resets to page 1.
func (s State) WithFilter(name, value string) State {
	next := s
	next.Filters = s.Filters.Clone()
	if value == "" {
		delete(next.Filters, name)
	} else {
		next.Filters[name] = value
	}
	next.Page = 1
	return next
}

// WithSort applies header-click sort semantics: clicking the current
// key toggles direction, a new key always starts ascending. Page
// resets to 1.
func (s State) WithSort(key string) State {
	next := s
	dir := types.SortAsc
	if s.Sort.Key == key && s.Sort.Direction == types.SortAsc {
		dir = types.SortDesc
	}
	next.Sort = types.Sort{Key: key, Direction: dir}
	next.Page = 1
	return next
}

// WithPage moves to a page, floored at 1.
func (s State) WithPage(page int) State {
	next := s
	if page < 1 {
		page = 1
	}
	next.Page = page
	return next
}

// WithPerPage changes the page size and resets to page 1.
func (s State) WithPerPage(perPage int) State {
	next := s
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	next.PerPage = perPage
	next.Page = 1
	return next
}

// Reconcile performs the URL-to-state half of the reconciliation: if the
// URL carries recognized filter keys that differ from the in-memory
// filter state, adopt them and reset to page 1. The caller must then
// rewrite the URL to CanonicalPath and stop; no fetch in the same
// pass. When nothing is adopted the state comes back unchanged and the
// caller proceeds to fetch with in-memory state.
func Reconcile(s State, params url.Values) (State, bool) {
	incoming := types.Filters{}
	for _, key := range DeepLinkParams {
		if v := params.Get(key); v != "" {
			incoming[key] = v
		}
	}
	if len(incoming) == 0 {
		return s, false
	}

	merged := s.Filters.Clone()
	changed := false
	for k, v := range incoming {
		if merged[k] != v {
			merged[k] = v
			changed = true
		}
	}
	if !changed {
		return s, false
	}

	next := s
	next.Filters = merged
	next.Page = 1
	return next, true
}

// ShareURL renders the state's filters as shareable URL parameters,
// the state-to-URL half of the reconciliation.
func ShareURL(s State) url.Values {
	vals := url.Values{}
	for _, key := range DeepLinkParams {
		if v := s.Filters[key]; v != "" {
			vals.Set(key, v)
		}
	}
	return vals
}
