// Package store provides the record store adapter: one uniform
// CRUD+query contract over three backends: SQLite (server side), a
// local persisted list (client side, no remote wired), and the remote
// HTTP API. Filter and sort semantics are identical across backends;
// filter.go is the canonical in-memory definition and the SQL backend
// mirrors it.
package store

import (
	"context"
	"errors"

	"github.com/matthewbaird/roster/internal/types"
)

// ErrNotFound reports an operation against an absent record id.
var ErrNotFound = errors.New("record not found")

// Recognized filter keys. Project is substring match; Stream and
// Contract / Perm are exact matches from closed sets;
// allocationStatus, expiringStatus, and allocationRange are derived
// buckets rather than literal field comparisons.
const (
	FilterProject          = "Project"
	FilterStream           = "Stream"
	FilterContract         = "Contract / Perm"
	FilterAllocationStatus = "allocationStatus"
	FilterExpiringStatus   = "expiringStatus"
	FilterAllocationRange  = "allocationRange"
)

// FilterKeys lists every recognized filter key, in the order the
// shareable URL parameters are documented.
var FilterKeys = []string{
	FilterProject,
	FilterStream,
	FilterAllocationStatus,
	FilterExpiringStatus,
	FilterContract,
	FilterAllocationRange,
}

// allocationStatus buckets.
const (
	AllocationPartial = "partial" // 0% < allocation < 100%
	AllocationFull    = "full"    // allocation >= 100%
)

// expiringStatus buckets over the stored countdown.
const (
	ExpiringAtRisk = "at-risk" // countdown in [0,30], expired included
	Expiring31to60 = "31-60"
	Expiring61to90 = "61-90"
)

// Store is the uniform record contract. List with a zero PerPage
// returns the full filtered set (used by export and the dashboards).
type Store interface {
	List(ctx context.Context, q types.ListQuery) ([]types.Record, error)
	Count(ctx context.Context, filters types.Filters) (int, error)
	Get(ctx context.Context, id string) (types.Record, error)
	Create(ctx context.Context, data types.Record) (types.Record, error)
	Update(ctx context.Context, id string, data types.Record) (types.Record, error)
	Delete(ctx context.Context, id string) error
}

// Upserter merges bulk-imported records by (First name, Last name)
// identity instead of record id. Created reports whether a new record
// was made rather than an existing one updated.
type Upserter interface {
	UpsertByName(ctx context.Context, rec types.Record) (created bool, err error)
}

// Replacer swaps the entire working set, used by the schema-mapped
// import which by definition rebuilds the store.
type Replacer interface {
	ReplaceAll(ctx context.Context, recs []types.Record) error
}
