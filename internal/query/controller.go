package query

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matthewbaird/roster/internal/store"
	"github.com/matthewbaird/roster/internal/types"
)

// Controller drives a Store from query-state changes. Every mutator
// computes the next state through the State reducer and fetches at most
// once; a monotonic sequence number discards responses superseded by a
// newer query so the last issued query always wins.
type Controller struct {
	mu    sync.Mutex
	store store.Store
	state State
	seq   uint64
	log   *zap.Logger
}

// NewController builds a controller around a record store.
func NewController(st store.Store, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: st, state: NewState(), log: log}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.state
	snap.Filters = c.state.Filters.Clone()
	snap.Records = append([]types.Record(nil), c.state.Records...)
	return snap
}

// Mount initializes the view from a URL query string. A deep link with
// recognized filters is adopted first (the URL-to-state pass); the single
// fetch then runs with the adopted filters, never an unfiltered one.
// adopted tells the caller to rewrite the URL to CanonicalPath.
func (c *Controller) Mount(ctx context.Context, rawQuery string) (adopted bool, err error) {
	params, parseErr := url.ParseQuery(rawQuery)
	if parseErr != nil {
		params = url.Values{}
	}

	c.mu.Lock()
	next, adopted := Reconcile(c.state, params)
	c.state = next
	seq, snapshot := c.begin()
	c.mu.Unlock()

	return adopted, c.fetch(ctx, snapshot, seq)
}

// SetFilter applies one filter change.
func (c *Controller) SetFilter(ctx context.Context, name, value string) error {
	return c.apply(ctx, func(s State) State { return s.WithFilter(name, value) })
}

// SetSort applies a header click on key.
func (c *Controller) SetSort(ctx context.Context, key string) error {
	return c.apply(ctx, func(s State) State { return s.WithSort(key) })
}

// SetPage moves to a page.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	return c.apply(ctx, func(s State) State { return s.WithPage(page) })
}

// SetPerPage changes the page size.
func (c *Controller) SetPerPage(ctx context.Context, perPage int) error {
	return c.apply(ctx, func(s State) State { return s.WithPerPage(perPage) })
}

// Refresh re-runs the current query, used after create/update/delete
// and bulk imports.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	seq, snapshot := c.begin()
	c.mu.Unlock()
	return c.fetch(ctx, snapshot, seq)
}

// apply runs the reducer and fetches only when the effective query
// changed; repeated no-op actions never produce duplicate fetches.
func (c *Controller) apply(ctx context.Context, reduce func(State) State) error {
	c.mu.Lock()
	next := reduce(c.state)
	if sameQuery(c.state, next) && c.state.Phase == Loaded {
		c.mu.Unlock()
		return nil
	}
	c.state = next
	seq, snapshot := c.begin()
	c.mu.Unlock()

	return c.fetch(ctx, snapshot, seq)
}

// begin marks the state Loading and claims the next sequence number.
// Callers hold the lock.
func (c *Controller) begin() (uint64, types.ListQuery) {
	c.seq++
	c.state.Phase = Loading
	c.state.Err = nil
	return c.seq, c.state.Query()
}

// fetch loads rows and total for the snapshot query and commits the
// result unless a newer query has been issued meanwhile.
func (c *Controller) fetch(ctx context.Context, q types.ListQuery, seq uint64) error {
	var (
		recs  []types.Record
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = c.store.List(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = c.store.Count(gctx, q.Filters)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// A newer query superseded this one; its response owns the view.
		c.log.Debug("discarding stale query response",
			zap.Uint64("seq", seq), zap.Uint64("current", c.seq))
		return nil
	}
	if err != nil {
		// Keep the previously loaded rows on screen; the error is
		// surfaced alongside them.
		c.state.Phase = Failed
		c.state.Err = err
		return err
	}
	c.state.Phase = Loaded
	c.state.Records = recs
	c.state.Total = total
	return nil
}
