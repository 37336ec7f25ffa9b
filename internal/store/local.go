package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

// LocalStore keeps the record list in memory, persisted as a single
// JSON document under one fixed path, fully replaced on each write.
// It backs the client-side mode where no remote API is wired, and
// doubles as the test store.
type LocalStore struct {
	mu   sync.RWMutex
	path string // empty means memory-only
	recs []types.Record
}

// NewLocalStore creates a store persisted at path. An empty path keeps
// everything in memory.
func NewLocalStore(path string) (*LocalStore, error) {
	s := &LocalStore{path: path}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading local records: %w", err)
	}
	if err := json.Unmarshal(raw, &s.recs); err != nil {
		return nil, fmt.Errorf("decoding local records: %w", err)
	}
	return s, nil
}

// flush persists the full list. Callers hold the write lock.
func (s *LocalStore) flush() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.recs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func (s *LocalStore) List(_ context.Context, q types.ListQuery) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []types.Record
	for _, r := range s.recs {
		if Matches(r, q.Filters) {
			matched = append(matched, r.Clone())
		}
	}
	SortRecords(matched, q.Sort)
	return Page(matched, q), nil
}

func (s *LocalStore) Count(_ context.Context, filters types.Filters) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.recs {
		if Matches(r, filters) {
			n++
		}
	}
	return n, nil
}

func (s *LocalStore) Get(_ context.Context, id string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.recs {
		if r.ID() == id {
			return r.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *LocalStore) Create(_ context.Context, data types.Record) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := data.Clone()
	rec[types.IDField] = uuid.NewString()
	s.recs = append(s.recs, rec)
	if err := s.flush(); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

func (s *LocalStore) Update(_ context.Context, id string, data types.Record) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recs {
		if r.ID() != id {
			continue
		}
		merged := r.Clone()
		for k, v := range data {
			merged[k] = v
		}
		merged[types.IDField] = id // identifier is immutable
		s.recs[i] = merged
		if err := s.flush(); err != nil {
			return nil, err
		}
		return merged.Clone(), nil
	}
	return nil, ErrNotFound
}

// Delete removes the record. Deleting an absent id is a no-op success
// at this layer.
func (s *LocalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.recs[:0]
	for _, r := range s.recs {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	s.recs = kept
	return s.flush()
}

// UpsertByName merges rec into an existing record with the same first
// and last name, or appends it with a fresh id.
func (s *LocalStore) UpsertByName(_ context.Context, rec types.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := rec.String(schema.FieldFirstName)
	last := rec.String(schema.FieldLastName)
	for i, r := range s.recs {
		if r.String(schema.FieldFirstName) == first && r.String(schema.FieldLastName) == last {
			merged := r.Clone()
			for k, v := range rec {
				merged[k] = v
			}
			merged[types.IDField] = r.ID()
			s.recs[i] = merged
			return false, s.flush()
		}
	}
	created := rec.Clone()
	if created.ID() == "" {
		created[types.IDField] = uuid.NewString()
	}
	s.recs = append(s.recs, created)
	return true, s.flush()
}

// ReplaceAll swaps the entire working set.
func (s *LocalStore) ReplaceAll(_ context.Context, recs []types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs = make([]types.Record, 0, len(recs))
	for _, r := range recs {
		rec := r.Clone()
		if rec.ID() == "" {
			rec[types.IDField] = uuid.NewString()
		}
		s.recs = append(s.recs, rec)
	}
	return s.flush()
}
