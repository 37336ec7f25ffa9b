package store

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

func sqliteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := NewSQLiteStore(db)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func seedSQLite(t *testing.T, s *SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	seed := []types.Record{
		{schema.FieldFirstName: "Alice", schema.FieldLastName: "Adams", schema.FieldProject: "Apollo",
			schema.FieldStream: "Backend", schema.FieldAllocation: float64(100), schema.FieldCountdown: float64(20)},
		{schema.FieldFirstName: "bob", schema.FieldLastName: "Brown", schema.FieldProject: "Borealis",
			schema.FieldStream: "QA", schema.FieldAllocation: float64(50), schema.FieldCountdown: float64(75)},
		{schema.FieldFirstName: "Cara", schema.FieldLastName: "Chen", schema.FieldProject: "apollo lander",
			schema.FieldStream: "Frontend", schema.FieldAllocation: float64(0)},
	}
	for _, rec := range seed {
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSQLiteStoreFilters(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t)
	seedSQLite(t, s)

	tests := []struct {
		name    string
		filters types.Filters
		want    int
	}{
		{"all", nil, 3},
		{"project substring case-insensitive", types.Filters{FilterProject: "APOLLO"}, 2},
		{"stream exact", types.Filters{FilterStream: "QA"}, 1},
		{"allocation partial", types.Filters{FilterAllocationStatus: AllocationPartial}, 1},
		{"allocation full", types.Filters{FilterAllocationStatus: AllocationFull}, 1},
		{"expiring at-risk", types.Filters{FilterExpiringStatus: ExpiringAtRisk}, 1},
		{"expiring 61-90", types.Filters{FilterExpiringStatus: Expiring61to90}, 1},
		{"expiring unknown bucket matches all", types.Filters{FilterExpiringStatus: "someday"}, 3},
		{"allocation range", types.Filters{FilterAllocationRange: "40-100"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.Count(ctx, tt.filters)
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.want {
				t.Errorf("Count(%v) = %d, want %d", tt.filters, n, tt.want)
			}
		})
	}
}

func TestSQLiteStoreSortAndPage(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t)
	seedSQLite(t, s)

	// COLLATE NOCASE keeps "bob" between Alice and Cara.
	recs, err := s.List(ctx, types.ListQuery{
		Sort: types.Sort{Key: schema.FieldFirstName, Direction: types.SortAsc},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(recs); got[0] != "Alice" || got[1] != "bob" || got[2] != "Cara" {
		t.Errorf("case-insensitive sort = %v", got)
	}

	page, err := s.List(ctx, types.ListQuery{
		Sort:    types.Sort{Key: schema.FieldAllocation, Direction: types.SortDesc},
		Page:    2,
		PerPage: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(page); len(got) != 1 || got[0] != "Cara" {
		t.Errorf("page 2 desc by allocation = %v, want [Cara]", got)
	}
}

func TestSQLiteStoreQuotedFieldNames(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t)

	// Schema-mapped imports take field names from uploaded data, so
	// apostrophes are legal. The sort key also arrives straight from
	// the sortBy query parameter.
	const team = "O'Brien's team"
	seed := []types.Record{
		{schema.FieldFirstName: "Alice", team: "zeta"},
		{schema.FieldFirstName: "Bob", team: "alpha"},
	}
	for _, rec := range seed {
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.List(ctx, types.ListQuery{Sort: types.Sort{Key: team, Direction: types.SortAsc}})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(recs); len(got) != 2 || got[0] != "Bob" || got[1] != "Alice" {
		t.Errorf("sort by quoted field = %v, want [Bob Alice]", got)
	}

	n, err := s.Count(ctx, types.Filters{team: "alpha"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count by quoted field = %d, want 1", n)
	}

	// A sort key shaped to break out of the path literal stays an
	// ordinary absent field name and never reaches the SQL layer as
	// anything else.
	recs, err = s.List(ctx, types.ListQuery{
		Sort: types.Sort{Key: "x'||(SELECT count(*) FROM employees)||'"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("List with quoted sort key returned %d rows, want 2", len(recs))
	}
}

func TestSQLiteStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t)

	created, err := s.Create(ctx, types.Record{
		schema.FieldFirstName:  "Eve",
		schema.FieldTechSkills: []string{"Go", "SQL"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, created.ID())
	if err != nil {
		t.Fatal(err)
	}
	if skills := got.Strings(schema.FieldTechSkills); len(skills) != 2 {
		t.Errorf("array did not round-trip: %v", skills)
	}

	updated, err := s.Update(ctx, created.ID(), types.Record{schema.FieldProject: "Apollo"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.String(schema.FieldFirstName) != "Eve" || updated.String(schema.FieldProject) != "Apollo" {
		t.Errorf("merge update wrong: %v", updated)
	}

	if err := s.Delete(ctx, created.ID()); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, created.ID()); err != ErrNotFound {
		t.Errorf("Delete(absent) = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, created.ID()); err != ErrNotFound {
		t.Errorf("Get(deleted) = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreUpsertAndReplace(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t)
	seedSQLite(t, s)

	created, err := s.UpsertByName(ctx, types.Record{
		schema.FieldFirstName: "Alice", schema.FieldLastName: "Adams",
		schema.FieldProject: "Citadel",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("upsert of existing name reported created")
	}
	if n, _ := s.Count(ctx, nil); n != 3 {
		t.Errorf("count after merge = %d, want 3", n)
	}

	created, err = s.UpsertByName(ctx, types.Record{
		schema.FieldFirstName: "Zoe", schema.FieldLastName: "Zhang",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("upsert of new name reported merge")
	}

	if err := s.ReplaceAll(ctx, []types.Record{{schema.FieldFirstName: "Only"}}); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx, nil); n != 1 {
		t.Errorf("count after ReplaceAll = %d, want 1", n)
	}
}
