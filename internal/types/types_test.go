package types

import "testing"

func TestRecordID(t *testing.T) {
	if got := (Record{"_id": "a"}).ID(); got != "a" {
		t.Errorf("ID = %q", got)
	}
	// The client-side list historically used "id".
	if got := (Record{"id": "b"}).ID(); got != "b" {
		t.Errorf("ID = %q", got)
	}
	if got := (Record{"_id": "a", "id": "b"}).ID(); got != "a" {
		t.Errorf("ID prefers _id, got %q", got)
	}
	if got := (Record{}).ID(); got != "" {
		t.Errorf("ID of empty record = %q", got)
	}
}

func TestFiltersEqualIgnoresEmptyValues(t *testing.T) {
	a := Filters{"Stream": "Backend", "Project": ""}
	b := Filters{"Stream": "Backend"}
	if !a.Equal(b) {
		t.Error("empty filter value should count as absent")
	}
	if a.Equal(Filters{"Stream": "QA"}) {
		t.Error("different values reported equal")
	}
}

func TestListQueryOffsetLimit(t *testing.T) {
	q := ListQuery{Page: 3, PerPage: 10}
	if q.Offset() != 20 || q.Limit() != 10 {
		t.Errorf("Offset/Limit = %d/%d", q.Offset(), q.Limit())
	}

	unbounded := ListQuery{}
	if unbounded.Offset() != 0 || unbounded.Limit() != 0 {
		t.Errorf("zero query Offset/Limit = %d/%d", unbounded.Offset(), unbounded.Limit())
	}
}

func TestParseSortDirection(t *testing.T) {
	for in, want := range map[string]SortDirection{
		"":           SortAsc,
		"asc":        SortAsc,
		"ascending":  SortAsc,
		"desc":       SortDesc,
		"descending": SortDesc,
		"DESC":       SortDesc,
	} {
		if got := ParseSortDirection(in); got != want {
			t.Errorf("ParseSortDirection(%q) = %q, want %q", in, got, want)
		}
	}
}
