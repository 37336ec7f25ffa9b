package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/matthewbaird/roster/internal/expiry"
	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

// DirectImport merges raw records whose shape already matches the
// active schema into the store, upserting by (First name,
// Last name) identity. Records missing either required name are
// skipped. Values are normalized through the schema's coercion rules
// before writing; the countdown is recomputed from the end date.
func DirectImport(ctx context.Context, target interface {
	UpsertByName(ctx context.Context, rec types.Record) (bool, error)
}, s schema.Schema, raw []types.Record, today time.Time) (types.ImportReport, error) {
	report := types.ImportReport{}
	for _, r := range raw {
		if r.String(schema.FieldFirstName) == "" || r.String(schema.FieldLastName) == "" {
			continue
		}
		rec := Normalize(s, r, today)
		created, err := target.UpsertByName(ctx, rec)
		if err != nil {
			return report, fmt.Errorf("importing %q %q: %w",
				r.String(schema.FieldFirstName), r.String(schema.FieldLastName), err)
		}
		if created {
			report.CreatedCount++
		} else {
			report.UpdatedCount++
		}
	}
	report.Message = fmt.Sprintf("Successfully processed %d records.", len(raw))
	return report, nil
}

// Normalize coerces a raw record field-by-field against the schema,
// defaulting absent numbers to 0, nulling empty end dates, and
// recomputing the stored countdown.
func Normalize(s schema.Schema, raw types.Record, today time.Time) types.Record {
	rec := types.Record{}
	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if !ok {
			rec[f.Name] = f.Zero()
			continue
		}
		rec[f.Name] = schema.Coerce(f, v, nil)
	}

	// End dates: empty means explicitly null, not empty string.
	if v, ok := rec[schema.FieldEndDate]; ok {
		if v == "" || v == nil {
			rec[schema.FieldEndDate] = nil
		}
	}

	if _, ok := s.FieldByName(schema.FieldCountdown); ok {
		if clamped, _ := expiry.Countdown(rec[schema.FieldEndDate], today); clamped != nil {
			rec[schema.FieldCountdown] = float64(*clamped)
		} else if rec[schema.FieldCountdown] == nil {
			rec[schema.FieldCountdown] = float64(0)
		}
	}

	// Preserve the identity if the upload carried one.
	if id := raw.ID(); id != "" {
		rec[types.IDField] = id
	}
	return rec
}
