// Package form drives the record create/edit dialog: it builds empty
// records from the schema, loads existing records into an editable
// shape, applies type-aware field updates (including the countdown
// recompute), and normalizes the result on submit.
package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/matthewbaird/roster/internal/expiry"
	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

// ValidationError reports required fields left empty. It blocks
// submission client-side; nothing is sent to the server.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, ", ") + " required"
}

// Form holds the in-progress edit state for one record. Array fields
// are edited as comma-joined strings and split back on submit; the
// countdown field is read-only and derived from the end date.
type Form struct {
	schema schema.Schema
	values types.Record
	id     string
	now    func() time.Time
}

// NewEmpty builds a create form: every numeric field starts at 0,
// everything else at "".
func NewEmpty(s schema.Schema) *Form {
	values := types.Record{}
	for _, f := range s.Fields {
		if f.Type == schema.FieldNumber {
			values[f.Name] = float64(0)
		} else {
			values[f.Name] = ""
		}
	}
	return &Form{schema: s, values: values, now: time.Now}
}

// NewFromRecord builds an edit form from an existing record. Array
// values are joined with ", " for single-line editing; date values are
// normalized to the fixed calendar-date representation so the same
// date round-trips in every timezone.
func NewFromRecord(s schema.Schema, rec types.Record) *Form {
	form := NewEmpty(s)
	form.id = rec.ID()
	for _, f := range s.Fields {
		v, ok := rec[f.Name]
		if !ok || v == nil {
			continue
		}
		switch f.Type {
		case schema.FieldArray:
			form.values[f.Name] = joinEditable(v)
		case schema.FieldDate:
			if t, ok := expiry.ParseDate(v); ok {
				form.values[f.Name] = t.Format(expiry.DateLayout)
			} else {
				form.values[f.Name] = ""
			}
		default:
			form.values[f.Name] = v
		}
	}
	return form
}

// joinEditable renders an array value as the comma-joined string used
// while editing, whatever shape it arrives in.
func joinEditable(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Value returns the current edit value for a field.
func (f *Form) Value(name string) any {
	return f.values[name]
}

// Values returns a copy of the full edit state.
func (f *Form) Values() types.Record {
	return f.values.Clone()
}

// ID returns the record identifier, empty for a create form.
func (f *Form) ID() string {
	return f.id
}

// SetNow overrides the clock used for the countdown recompute; tests
// pin it to a fixed date.
func (f *Form) SetNow(now func() time.Time) {
	f.now = now
}

// SetField applies a raw input value to one field through the schema's
// coercion rules. Changing the end date immediately recomputes the
// countdown; the countdown field itself is read-only and writes to it
// are ignored. Invalid numeric input retains the previous valid value.
func (f *Form) SetField(name string, raw any) {
	if name == schema.FieldCountdown {
		return
	}
	spec, ok := f.schema.FieldByName(name)
	if !ok {
		return
	}

	if spec.Type == schema.FieldArray {
		// Arrays stay comma-joined strings while editing.
		f.values[name] = joinEditable(raw)
	} else {
		f.values[name] = schema.Coerce(spec, raw, f.values[name])
	}

	if name == schema.FieldEndDate {
		f.recomputeCountdown()
	}
}

func (f *Form) recomputeCountdown() {
	if _, ok := f.schema.FieldByName(schema.FieldCountdown); !ok {
		return
	}
	clamped, _ := expiry.Countdown(f.values[schema.FieldEndDate], f.now())
	if clamped == nil {
		f.values[schema.FieldCountdown] = float64(0)
		return
	}
	f.values[schema.FieldCountdown] = float64(*clamped)
}

// Submit validates and normalizes the edit state into the payload sent
// to the store: array fields become trimmed, empty-filtered slices;
// empty numbers become 0; an empty end date becomes an explicit null.
func (f *Form) Submit() (types.Record, error) {
	var missing []string
	for _, name := range schema.RequiredFields {
		if _, ok := f.schema.FieldByName(name); !ok {
			continue
		}
		if s, _ := f.values[name].(string); strings.TrimSpace(s) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	payload := types.Record{}
	for _, spec := range f.schema.Fields {
		v := f.values[spec.Name]
		switch spec.Type {
		case schema.FieldArray:
			if s, ok := v.(string); ok {
				payload[spec.Name] = schema.SplitList(s)
			} else {
				payload[spec.Name] = schema.Coerce(spec, v, nil)
			}
		case schema.FieldNumber:
			if v == nil || v == "" {
				payload[spec.Name] = float64(0)
			} else {
				payload[spec.Name] = schema.Coerce(spec, v, float64(0))
			}
		case schema.FieldDate:
			if s, _ := v.(string); s == "" {
				payload[spec.Name] = nil
			} else {
				payload[spec.Name] = v
			}
		default:
			payload[spec.Name] = v
		}
	}
	if f.id != "" {
		payload[types.IDField] = f.id
	}
	return payload, nil
}
