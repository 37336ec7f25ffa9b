package importer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

// FieldMapping is the user's decision for one discovered source field:
// whether to include it, what to call it, and how to type it.
type FieldMapping struct {
	Source   string           `json:"source"`
	Target   string           `json:"target"`
	Type     schema.FieldType `json:"type"`
	Included bool             `json:"included"`
}

// ErrNoFieldsIncluded reports a mapping with every field excluded; at
// least one must be included before it can be confirmed.
var ErrNoFieldsIncluded = errors.New("at least one field must be included")

// DuplicateTargetError reports two included source fields collapsing
// into the same destination field.
type DuplicateTargetError struct {
	Target string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("duplicate target field %q in mapping", e.Target)
}

// DiscoverFields unions the keys across all uploaded records, in order
// of first appearance.
func DiscoverFields(recs []types.Record) []string {
	var fields []string
	seen := map[string]struct{}{}
	for _, rec := range recs {
		// Within one record, favor a stable order over map order.
		for _, k := range sortedKeys(rec) {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				fields = append(fields, k)
			}
		}
	}
	return fields
}

func sortedKeys(rec types.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SuggestType auto-detects a field type by sampling one value:
// slices map to array, numerics to number, bools to boolean, and
// everything else stays text.
func SuggestType(sample any) schema.FieldType {
	switch sample.(type) {
	case []any, []string:
		return schema.FieldArray
	case float64, int, int64:
		return schema.FieldNumber
	case bool:
		return schema.FieldBoolean
	default:
		return schema.FieldText
	}
}

// NewMappings builds the default mapping for an upload: every
// discovered field included, mapped to its own name, typed by sampling
// the first record carrying it.
func NewMappings(recs []types.Record) []FieldMapping {
	fields := DiscoverFields(recs)
	mappings := make([]FieldMapping, 0, len(fields))
	for _, f := range fields {
		var sample any
		for _, rec := range recs {
			if v, ok := rec[f]; ok {
				sample = v
				break
			}
		}
		mappings = append(mappings, FieldMapping{
			Source:   f,
			Target:   f,
			Type:     SuggestType(sample),
			Included: true,
		})
	}
	return mappings
}

// BuildSchema constructs the new schema from confirmed mappings. The
// field label carries the original (source) field name so that record
// transformation can look values up by it.
func BuildSchema(title string, mappings []FieldMapping) (schema.Schema, error) {
	if title == "" {
		title = "Imported Schema"
	}
	s := schema.Schema{Title: title}
	targets := map[string]struct{}{}
	for _, m := range mappings {
		if !m.Included {
			continue
		}
		target := m.Target
		if target == "" {
			target = m.Source
		}
		if _, dup := targets[target]; dup {
			return schema.Schema{}, &DuplicateTargetError{Target: target}
		}
		targets[target] = struct{}{}
		ft := m.Type
		if !ft.Valid() {
			ft = schema.FieldText
		}
		s.Fields = append(s.Fields, schema.FieldSpec{
			Name:  target,
			Label: m.Source,
			Type:  ft,
		})
	}
	if len(s.Fields) == 0 {
		return schema.Schema{}, ErrNoFieldsIncluded
	}
	return s, nil
}

// Transform converts raw uploaded records into the new schema's shape,
// coercing each value to its mapped type and assigning fresh
// identifiers. The transformed set replaces the store.
func Transform(recs []types.Record, s schema.Schema) []types.Record {
	out := make([]types.Record, 0, len(recs))
	for _, raw := range recs {
		rec := types.Record{types.IDField: uuid.NewString()}
		for _, f := range s.Fields {
			// The label holds the original field name.
			rec[f.Name] = schema.Coerce(f, raw[f.Label], nil)
		}
		out = append(out, rec)
	}
	return out
}
