package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func TestNewEmptyDefaults(t *testing.T) {
	f := NewEmpty(schema.Default())

	assert.Equal(t, float64(0), f.Value(schema.FieldAllocation))
	assert.Equal(t, float64(0), f.Value(schema.FieldCountdown))
	assert.Equal(t, "", f.Value(schema.FieldFirstName))
	assert.Equal(t, "", f.Value(schema.FieldTechSkills))
	assert.Empty(t, f.ID())
}

func TestEditRoundTrip(t *testing.T) {
	s := schema.Default()
	original := types.Record{
		types.IDField:          "abc",
		schema.FieldFirstName:  "Alice",
		schema.FieldLastName:   "Adams",
		schema.FieldAllocation: float64(80),
		schema.FieldTechSkills: []string{"Go", "React"},
		schema.FieldEndDate:    "2025-09-01",
		schema.FieldCountdown:  float64(92),
	}

	f := NewFromRecord(s, original)
	assert.Equal(t, "abc", f.ID())
	// Arrays are edited as a single comma-joined line.
	assert.Equal(t, "Go, React", f.Value(schema.FieldTechSkills))

	// Submitting without edits reproduces the typed values.
	payload, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Alice", payload[schema.FieldFirstName])
	assert.Equal(t, float64(80), payload[schema.FieldAllocation])
	assert.Equal(t, []string{"Go", "React"}, payload[schema.FieldTechSkills])
	assert.Equal(t, "2025-09-01", payload[schema.FieldEndDate])
	assert.Equal(t, "abc", payload[types.IDField])
}

func TestRequiredFieldValidation(t *testing.T) {
	f := NewEmpty(schema.Default())
	f.SetField(schema.FieldFirstName, "Alice")

	_, err := f.Submit()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{schema.FieldLastName}, ve.Fields)

	f.SetField(schema.FieldLastName, "Adams")
	_, err = f.Submit()
	assert.NoError(t, err)
}

func TestEndDateRecomputesCountdown(t *testing.T) {
	f := NewEmpty(schema.Default())
	f.SetNow(fixedNow)

	f.SetField(schema.FieldEndDate, "2025-06-21")
	assert.Equal(t, float64(20), f.Value(schema.FieldCountdown))

	// Past dates clamp at zero.
	f.SetField(schema.FieldEndDate, "2025-05-01")
	assert.Equal(t, float64(0), f.Value(schema.FieldCountdown))

	// Clearing the date zeroes the countdown.
	f.SetField(schema.FieldEndDate, "")
	assert.Equal(t, float64(0), f.Value(schema.FieldCountdown))
}

func TestCountdownIsReadOnly(t *testing.T) {
	f := NewEmpty(schema.Default())
	f.SetNow(fixedNow)
	f.SetField(schema.FieldEndDate, "2025-06-21")

	f.SetField(schema.FieldCountdown, float64(999))
	assert.Equal(t, float64(20), f.Value(schema.FieldCountdown))
}

func TestInvalidNumberKeepsPreviousValue(t *testing.T) {
	f := NewEmpty(schema.Default())
	f.SetField(schema.FieldAllocation, "80")
	assert.Equal(t, float64(80), f.Value(schema.FieldAllocation))

	f.SetField(schema.FieldAllocation, "garbage")
	assert.Equal(t, float64(80), f.Value(schema.FieldAllocation))
}

func TestSubmitNormalizations(t *testing.T) {
	f := NewEmpty(schema.Default())
	f.SetField(schema.FieldFirstName, "Alice")
	f.SetField(schema.FieldLastName, "Adams")
	f.SetField(schema.FieldTechSkills, " Go , , React ")

	payload, err := f.Submit()
	require.NoError(t, err)

	// Arrays: trimmed tokens, empties dropped.
	assert.Equal(t, []string{"Go", "React"}, payload[schema.FieldTechSkills])
	// Empty date becomes an explicit null.
	assert.Nil(t, payload[schema.FieldEndDate])
	// Untouched number stays zero.
	assert.Equal(t, float64(0), payload[schema.FieldAllocation])
	// A create form carries no id.
	_, hasID := payload[types.IDField]
	assert.False(t, hasID)
}

func TestSetFieldJoinsSliceInput(t *testing.T) {
	f := NewEmpty(schema.Default())
	f.SetField(schema.FieldFirstName, "Alice")
	f.SetField(schema.FieldLastName, "Adams")

	// Slice input joins the same way NewFromRecord does, never the
	// fmt rendering of the slice.
	f.SetField(schema.FieldTechSkills, []string{"Go", "React"})
	assert.Equal(t, "Go, React", f.Value(schema.FieldTechSkills))

	f.SetField(schema.FieldTechSkills, []any{"Go", "React"})
	assert.Equal(t, "Go, React", f.Value(schema.FieldTechSkills))

	payload, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "React"}, payload[schema.FieldTechSkills])
}

func TestUnknownFieldIgnored(t *testing.T) {
	f := NewEmpty(schema.Default())
	f.SetField("Nonexistent", "x")
	assert.Nil(t, f.Value("Nonexistent"))
}
