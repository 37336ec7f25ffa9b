package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

func TestExportFilename(t *testing.T) {
	today := time.Date(2025, time.June, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "records-2025-06-01.json", ExportFilename("records", "json", today))
}

func TestHeadersOrder(t *testing.T) {
	s := schema.Schema{Fields: []schema.FieldSpec{
		{Name: "Name", Type: schema.FieldText},
		{Name: "Age", Type: schema.FieldNumber},
	}}
	recs := []types.Record{
		{"_id": "1", "Name": "A", "zeta": 1},
		{"_id": "2", "alpha": 2},
	}

	// Identifier first, schema order next, extras alphabetically last.
	assert.Equal(t, []string{"_id", "Name", "Age", "alpha", "zeta"}, Headers(s, recs))
}

func TestExportExcelRoundTrip(t *testing.T) {
	s := schema.Schema{Fields: []schema.FieldSpec{
		{Name: "Name", Type: schema.FieldText},
		{Name: "Skills", Type: schema.FieldArray},
		{Name: "Allocation", Type: schema.FieldNumber},
	}}
	recs := []types.Record{
		{"_id": "1", "Name": "Alice", "Skills": []string{"Go", "SQL"}, "Allocation": float64(80)},
	}

	buf, err := ExportExcel(s, recs)
	require.NoError(t, err)

	back, err := ParseSpreadsheet(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "Alice", back[0].String("Name"))
	assert.Equal(t, "Go, SQL", back[0].String("Skills"))
	alloc, _ := back[0].Number("Allocation")
	assert.Equal(t, float64(80), alloc)
}

func TestExportJSON(t *testing.T) {
	out, err := ExportJSON([]types.Record{{"Name": "A"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Name": "A"`)
}
