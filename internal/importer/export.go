package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

// ExportSheetName is the single sheet of exported workbooks.
const ExportSheetName = "Employees"

// ExportFilename names a download with today's date, e.g.
// "records-2026-08-27.json".
func ExportFilename(prefix, ext string, today time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, today.Format("2006-01-02"), ext)
}

// ExportJSON serializes records as pretty-printed JSON.
func ExportJSON(recs []types.Record) ([]byte, error) {
	return json.MarshalIndent(recs, "", "  ")
}

// Headers derives the export column order: the identifier, then the
// schema's fields in declaration order, then any extra record keys
// sorted alphabetically.
func Headers(s schema.Schema, recs []types.Record) []string {
	headers := []string{types.IDField}
	known := map[string]struct{}{types.IDField: {}, "id": {}}
	for _, f := range s.Fields {
		headers = append(headers, f.Name)
		known[f.Name] = struct{}{}
	}
	var extra []string
	for _, rec := range recs {
		for k := range rec {
			if _, ok := known[k]; !ok {
				known[k] = struct{}{}
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(headers, extra...)
}

// ExportExcel renders records into a single-sheet workbook. Array
// values are joined with ", "; dates are already calendar-date strings
// and pass through.
func ExportExcel(s schema.Schema, recs []types.Record) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, err
	}

	headers := Headers(s, recs)
	if err := setRow(f, 1, headersToCells(headers)); err != nil {
		return nil, err
	}
	for i, rec := range recs {
		cells := make([]any, len(headers))
		for j, col := range headers {
			cells[j] = cellFor(rec[col])
		}
		if err := setRow(f, i+2, cells); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}

func headersToCells(headers []string) []any {
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}

func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(ExportSheetName, cell, &cells)
}

func cellFor(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	default:
		return val
	}
}
