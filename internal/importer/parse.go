// Package importer parses uploaded datasets, runs direct and
// schema-mapped bulk imports, and serializes the working set back to
// JSON or a spreadsheet.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matthewbaird/roster/internal/types"
)

// ErrEmptyUpload reports an upload that parsed but contained no rows.
var ErrEmptyUpload = errors.New("uploaded file contains no records")

// FormatError reports an upload not recognized as an array of records
// by any accepted shape. No partial import is applied.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid file format: " + e.Reason
}

// wrapperKeys are the recognized JSON object keys that may hold the
// record array, tried in order before scanning for any array value.
var wrapperKeys = []string{"resources", "data", "records", "items", "results"}

// ParseUpload parses an uploaded dataset into raw records. JSON and
// xlsx spreadsheets are accepted; the filename extension picks the
// parser.
func ParseUpload(filename string, content io.Reader) ([]types.Record, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		return ParseSpreadsheet(content)
	default:
		raw, err := io.ReadAll(content)
		if err != nil {
			return nil, err
		}
		return ParseJSON(raw)
	}
}

// ParseJSON accepts a bare array, an object with a recognized wrapper
// key, or, failing those, the first array-valued property found.
func ParseJSON(raw []byte) ([]types.Record, error) {
	var bare []types.Record
	if err := json.Unmarshal(raw, &bare); err == nil {
		return nonEmpty(bare)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &FormatError{Reason: "not a JSON array or object"}
	}

	for _, key := range wrapperKeys {
		if inner, ok := obj[key]; ok {
			var recs []types.Record
			if err := json.Unmarshal(inner, &recs); err != nil {
				return nil, &FormatError{Reason: fmt.Sprintf("%q must contain a list of records", key)}
			}
			return nonEmpty(recs)
		}
	}

	// No named wrapper: scan all properties for the first array value.
	// Keys are visited in sorted order to keep the scan deterministic.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var recs []types.Record
		if err := json.Unmarshal(obj[k], &recs); err == nil && len(recs) > 0 {
			return recs, nil
		}
	}
	return nil, &FormatError{Reason: "no array of records found"}
}

func nonEmpty(recs []types.Record) ([]types.Record, error) {
	if len(recs) == 0 {
		return nil, ErrEmptyUpload
	}
	return recs, nil
}

// ParseSpreadsheet maps the first sheet's rows to records: the first
// row is the header, each following row one record. Cells that parse
// cleanly as numbers become numbers, everything else stays text.
func ParseSpreadsheet(content io.Reader) ([]types.Record, error) {
	f, err := excelize.OpenReader(content)
	if err != nil {
		return nil, &FormatError{Reason: "not a readable spreadsheet"}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Reason: "spreadsheet has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyUpload
	}

	header := rows[0]
	var recs []types.Record
	for _, row := range rows[1:] {
		rec := types.Record{}
		for i, col := range header {
			if col == "" || i >= len(row) {
				continue
			}
			rec[col] = cellValue(row[i])
		}
		if len(rec) > 0 {
			recs = append(recs, rec)
		}
	}
	return nonEmpty(recs)
}

func cellValue(s string) any {
	if n, err := strconv.ParseFloat(s, 64); err == nil && strings.TrimSpace(s) != "" {
		return n
	}
	return s
}
