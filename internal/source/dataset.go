// Package source reads legacy CSV extracts into header-indexed datasets.
//
// Extracts come out of the legacy system with unpredictable column order,
// BOMs, and ragged rows, so reading is deliberately forgiving: headers are
// matched case-insensitively, short rows are padded, and long rows are
// truncated. Cell values are returned as-is; cleaning belongs to the
// normalize package.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrSourceMissing reports that an entity's extract file does not exist.
// Callers treat it as a per-entity, non-fatal condition.
var ErrSourceMissing = errors.New("source file missing")

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// Dataset is one entity's extract, loaded fully into memory.
// Row order is preserved; it is the tie-breaker for deduplication.
type Dataset struct {
	Columns []string
	Rows    [][]string

	idx HeaderIndex
}

// ReadFile loads a CSV extract from path.
// A missing file returns an error wrapping ErrSourceMissing.
func ReadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Dataset from raw CSV bytes.
func Parse(data []byte) (*Dataset, error) {
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // legacy rows are ragged; tolerate and fix up below
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv: no header row")
	}

	header := records[0]
	columns := make([]string, len(header))
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = name
		idx[strings.ToLower(name)] = i
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		switch {
		case len(rec) < len(columns):
			padded := make([]string, len(columns))
			copy(padded, rec)
			rec = padded
		case len(rec) > len(columns):
			rec = rec[:len(columns)]
		}
		rows = append(rows, rec)
	}

	return &Dataset{Columns: columns, Rows: rows, idx: idx}, nil
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset carries the named column.
// Matching is case-insensitive.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.idx[strings.ToLower(name)]
	return ok
}

// Field returns the raw cell value at row i for the named column,
// or "" if the column does not exist.
func (d *Dataset) Field(i int, name string) string {
	pos, ok := d.idx[strings.ToLower(name)]
	if !ok || i < 0 || i >= len(d.Rows) {
		return ""
	}
	return d.Rows[i][pos]
}

// FirstField returns the raw cell value for the first of the named columns
// that exists in the dataset. Used for key columns with fallback spellings.
func (d *Dataset) FirstField(i int, names ...string) string {
	for _, name := range names {
		if d.HasColumn(name) {
			return d.Field(i, name)
		}
	}
	return ""
}

// sanitizeUTF8 replaces invalid UTF-8 sequences so the csv reader does not
// choke on legacy encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte("�"))
}
