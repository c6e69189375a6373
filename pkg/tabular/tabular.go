// Package tabular implements the delimited table codec used for event logs.
// Tables carry an explicit ordered column list computed once at decode time;
// rows are name-to-value mappings that always cover the full column set.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Row maps column names to string values.
type Row map[string]string

// Table is an ordered sequence of rows with an explicit column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Decode parses delimited text with a header row. A leading byte-order marker
// is stripped and invalid UTF-8 sequences are replaced rather than rejected.
// Records shorter than the header pad missing columns with empty strings;
// values beyond the header's column set are dropped.
func Decode(data []byte) (*Table, error) {
	text := strings.ToValidUTF8(string(bytes.TrimPrefix(data, bom)), string(utf8.RuneError))

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	if len(records) == 0 {
		return &Table{Columns: []string{}}, nil
	}

	columns := records[0]
	rows := make([]Row, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// Encode serializes the table as delimited text with a header row,
// emitting row values in column order.
func (t *Table) Encode() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("encode row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}

	return buf.Bytes(), nil
}

// Ensure appends any of the given columns not already present, in the given
// order. Columns that already exist keep their original position.
func (t *Table) Ensure(columns ...string) {
	for _, col := range columns {
		if !slices.Contains(t.Columns, col) {
			t.Columns = append(t.Columns, col)
		}
	}
}
