package tabular_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/logsift/logsift/pkg/tabular"
)

func TestDecode(t *testing.T) {
	table, err := tabular.Decode([]byte("user,ts\nalice,100\nbob,200\ncarol,300\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !slices.Equal(table.Columns, []string{"user", "ts"}) {
		t.Errorf("columns: got %v", table.Columns)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(table.Rows))
	}
	if table.Rows[0]["user"] != "alice" || table.Rows[0]["ts"] != "100" {
		t.Errorf("first row: got %v", table.Rows[0])
	}
	if table.Rows[2]["user"] != "carol" {
		t.Errorf("row order not preserved: got %v", table.Rows[2])
	}
}

func TestDecodeStripsByteOrderMarker(t *testing.T) {
	table, err := tabular.Decode([]byte("\xEF\xBB\xBFuser,ts\nalice,100\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if table.Columns[0] != "user" {
		t.Errorf("first column: got %q, want user", table.Columns[0])
	}
}

func TestDecodeReplacesInvalidUTF8(t *testing.T) {
	table, err := tabular.Decode([]byte("user,ts\nal\xFFice,100\n"))
	if err != nil {
		t.Fatalf("Decode() should tolerate invalid bytes, got error = %v", err)
	}

	if len(table.Rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(table.Rows))
	}
	if !strings.Contains(table.Rows[0]["user"], "�") {
		t.Errorf("invalid byte should be replaced: got %q", table.Rows[0]["user"])
	}
}

func TestDecodeRaggedRecords(t *testing.T) {
	table, err := tabular.Decode([]byte("a,b,c\n1,2\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if table.Rows[0]["c"] != "" {
		t.Errorf("short record should pad: got %q", table.Rows[0]["c"])
	}
	if len(table.Rows[1]) != 3 {
		t.Errorf("long record should drop extras: got %v", table.Rows[1])
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	table, err := tabular.Decode(nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(table.Columns) != 0 || len(table.Rows) != 0 {
		t.Errorf("empty input: got %v", table)
	}
}

func TestEncodeRoundTripsColumnOrder(t *testing.T) {
	input := []byte("z,a,m\n1,2,3\n4,5,6\n")

	table, err := tabular.Decode(input)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	encoded, err := table.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if string(encoded) != string(input) {
		t.Errorf("round trip: got %q, want %q", encoded, input)
	}
}

func TestEnsure(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		ensure  []string
		want    []string
	}{
		{
			name:    "appends missing in order",
			columns: []string{"user", "ts"},
			ensure:  []string{"score", "flag"},
			want:    []string{"user", "ts", "score", "flag"},
		},
		{
			name:    "existing column keeps position",
			columns: []string{"user", "score", "ts"},
			ensure:  []string{"score", "flag"},
			want:    []string{"user", "score", "ts", "flag"},
		},
		{
			name:    "all present is a no-op",
			columns: []string{"score", "flag"},
			ensure:  []string{"score", "flag"},
			want:    []string{"score", "flag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &tabular.Table{Columns: tt.columns}
			table.Ensure(tt.ensure...)

			if !slices.Equal(table.Columns, tt.want) {
				t.Errorf("columns: got %v, want %v", table.Columns, tt.want)
			}
		})
	}
}
