package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      float64
	}{
		{name: "positive integer", input: "123", wantValid: true, want: 123},
		{name: "zero", input: "0", wantValid: true, want: 0},
		{name: "negative integer", input: "-456", wantValid: true, want: -456},
		{name: "decimal number", input: "123.45", wantValid: true, want: 123.45},
		{name: "leading decimal point", input: ".99", wantValid: true, want: 0.99},
		{name: "dollar sign", input: "$1,234.56", wantValid: true, want: 1234.56},
		{name: "euro sign", input: "€1234.56", wantValid: true, want: 1234.56},
		{name: "accounting negative", input: "($50.00)", wantValid: true, want: -50},
		{name: "spreadsheet prefix", input: `="42"`, wantValid: true, want: 42},
		{name: "empty string", input: "", wantValid: false},
		{name: "whitespace only", input: "   ", wantValid: false},
		{name: "letters", input: "abc", wantValid: false},
		{name: "mixed", input: "12abc", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantValid {
				t.Fatalf("ParseNumber(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// NormalizeDate Tests
// ----------------------------------------------------------------------------

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      string
	}{
		{name: "ISO", input: "2024-03-05", wantValid: true, want: "2024-03-05"},
		{name: "RFC3339 timestamp", input: "2024-03-05T10:20:00Z", wantValid: true, want: "2024-03-05"},
		{name: "US slashes", input: "3/5/2024", wantValid: true, want: "2024-03-05"},
		{name: "long month", input: "Mar 5, 2024", wantValid: true, want: "2024-03-05"},
		{name: "compact", input: "20240305", wantValid: true, want: "2024-03-05"},
		{name: "empty", input: "", wantValid: false},
		{name: "garbage", input: "next tuesday", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input)
			if ok != tt.wantValid {
				t.Fatalf("NormalizeDate(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToValue Tests
// ----------------------------------------------------------------------------

func TestToValue(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		kind    Kind
		raw     any
		want    Value
		wantErr bool
	}{
		{name: "json float", kind: KindNumber, raw: 12.5, want: Number(12.5)},
		{name: "sql int64", kind: KindNumber, raw: int64(7), want: Number(7)},
		{name: "json.Number", kind: KindNumber, raw: json.Number("99"), want: Number(99)},
		{name: "numeric string", kind: KindNumber, raw: "$1,000", want: Number(1000)},
		{name: "bad number", kind: KindNumber, raw: "lots", wantErr: true},
		{name: "time value", kind: KindDate, raw: ts, want: Date("2024-01-15")},
		{name: "date string", kind: KindDate, raw: "01/15/2024", want: Date("2024-01-15")},
		{name: "bad date", kind: KindDate, raw: "soon", wantErr: true},
		{name: "tag bytes", kind: KindTag, raw: []byte("completed"), want: Tag("completed")},
		{name: "text trims", kind: KindText, raw: "  Algebra I  ", want: Text("Algebra I")},
		{name: "nil keeps kind", kind: KindNumber, raw: nil, want: Value{Kind: KindNumber}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToValue(tt.kind, tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRecord) {
					t.Fatalf("ToValue() error = %v, want ErrInvalidRecord", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToValue() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToValue() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordFromRow(t *testing.T) {
	schema := Schema{
		Columns: []Column{
			{Key: "name", Label: "Name", Kind: KindText},
			{Key: "members", Label: "Members", Kind: KindNumber},
		},
		DisplayField: "name",
	}

	t.Run("types each column", func(t *testing.T) {
		rec, err := RecordFromRow(schema, "id", map[string]any{
			"id": int64(3), "name": "Chess Club", "members": "12", "ignored": true,
		})
		if err != nil {
			t.Fatalf("RecordFromRow() error: %v", err)
		}
		if rec.ID != 3 {
			t.Errorf("ID = %d, want 3", rec.ID)
		}
		if got := rec.Get("members"); got != Number(12) {
			t.Errorf("members = %+v, want 12", got)
		}
		if _, ok := rec.Fields["ignored"]; ok {
			t.Error("non-schema column should be dropped")
		}
	})

	t.Run("missing column keeps its kind", func(t *testing.T) {
		rec, err := RecordFromRow(schema, "id", map[string]any{"id": 4, "name": "Drama"})
		if err != nil {
			t.Fatalf("RecordFromRow() error: %v", err)
		}
		if got := rec.Get("members").Kind; got != KindNumber {
			t.Errorf("members kind = %v, want number", got)
		}

		other := NewRecord(5, map[string]Value{"name": Text("Art"), "members": Number(9)})
		bySize := Schema{Columns: []Column{{Key: "members", Kind: KindNumber, Sortable: true}}}
		sorted := SortRecords([]Record{other, rec}, bySize, SortSpec{Key: "members"})
		if sorted[0].ID != 4 {
			t.Errorf("first id = %d, want 4 (missing sorts as 0)", sorted[0].ID)
		}
	})

	t.Run("missing id fails", func(t *testing.T) {
		_, err := RecordFromRow(schema, "id", map[string]any{"name": "x"})
		if !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("error = %v, want ErrInvalidRecord", err)
		}
	})
}
