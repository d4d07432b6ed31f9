package core

// convert.go turns raw values from data sources into typed cell Values.
//
// Sources hand over whatever their driver produced: JSON numbers and strings,
// SQL integers, floats, byte slices and timestamps. Number cells accept
// currency symbols, thousands separators and accounting negatives. Date
// cells accept the common US, EU and ISO layouts and are normalized to
// YYYY-MM-DD so the date filter can compare strings exactly.

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// DateLayout is the canonical form of date cells.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02", "2006.01.02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
	"Jan 2, 2006", "2 Jan 2006",
	"20060102",
}

// ParseNumber parses a number cell. Returns false for empty or invalid input.
func ParseNumber(s string) (float64, bool) {
	s = CleanCell(s)
	if s == "" {
		return 0, false
	}

	// Accounting format "(123.45)"
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

// NormalizeDate converts a date cell to YYYY-MM-DD.
// Returns false for empty or unrecognized input.
func NormalizeDate(s string) (string, bool) {
	s = CleanCell(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// CleanCell trims whitespace, a leading spreadsheet '=' and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// ToValue converts a raw driver or JSON value to a cell of the given kind.
// nil becomes the zero value of that kind.
func ToValue(kind Kind, raw any) (Value, error) {
	if raw == nil {
		return Value{Kind: kind}, nil
	}

	switch kind {
	case KindNumber:
		switch v := raw.(type) {
		case float64:
			return Number(v), nil
		case float32:
			return Number(float64(v)), nil
		case int:
			return Number(float64(v)), nil
		case int32:
			return Number(float64(v)), nil
		case int64:
			return Number(float64(v)), nil
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return Value{}, fmt.Errorf("%w: invalid number %q", ErrInvalidRecord, v)
			}
			return Number(f), nil
		}
		s := rawString(raw)
		n, ok := ParseNumber(s)
		if !ok {
			return Value{}, fmt.Errorf("%w: invalid number %q", ErrInvalidRecord, s)
		}
		return Number(n), nil

	case KindDate:
		if t, ok := raw.(time.Time); ok {
			return Date(t.Format(DateLayout)), nil
		}
		s := rawString(raw)
		d, ok := NormalizeDate(s)
		if !ok {
			return Value{}, fmt.Errorf("%w: invalid date %q", ErrInvalidRecord, s)
		}
		return Date(d), nil

	case KindTag:
		return Tag(CleanCell(rawString(raw))), nil

	default:
		return Text(strings.TrimSpace(rawString(raw))), nil
	}
}

func rawString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ToID converts a raw id column value to an int.
func ToID(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: non-integer id %v", ErrInvalidRecord, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: invalid id %q", ErrInvalidRecord, v)
		}
		return int(n), nil
	case nil:
		return 0, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	n, err := strconv.Atoi(strings.TrimSpace(rawString(raw)))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", ErrInvalidRecord, rawString(raw))
	}
	return n, nil
}

// RecordFromRow builds a record from a column-keyed row, typing each value
// by the schema. idKey names the id column.
func RecordFromRow(schema Schema, idKey string, row map[string]any) (Record, error) {
	id, err := ToID(row[idKey])
	if err != nil {
		return Record{}, err
	}

	fields := make(map[string]Value, len(schema.Columns))
	// Missing columns still get the column's kind so sorting stays typed.
	for _, c := range schema.Columns {
		v, err := ToValue(c.Kind, row[c.Key])
		if err != nil {
			return Record{}, fmt.Errorf("record %d column %s: %w", id, c.Key, err)
		}
		fields[c.Key] = v
	}
	return Record{ID: id, Fields: fields}, nil
}
