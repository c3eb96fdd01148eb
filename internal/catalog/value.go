package catalog

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// Kind is the semantic type of a catalog column. It drives both value
// conversion in the normalizer and column types in the generated DDL.
type Kind int

const (
	Text Kind = iota
	Bool
	Int
	Number
	Date      // calendar date, no time component
	YearMonth // YYYY-MM string
	Euro      // whole euros, no minor units
	Timestamp
)

var yearMonthRe = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}$`)

// SQLType returns the PostgreSQL column type for the kind.
func (k Kind) SQLType() string {
	switch k {
	case Bool:
		return "BOOLEAN"
	case Int, Euro:
		return "BIGINT"
	case Number:
		return "NUMERIC"
	case Date:
		return "DATE"
	case Timestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Number:
		return "number"
	case Date:
		return "date"
	case YearMonth:
		return "year-month"
	case Euro:
		return "euro"
	case Timestamp:
		return "timestamp"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Convert validates a raw JSON value against the kind and returns the Go value
// persisted for it. nil stays nil (NULL column). A value whose shape violates
// the kind is an error; the normalizer surfaces it as a malformed document.
func Convert(k Kind, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch k {
	case Text:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %T", raw)
		}
		return s, nil
	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil
	case Int, Euro:
		f, ok := raw.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("expected integer, got %v (%T)", raw, raw)
		}
		return int64(f), nil
	case Number:
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		return f, nil
	case YearMonth:
		s, ok := raw.(string)
		if !ok || !yearMonthRe.MatchString(s) {
			return nil, fmt.Errorf("expected YYYY-MM string, got %v", raw)
		}
		return s, nil
	case Date:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected date string, got %T", raw)
		}
		t, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		return t, nil
	case Timestamp:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected timestamp string, got %T", raw)
		}
		t, err := parseTimestamp(s)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown kind %v", k)
}

// The source emits full timestamps for some date-valued fields; a bare date is
// accepted for both kinds and a timestamp keeps its own calendar date for
// Date columns regardless of zone offset.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected date, got %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected timestamp, got %q", s)
}
