package petrack

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/internal"
)

// Record is one data row: the position of one agent at one frame.
type Record struct {
	AgentID int
	Frame   int
	X       float64
	Y       float64
	Z       float64
	// HasZ is false for four-column rows; Z is then zero and a height is
	// filled in downstream.
	HasZ bool
}

var errNotIntegral = errors.New("not an integral value")

// ParseRecords reads the data rows of a file starting at lines[start].
// Blank and comment lines are skipped. Rows that cannot be read are skipped
// and reported as malformed; columns after z are ignored.
func ParseRecords(lines []string, start int, warn *internal.WarningAggregator) []Record {
	if start < 0 {
		start = 0
	}
	records := make([]Record, 0, max(len(lines)-start, 0))
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, CommentMarker) {
			continue
		}
		rec, err := parseRecord(strings.Fields(line))
		if err != nil {
			warn.Add(internal.WarningMalformedRow, fmt.Sprintf("line %d: %v", i+1, err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

func parseRecord(fields []string) (Record, error) {
	if len(fields) < 4 {
		return Record{}, fmt.Errorf("expected at least 4 columns, got %d", len(fields))
	}
	var (
		rec Record
		err error
	)
	if rec.AgentID, err = toInt(fields[0]); err != nil {
		return Record{}, fmt.Errorf("id %q: %w", fields[0], err)
	}
	if rec.Frame, err = toInt(fields[1]); err != nil {
		return Record{}, fmt.Errorf("frame %q: %w", fields[1], err)
	}
	if rec.X, err = toFloat(fields[2]); err != nil {
		return Record{}, fmt.Errorf("x %q: %w", fields[2], err)
	}
	if rec.Y, err = toFloat(fields[3]); err != nil {
		return Record{}, fmt.Errorf("y %q: %w", fields[3], err)
	}
	if len(fields) >= 5 {
		if rec.Z, err = toFloat(fields[4]); err != nil {
			return Record{}, fmt.Errorf("z %q: %w", fields[4], err)
		}
		rec.HasZ = true
	}
	return rec, nil
}

// toInt accepts "12" and the float spelling "12.0" some exporters write.
func toInt(s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errNotIntegral
	}
	return int(f), nil
}

func toFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	return f, nil
}
