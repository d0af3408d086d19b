package validate

import (
	"fmt"
	"time"

	"github.com/jugesdebnath7/powercast/internal/frame"
)

// DefaultSchema is the validation contract for the AEP hourly load data:
// a time-typed datetime column and a non-negative float target, with the
// timestamp strictly increasing and unique.
func DefaultSchema(targetColumn string) Schema {
	return Schema{
		Rename: map[string]string{
			"Datetime": "datetime",
			"AEP_MW":   "aep_mw",
		},
		Required: []RequiredColumn{
			{Name: "datetime", DType: frame.Time},
			{Name: targetColumn, DType: frame.Float},
		},
		Minimums: []MinConstraint{
			{Column: targetColumn, Min: 0},
		},
		Checks: []Check{
			{Name: "datetime_monotonic", Fn: DatetimeMonotonic("datetime")},
			{Name: "no_duplicates", Fn: NoDuplicateTimestamps("datetime")},
		},
	}
}

// DatetimeMonotonic returns a check that the named time column is
// strictly increasing. Missing timestamps fail the check; an empty batch
// passes vacuously.
func DatetimeMonotonic(column string) func(*frame.Frame) error {
	return func(f *frame.Frame) error {
		s, err := f.Column(column)
		if err != nil {
			return err
		}
		var prev time.Time
		for i := 0; i < s.Len(); i++ {
			t, ok := s.Time(i)
			if !ok {
				return fmt.Errorf("row %d has no timestamp in column %q", i, column)
			}
			if i > 0 && !t.After(prev) {
				return fmt.Errorf("column %q is not strictly increasing at row %d", column, i)
			}
			prev = t
		}
		return nil
	}
}

// NoDuplicateTimestamps returns a check that the named time column holds
// no repeated values.
func NoDuplicateTimestamps(column string) func(*frame.Frame) error {
	return func(f *frame.Frame) error {
		s, err := f.Column(column)
		if err != nil {
			return err
		}
		seen := make(map[int64]struct{}, s.Len())
		for i := 0; i < s.Len(); i++ {
			t, ok := s.Time(i)
			if !ok {
				continue
			}
			key := t.UnixNano()
			if _, dup := seen[key]; dup {
				return fmt.Errorf("duplicate value in column %q at row %d", column, i)
			}
			seen[key] = struct{}{}
		}
		return nil
	}
}
