// Package frame provides the tabular batch and stream types that every
// pipeline stage consumes and produces. A Frame is one fully materialized
// table of named, typed columns; a Stream is a single-pass sequence of
// Frames; a Dataset is the closed union of the two.
package frame

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrColumnNotFound is returned when a referenced column does not exist.
var ErrColumnNotFound = errors.New("column not found")

// ErrLengthMismatch is returned when column lengths disagree.
var ErrLengthMismatch = errors.New("column length mismatch")

// Frame is an ordered collection of equal-length Series, indexed by name.
// Row order is meaningful and preserved by every non-sorting operation.
type Frame struct {
	cols  []*Series
	index map[string]int
}

// New creates a Frame from the given columns. All columns must share one
// length and names must be unique.
func New(cols ...*Series) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, s := range cols {
		if f.HasColumn(s.Name()) {
			return nil, fmt.Errorf("duplicate column name: %s", s.Name())
		}
		if err := f.AddColumn(s); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, s := range f.cols {
		names[i] = s.Name()
	}
	return names
}

// HasColumn reports whether a column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Series, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return f.cols[i], nil
}

// AddColumn appends a column, replacing any existing column of the same
// name in place. The new column must match the frame's row count unless
// the frame is empty.
func (f *Frame) AddColumn(s *Series) error {
	if len(f.cols) > 0 && s.Len() != f.Len() {
		return fmt.Errorf("%w: column %q has %d rows, frame has %d",
			ErrLengthMismatch, s.Name(), s.Len(), f.Len())
	}
	if i, ok := f.index[s.Name()]; ok {
		f.cols[i] = s
		return nil
	}
	f.index[s.Name()] = len(f.cols)
	f.cols = append(f.cols, s)
	return nil
}

// DropColumn removes a column if present.
func (f *Frame) DropColumn(name string) {
	i, ok := f.index[name]
	if !ok {
		return
	}
	f.cols = append(f.cols[:i], f.cols[i+1:]...)
	delete(f.index, name)
	for j := i; j < len(f.cols); j++ {
		f.index[f.cols[j].Name()] = j
	}
}

// Rename applies a name mapping. Names absent from the mapping are left
// untouched.
func (f *Frame) Rename(mapping map[string]string) {
	for old, next := range mapping {
		i, ok := f.index[old]
		if !ok || old == next {
			continue
		}
		f.cols[i] = f.cols[i].rename(next)
		delete(f.index, old)
		f.index[next] = i
	}
}

// Select returns a new frame containing the named columns in the given
// order. The returned frame shares column data with the receiver.
func (f *Frame) Select(names []string) (*Frame, error) {
	out := &Frame{index: make(map[string]int, len(names))}
	for _, name := range names {
		s, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Filter returns a new frame keeping the rows where mask is true,
// preserving order.
func (f *Frame) Filter(mask []bool) *Frame {
	idx := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			idx = append(idx, i)
		}
	}
	return f.takeRows(idx)
}

// takeRows builds a new frame from the rows at the given indices.
func (f *Frame) takeRows(idx []int) *Frame {
	out := &Frame{index: make(map[string]int, len(f.cols))}
	for _, s := range f.cols {
		// Lengths match by construction.
		_ = out.AddColumn(s.takeRows(idx))
	}
	return out
}

// SortByTime stably sorts the frame's rows ascending by the named time
// column. Rows with a missing timestamp sort after all valid rows.
func (f *Frame) SortByTime(column string) error {
	s, err := f.Column(column)
	if err != nil {
		return err
	}
	if s.DType() != Time {
		return fmt.Errorf("sort column %q is %s, expected time", column, s.DType())
	}

	idx := make([]int, f.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, aok := s.Time(idx[a])
		tb, bok := s.Time(idx[b])
		if !aok {
			return false
		}
		if !bok {
			return true
		}
		return ta.Before(tb)
	})

	sorted := f.takeRows(idx)
	f.cols = sorted.cols
	f.index = sorted.index
	return nil
}

// RowKey renders a composite key of the named columns' values at row i.
// Missing values participate with a distinct marker so that two rows with
// the same missing slots compare equal.
func (f *Frame) RowKey(i int, columns []string) (string, error) {
	parts := make([]string, len(columns))
	for j, name := range columns {
		s, err := f.Column(name)
		if err != nil {
			return "", err
		}
		if !s.Valid(i) {
			parts[j] = "\x00"
			continue
		}
		parts[j] = s.ValueString(i)
	}
	return strings.Join(parts, "\x1f"), nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{index: make(map[string]int, len(f.cols))}
	for _, s := range f.cols {
		_ = out.AddColumn(s.clone())
	}
	return out
}

// Concat concatenates frames that share an identical column set, in order.
// With no arguments it returns an empty frame.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return &Frame{index: make(map[string]int)}, nil
	}

	first := frames[0]
	out := first.Clone()
	for _, f := range frames[1:] {
		if f.NumCols() != first.NumCols() {
			return nil, fmt.Errorf("concat: column count mismatch: %d vs %d",
				first.NumCols(), f.NumCols())
		}
		for ci, dst := range out.cols {
			src := f.cols[ci]
			if src.Name() != dst.Name() || src.DType() != dst.DType() {
				return nil, fmt.Errorf("concat: column %d is %s(%s) vs %s(%s)",
					ci, dst.Name(), dst.DType(), src.Name(), src.DType())
			}
			for i := 0; i < src.Len(); i++ {
				dst.appendRow(src, i)
			}
		}
	}
	return out, nil
}
