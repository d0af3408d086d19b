package frame

import (
	"math"
	"strconv"
	"time"
)

// DType identifies the semantic type of a Series.
type DType int

const (
	Float DType = iota
	Int
	String
	Time
)

// String returns the dtype name.
func (d DType) String() string {
	switch d {
	case Float:
		return "float"
	case Int:
		return "int"
	case String:
		return "string"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Series is a named, homogeneously typed column with a validity mask.
// An invalid slot is the missing-value marker; typed accessors return
// ok=false for it.
type Series struct {
	name  string
	dtype DType

	floats []float64
	ints   []int64
	strs   []string
	times  []time.Time
	valid  []bool
}

// NewSeries creates an all-missing series of the given type and length.
func NewSeries(name string, dtype DType, n int) *Series {
	s := &Series{
		name:  name,
		dtype: dtype,
		valid: make([]bool, n),
	}
	switch dtype {
	case Float:
		s.floats = make([]float64, n)
	case Int:
		s.ints = make([]int64, n)
	case String:
		s.strs = make([]string, n)
	case Time:
		s.times = make([]time.Time, n)
	}
	return s
}

// NewFloat creates a float series. NaN values are treated as missing.
func NewFloat(name string, values []float64) *Series {
	s := NewSeries(name, Float, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			s.SetFloat(i, v)
		}
	}
	return s
}

// NewInt creates an int series with all values present.
func NewInt(name string, values []int64) *Series {
	s := NewSeries(name, Int, len(values))
	for i, v := range values {
		s.SetInt(i, v)
	}
	return s
}

// NewString creates a string series with all values present.
func NewString(name string, values []string) *Series {
	s := NewSeries(name, String, len(values))
	for i, v := range values {
		s.SetString(i, v)
	}
	return s
}

// NewTime creates a time series. Zero times are treated as missing.
func NewTime(name string, values []time.Time) *Series {
	s := NewSeries(name, Time, len(values))
	for i, v := range values {
		if !v.IsZero() {
			s.SetTime(i, v)
		}
	}
	return s
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// DType returns the column type.
func (s *Series) DType() DType { return s.dtype }

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.valid) }

// Valid reports whether row i holds a value.
func (s *Series) Valid(i int) bool { return s.valid[i] }

// NullCount returns the number of missing values.
func (s *Series) NullCount() int {
	n := 0
	for _, v := range s.valid {
		if !v {
			n++
		}
	}
	return n
}

// Float returns the float value at row i.
func (s *Series) Float(i int) (float64, bool) {
	if s.dtype != Float || !s.valid[i] {
		return 0, false
	}
	return s.floats[i], true
}

// Int returns the int value at row i.
func (s *Series) Int(i int) (int64, bool) {
	if s.dtype != Int || !s.valid[i] {
		return 0, false
	}
	return s.ints[i], true
}

// Str returns the string value at row i.
func (s *Series) Str(i int) (string, bool) {
	if s.dtype != String || !s.valid[i] {
		return "", false
	}
	return s.strs[i], true
}

// Time returns the timestamp at row i.
func (s *Series) Time(i int) (time.Time, bool) {
	if s.dtype != Time || !s.valid[i] {
		return time.Time{}, false
	}
	return s.times[i], true
}

// Number returns the value at row i as a float64 for Float and Int series.
func (s *Series) Number(i int) (float64, bool) {
	switch s.dtype {
	case Float:
		return s.Float(i)
	case Int:
		v, ok := s.Int(i)
		return float64(v), ok
	default:
		return 0, false
	}
}

// SetFloat stores a float value at row i.
func (s *Series) SetFloat(i int, v float64) {
	s.floats[i] = v
	s.valid[i] = true
}

// SetInt stores an int value at row i.
func (s *Series) SetInt(i int, v int64) {
	s.ints[i] = v
	s.valid[i] = true
}

// SetString stores a string value at row i.
func (s *Series) SetString(i int, v string) {
	s.strs[i] = v
	s.valid[i] = true
}

// SetTime stores a timestamp at row i.
func (s *Series) SetTime(i int, v time.Time) {
	s.times[i] = v
	s.valid[i] = true
}

// SetMissing marks row i as missing.
func (s *Series) SetMissing(i int) {
	s.valid[i] = false
	switch s.dtype {
	case Float:
		s.floats[i] = 0
	case Int:
		s.ints[i] = 0
	case String:
		s.strs[i] = ""
	case Time:
		s.times[i] = time.Time{}
	}
}

// ValueString renders the value at row i for keys and diagnostics.
// Missing values render as the empty string.
func (s *Series) ValueString(i int) string {
	if !s.valid[i] {
		return ""
	}
	switch s.dtype {
	case Float:
		return strconv.FormatFloat(s.floats[i], 'g', -1, 64)
	case Int:
		return strconv.FormatInt(s.ints[i], 10)
	case String:
		return s.strs[i]
	case Time:
		return strconv.FormatInt(s.times[i].UnixNano(), 10)
	default:
		return ""
	}
}

// rename returns a copy of the series under a new name, sharing data.
func (s *Series) rename(name string) *Series {
	c := *s
	c.name = name
	return &c
}

// clone returns a deep copy.
func (s *Series) clone() *Series {
	c := &Series{name: s.name, dtype: s.dtype}
	c.valid = append([]bool(nil), s.valid...)
	switch s.dtype {
	case Float:
		c.floats = append([]float64(nil), s.floats...)
	case Int:
		c.ints = append([]int64(nil), s.ints...)
	case String:
		c.strs = append([]string(nil), s.strs...)
	case Time:
		c.times = append([]time.Time(nil), s.times...)
	}
	return c
}

// takeRows returns a new series holding the rows at the given indices,
// in the given order.
func (s *Series) takeRows(idx []int) *Series {
	out := NewSeries(s.name, s.dtype, len(idx))
	for j, i := range idx {
		if !s.valid[i] {
			continue
		}
		switch s.dtype {
		case Float:
			out.SetFloat(j, s.floats[i])
		case Int:
			out.SetInt(j, s.ints[i])
		case String:
			out.SetString(j, s.strs[i])
		case Time:
			out.SetTime(j, s.times[i])
		}
	}
	return out
}

// appendRow copies row i of src onto the end of the series. Both series
// must share a dtype; the caller guarantees this.
func (s *Series) appendRow(src *Series, i int) {
	s.valid = append(s.valid, src.valid[i])
	switch s.dtype {
	case Float:
		var v float64
		if src.valid[i] {
			v = src.floats[i]
		}
		s.floats = append(s.floats, v)
	case Int:
		var v int64
		if src.valid[i] {
			v = src.ints[i]
		}
		s.ints = append(s.ints, v)
	case String:
		var v string
		if src.valid[i] {
			v = src.strs[i]
		}
		s.strs = append(s.strs, v)
	case Time:
		var v time.Time
		if src.valid[i] {
			v = src.times[i]
		}
		s.times = append(s.times, v)
	}
}
