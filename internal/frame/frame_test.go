package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(h int) time.Time {
	return time.Date(2024, 7, 1, h, 0, 0, 0, time.UTC)
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewFloat("x", []float64{1}),
		NewFloat("x", []float64{2}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column name")
}

func TestNew_RejectsLengthMismatch(t *testing.T) {
	_, err := New(
		NewFloat("a", []float64{1, 2}),
		NewFloat("b", []float64{1}),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestFrame_AddColumnReplacesInPlace(t *testing.T) {
	f, err := New(
		NewFloat("a", []float64{1, 2}),
		NewFloat("b", []float64{3, 4}),
	)
	require.NoError(t, err)

	require.NoError(t, f.AddColumn(NewFloat("a", []float64{9, 9})))

	assert.Equal(t, []string{"a", "b"}, f.Columns())
	s, err := f.Column("a")
	require.NoError(t, err)
	v, _ := s.Float(0)
	assert.Equal(t, 9.0, v)
}

func TestFrame_Rename(t *testing.T) {
	f, err := New(NewFloat("Datetime", []float64{1}))
	require.NoError(t, err)

	f.Rename(map[string]string{"Datetime": "datetime", "Missing": "x"})

	assert.True(t, f.HasColumn("datetime"))
	assert.False(t, f.HasColumn("Datetime"))
}

func TestFrame_SelectMissingColumn(t *testing.T) {
	f, err := New(NewFloat("a", []float64{1}))
	require.NoError(t, err)

	_, err = f.Select([]string{"a", "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestFrame_SortByTime(t *testing.T) {
	f, err := New(
		NewTime("datetime", []time.Time{ts(3), {}, ts(1), ts(2)}),
		NewInt("rank", []int64{3, -1, 1, 2}),
	)
	require.NoError(t, err)

	require.NoError(t, f.SortByTime("datetime"))

	rank, err := f.Column("rank")
	require.NoError(t, err)

	var got []int64
	for i := 0; i < f.Len(); i++ {
		v, _ := rank.Int(i)
		got = append(got, v)
	}
	// Valid timestamps ascending, missing timestamp last.
	assert.Equal(t, []int64{1, 2, 3, -1}, got)
}

func TestFrame_RowKeyDistinguishesMissing(t *testing.T) {
	f, err := New(
		NewString("a", []string{"", "x"}),
		NewString("b", []string{"x", ""}),
	)
	require.NoError(t, err)

	// Empty string parses as missing in ingestion, so set one explicitly.
	a, _ := f.Column("a")
	a.SetMissing(0)
	b, _ := f.Column("b")
	b.SetMissing(1)

	k0, err := f.RowKey(0, []string{"a", "b"})
	require.NoError(t, err)
	k1, err := f.RowKey(1, []string{"a", "b"})
	require.NoError(t, err)
	assert.NotEqual(t, k0, k1)
}

func TestConcat(t *testing.T) {
	a, err := New(NewFloat("x", []float64{1, 2}))
	require.NoError(t, err)
	b, err := New(NewFloat("x", []float64{3}))
	require.NoError(t, err)

	out, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())

	s, _ := out.Column("x")
	v, _ := s.Float(2)
	assert.Equal(t, 3.0, v)
}

func TestConcat_ColumnMismatch(t *testing.T) {
	a, err := New(NewFloat("x", []float64{1}))
	require.NoError(t, err)
	b, err := New(NewFloat("y", []float64{2}))
	require.NoError(t, err)

	_, err = Concat(a, b)
	require.Error(t, err)
}

func TestFrame_Filter(t *testing.T) {
	f, err := New(NewInt("n", []int64{10, 20, 30}))
	require.NoError(t, err)

	out := f.Filter([]bool{true, false, true})
	require.Equal(t, 2, out.Len())

	s, _ := out.Column("n")
	v, _ := s.Int(1)
	assert.Equal(t, int64(30), v)
}
