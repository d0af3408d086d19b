package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFloat_NaNIsMissing(t *testing.T) {
	s := NewFloat("load", []float64{1.5, math.NaN(), 3.0})

	require.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.NullCount())

	v, ok := s.Float(0)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = s.Float(1)
	assert.False(t, ok)
}

func TestNewTime_ZeroIsMissing(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s := NewTime("datetime", []time.Time{now, {}})

	assert.Equal(t, 1, s.NullCount())

	v, ok := s.Time(0)
	assert.True(t, ok)
	assert.Equal(t, now, v)

	_, ok = s.Time(1)
	assert.False(t, ok)
}

func TestSeries_SetAndMissing(t *testing.T) {
	s := NewSeries("x", Float, 2)
	assert.Equal(t, 2, s.NullCount())

	s.SetFloat(0, 42.0)
	assert.Equal(t, 1, s.NullCount())

	s.SetMissing(0)
	assert.Equal(t, 2, s.NullCount())
}

func TestSeries_Number(t *testing.T) {
	f := NewFloat("f", []float64{2.5})
	i := NewInt("i", []int64{7})
	str := NewString("s", []string{"abc"})

	v, ok := f.Number(0)
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	v, ok = i.Number(0)
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = str.Number(0)
	assert.False(t, ok)
}

func TestSeries_ValueString(t *testing.T) {
	tests := []struct {
		name   string
		series *Series
		want   string
	}{
		{"float", NewFloat("x", []float64{1.5}), "1.5"},
		{"int", NewInt("x", []int64{3}), "3"},
		{"string", NewString("x", []string{"ok"}), "ok"},
		{"missing", NewFloat("x", []float64{math.NaN()}), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.series.ValueString(0))
		})
	}
}
