package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestSampleStd(t *testing.T) {
	// Sample std of {2,4,4,4,5,5,7,9} with n-1 in the denominator.
	got := SampleStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.138, got, 0.001)

	assert.True(t, math.IsNaN(SampleStd([]float64{5})))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
}

func TestQuantile_LinearInterpolation(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"min", 0.0, 1.0},
		{"q1", 0.25, 1.75},
		{"median", 0.5, 2.5},
		{"q3", 0.75, 3.25},
		{"max", 1.0, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(x, tt.q), 1e-9)
		})
	}
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, 7, 2})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)
}

func TestIQRBounds(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	lower, upper := IQRBounds(x)
	// Q1=1.75, Q3=3.25, IQR=1.5
	assert.InDelta(t, -0.5, lower, 1e-9)
	assert.InDelta(t, 5.5, upper, 1e-9)
}
