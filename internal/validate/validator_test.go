package validate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

func hourly(h int) time.Time {
	return time.Date(2024, 7, 1, h, 0, 0, 0, time.UTC)
}

func validBatch(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.NewTime("datetime", []time.Time{hourly(0), hourly(1), hourly(2)}),
		frame.NewFloat("aep_mw", []float64{100, 200, 300}),
	)
	require.NoError(t, err)
	return f
}

func TestValidate_Passes(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	out, err := v.Validate(validBatch(t))
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}

func TestValidate_MissingColumnNamesIt(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(frame.NewTime("datetime", []time.Time{hourly(0)}))
	require.NoError(t, err)

	_, err = v.Validate(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "aep_mw")
}

func TestValidate_DTypeMismatch(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(
		frame.NewString("datetime", []string{"2024-07-01 00:00:00"}),
		frame.NewFloat("aep_mw", []float64{100}),
	)
	require.NoError(t, err)

	_, err = v.Validate(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDTypeMismatch)
	assert.Contains(t, err.Error(), "datetime")
}

func TestValidate_NegativeTarget(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(
		frame.NewTime("datetime", []time.Time{hourly(0)}),
		frame.NewFloat("aep_mw", []float64{-5}),
	)
	require.NoError(t, err)

	_, err = v.Validate(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestValidate_NonMonotonicTimestamps(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(
		frame.NewTime("datetime", []time.Time{hourly(2), hourly(1)}),
		frame.NewFloat("aep_mw", []float64{100, 200}),
	)
	require.NoError(t, err)

	_, err = v.Validate(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, err.Error(), "datetime_monotonic")
}

func TestValidate_DuplicateTimestamps(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(
		frame.NewTime("datetime", []time.Time{hourly(1), hourly(1)}),
		frame.NewFloat("aep_mw", []float64{100, 200}),
	)
	require.NoError(t, err)

	_, err = v.Validate(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
}

func TestValidate_MissingTimestampFailsMonotonicCheck(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(
		frame.NewTime("datetime", []time.Time{hourly(0), {}}),
		frame.NewFloat("aep_mw", []float64{100, 200}),
	)
	require.NoError(t, err)

	_, err = v.Validate(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
}

func TestValidate_EmptyBatchPasses(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(
		frame.NewTime("datetime", nil),
		frame.NewFloat("aep_mw", nil),
	)
	require.NoError(t, err)

	out, err := v.Validate(f)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestValidate_AppliesCanonicalRename(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())

	f, err := frame.New(
		frame.NewTime("Datetime", []time.Time{hourly(0)}),
		frame.NewFloat("AEP_MW", []float64{100}),
	)
	require.NoError(t, err)

	out, err := v.Validate(f)
	require.NoError(t, err)
	assert.True(t, out.HasColumn("datetime"))
	assert.True(t, out.HasColumn("aep_mw"))
}

func TestValidateDataset_StreamFailsOnInvalidChunk(t *testing.T) {
	v := New(DefaultSchema("aep_mw"), logger.Nop())
	ctx := context.Background()

	bad, err := frame.New(
		frame.NewTime("datetime", []time.Time{hourly(0)}),
		frame.NewFloat("aep_mw", []float64{-1}),
	)
	require.NoError(t, err)

	out, err := v.ValidateDataset(frame.Streaming{Stream: frame.NewSliceStream(validBatch(t), bad)})
	require.NoError(t, err, "validation is lazy, wiring succeeds")

	s := out.(frame.Streaming).Stream
	_, err = s.Next(ctx)
	require.NoError(t, err, "valid chunk passes")

	_, err = s.Next(ctx)
	require.Error(t, err, "invalid chunk fails the pull that produced it")
	assert.ErrorIs(t, err, ErrConstraint)
}
