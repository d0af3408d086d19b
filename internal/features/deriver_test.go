package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// featureBatch builds a preprocessed batch of n hourly rows starting at
// start, with calendar components pre-extracted.
func featureBatch(t *testing.T, start time.Time, n int) *frame.Frame {
	t.Helper()

	times := make([]time.Time, n)
	loads := make([]float64, n)
	years := make([]int64, n)
	months := make([]int64, n)
	days := make([]int64, n)
	hours := make([]int64, n)
	dows := make([]int64, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		times[i] = ts
		loads[i] = float64(100 + i)
		years[i] = int64(ts.Year())
		months[i] = int64(ts.Month())
		days[i] = int64(ts.Day())
		hours[i] = int64(ts.Hour())
		dows[i] = int64((int(ts.Weekday()) + 6) % 7)
	}

	f, err := frame.New(
		frame.NewTime("datetime", times),
		frame.NewFloat("aep_mw", loads),
		frame.NewInt("datetime_year", years),
		frame.NewInt("datetime_month", months),
		frame.NewInt("datetime_day", days),
		frame.NewInt("datetime_hour", hours),
		frame.NewInt("datetime_dayofweek", dows),
	)
	require.NoError(t, err)
	return f
}

func newDeriver(dropNA bool) *Deriver {
	return New(Config{TargetColumn: "aep_mw", DropNA: dropNA}, logger.Nop())
}

func intAt(t *testing.T, f *frame.Frame, col string, i int) int64 {
	t.Helper()
	s, err := f.Column(col)
	require.NoError(t, err, col)
	v, ok := s.Int(i)
	require.True(t, ok, "%s[%d]", col, i)
	return v
}

func TestDerive_EmitsFullFeatureSet(t *testing.T) {
	// Monday 2024-07-01 00:00 UTC.
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 48))
	require.NoError(t, err)

	for _, col := range []string{
		"is_weekend", "is_holiday", "is_new_year_eve",
		"lag_24", "rolling_mean_24", "rolling_std_24",
		"datetime_hour_sin", "datetime_hour_cos",
		"datetime_dayofweek_sin", "datetime_dayofweek_cos",
		"datetime_month_sin", "datetime_month_cos",
		"hour_is_holiday", "hour_is_weekend",
		"is_night", "is_morning", "is_noon", "is_evening",
		"is_outlier",
	} {
		assert.True(t, out.HasColumn(col), col)
	}
	assert.Equal(t, 48, out.Len(), "row count unchanged without DropNA")
}

func TestDerive_PreconditionNamesMissingColumn(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	f := featureBatch(t, start, 4)
	f.DropColumn("datetime_dayofweek")

	_, err := newDeriver(false).Derive(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Contains(t, err.Error(), "datetime_dayofweek")
}

func TestDerive_PreconditionRejectsWrongType(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	f := featureBatch(t, start, 4)
	require.NoError(t, f.AddColumn(frame.NewString("aep_mw", []string{"a", "b", "c", "d"})))

	_, err := newDeriver(false).Derive(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestDerive_WeekendFlag(t *testing.T) {
	// Friday 2024-07-05 22:00 through the weekend.
	start := time.Date(2024, 7, 5, 22, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 4))
	require.NoError(t, err)

	assert.Equal(t, int64(0), intAt(t, out, "is_weekend", 0), "Friday 22:00")
	assert.Equal(t, int64(0), intAt(t, out, "is_weekend", 1), "Friday 23:00")
	assert.Equal(t, int64(1), intAt(t, out, "is_weekend", 2), "Saturday 00:00")
	assert.Equal(t, int64(1), intAt(t, out, "is_weekend", 3), "Saturday 01:00")
}

func TestDerive_HolidayFlag(t *testing.T) {
	// July 4th 2024 is Independence Day.
	start := time.Date(2024, 7, 3, 23, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 3))
	require.NoError(t, err)

	assert.Equal(t, int64(0), intAt(t, out, "is_holiday", 0), "July 3rd")
	assert.Equal(t, int64(1), intAt(t, out, "is_holiday", 1), "July 4th 00:00")
	assert.Equal(t, int64(1), intAt(t, out, "is_holiday", 2), "July 4th 01:00")
}

func TestDerive_NewYearEveFlag(t *testing.T) {
	start := time.Date(2024, 12, 30, 23, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 3))
	require.NoError(t, err)

	assert.Equal(t, int64(0), intAt(t, out, "is_new_year_eve", 0), "Dec 30")
	assert.Equal(t, int64(1), intAt(t, out, "is_new_year_eve", 1), "Dec 31 00:00")
	assert.Equal(t, int64(1), intAt(t, out, "is_new_year_eve", 2), "Dec 31 01:00")
}

func TestDerive_LagAndRolling(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 30))
	require.NoError(t, err)

	lag, _ := out.Column("lag_24")
	_, ok := lag.Float(23)
	assert.False(t, ok, "first 24 rows have no lag")

	v, ok := lag.Float(24)
	require.True(t, ok)
	assert.Equal(t, 100.0, v, "row 24 sees row 0's load")

	mean, _ := out.Column("rolling_mean_24")
	_, ok = mean.Float(23)
	assert.False(t, ok, "no full trailing window yet")

	v, ok = mean.Float(24)
	require.True(t, ok)
	// Mean of loads 100..123 over the 24 rows before row 24.
	assert.InDelta(t, 111.5, v, 1e-9)

	std, _ := out.Column("rolling_std_24")
	v, ok = std.Float(24)
	require.True(t, ok)
	assert.Greater(t, v, 0.0)
}

func TestDerive_RollingWindowExcludesCurrentRow(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	f := featureBatch(t, start, 26)

	// Spike the current row; the trailing window must not see it.
	target, _ := f.Column("aep_mw")
	target.SetFloat(25, 1e9)

	out, err := newDeriver(false).Derive(f)
	require.NoError(t, err)

	mean, _ := out.Column("rolling_mean_24")
	v, ok := mean.Float(25)
	require.True(t, ok)
	assert.Less(t, v, 1000.0)
}

func TestDerive_CyclicalEncodings(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 13))
	require.NoError(t, err)

	sin, _ := out.Column("datetime_hour_sin")
	cos, _ := out.Column("datetime_hour_cos")

	v, _ := sin.Float(0)
	assert.InDelta(t, 0.0, v, 1e-9, "hour 0")
	v, _ = cos.Float(0)
	assert.InDelta(t, 1.0, v, 1e-9, "hour 0")

	v, _ = sin.Float(6)
	assert.InDelta(t, 1.0, v, 1e-9, "hour 6 is a quarter turn")
	v, _ = cos.Float(12)
	assert.InDelta(t, -1.0, v, 1e-9, "hour 12 is a half turn")
}

func TestDerive_TimeOfDayFlagsAreExclusive(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 24))
	require.NoError(t, err)

	for i := 0; i < 24; i++ {
		sum := intAt(t, out, "is_night", i) +
			intAt(t, out, "is_morning", i) +
			intAt(t, out, "is_noon", i) +
			intAt(t, out, "is_evening", i)
		assert.Equal(t, int64(1), sum, "hour %d", i)
	}

	assert.Equal(t, int64(1), intAt(t, out, "is_night", 5))
	assert.Equal(t, int64(1), intAt(t, out, "is_morning", 6))
	assert.Equal(t, int64(1), intAt(t, out, "is_noon", 12))
	assert.Equal(t, int64(1), intAt(t, out, "is_evening", 18))
}

func TestDerive_OutlierFlagDoesNotModifyTarget(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	f := featureBatch(t, start, 30)

	target, _ := f.Column("aep_mw")
	target.SetFloat(10, 1e6)

	out, err := newDeriver(false).Derive(f)
	require.NoError(t, err)

	assert.Equal(t, int64(1), intAt(t, out, "is_outlier", 10))
	assert.Equal(t, int64(0), intAt(t, out, "is_outlier", 11))

	got, _ := out.Column("aep_mw")
	v, ok := got.Float(10)
	require.True(t, ok, "flagged value survives")
	assert.Equal(t, 1e6, v)
}

func TestDerive_DropNARemovesWarmupRows(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	out, err := newDeriver(true).Derive(featureBatch(t, start, 30))
	require.NoError(t, err)

	assert.Equal(t, 30-LagRows, out.Len())

	lag, _ := out.Column("lag_24")
	assert.Equal(t, 0, lag.NullCount())
}

func TestDerive_InteractionFeatures(t *testing.T) {
	// July 4th 2024 (Thursday, holiday) at 10:00.
	start := time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC)
	out, err := newDeriver(false).Derive(featureBatch(t, start, 1))
	require.NoError(t, err)

	assert.Equal(t, int64(10), intAt(t, out, "hour_is_holiday", 0))
	assert.Equal(t, int64(0), intAt(t, out, "hour_is_weekend", 0))
}

func TestDerive_InputNotMutated(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	in := featureBatch(t, start, 25)
	before := in.NumCols()

	_, err := newDeriver(true).Derive(in)
	require.NoError(t, err)

	assert.Equal(t, before, in.NumCols())
	assert.Equal(t, 25, in.Len())
}

func TestDerive_AllMissingTargetStillFlags(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	f := featureBatch(t, start, 3)
	loads := make([]float64, 3)
	for i := range loads {
		loads[i] = math.NaN()
	}
	require.NoError(t, f.AddColumn(frame.NewFloat("aep_mw", loads)))

	out, err := newDeriver(false).Derive(f)
	require.NoError(t, err)
	assert.Equal(t, int64(0), intAt(t, out, "is_outlier", 0))
}
