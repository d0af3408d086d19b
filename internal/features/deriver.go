// Package features derives the model's input columns from a cleaned,
// preprocessed batch: calendar flags, lags, rolling statistics, cyclical
// encodings, interactions, and an IQR outlier flag.
//
// Convention: timestamps live in a time-typed "datetime" column and the
// calendar components (datetime_year, datetime_month, datetime_day,
// datetime_hour, datetime_dayofweek) are pre-extracted integer columns;
// there is no index-based variant.
package features

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/internal/stats"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// ErrPrecondition is returned when a required input column is absent or
// mistyped. The whole batch is rejected; no partial feature set is ever
// returned.
var ErrPrecondition = errors.New("feature precondition violated")

// LagRows is the lag distance: one full day at hourly granularity.
const LagRows = 24

// RollingWindow is the trailing window for rolling statistics.
const RollingWindow = 24

// Config controls feature derivation.
type Config struct {
	// TargetColumn is the numeric column features are derived from.
	TargetColumn string
	// TimeColumn is the time-typed column; defaults to "datetime".
	TimeColumn string
	// DropNA drops rows carrying missing values introduced by the lag
	// and rolling steps. Default on.
	DropNA bool
}

// Deriver computes the fixed, ordered sequence of derived features.
type Deriver struct {
	cfg      Config
	calendar *cal.BusinessCalendar
	log      *logger.Logger
}

// New creates a Deriver with a US public-holiday calendar.
func New(cfg Config, log *logger.Logger) *Deriver {
	if cfg.TimeColumn == "" {
		cfg.TimeColumn = "datetime"
	}
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)
	return &Deriver{cfg: cfg, calendar: c, log: log}
}

// requiredColumns lists the integer calendar components that must be
// pre-extracted before derivation.
func (d *Deriver) requiredColumns() []string {
	tc := d.cfg.TimeColumn
	return []string{
		tc + "_year", tc + "_month", tc + "_day", tc + "_hour", tc + "_dayofweek",
	}
}

// Derive applies every feature step, in order, to a copy of the batch.
// Row order is never changed; row count only shrinks via the optional
// final NA drop. Any unmet precondition rejects the whole batch.
func (d *Deriver) Derive(f *frame.Frame) (*frame.Frame, error) {
	if err := d.checkPreconditions(f); err != nil {
		return nil, err
	}

	d.log.WithField("rows", f.Len()).Info("Starting feature derivation")
	out := f.Clone()

	d.addWeekendFlag(out)
	d.addHolidayFlag(out)
	d.addNewYearEveFlag(out)
	d.addLag(out)
	d.addRollingStats(out)
	d.addCyclicalEncodings(out)
	d.addInteractions(out)
	d.addTimeOfDayFlags(out)
	d.addOutlierFlag(out)

	if d.cfg.DropNA {
		out = d.dropMissingRows(out)
	}

	d.log.WithField("rows", out.Len()).Info("Feature derivation completed")
	return out, nil
}

// DeriveDataset derives features in either execution mode, returning the
// mode it received. Streaming derivation is lazy and per-chunk.
func (d *Deriver) DeriveDataset(dset frame.Dataset) (frame.Dataset, error) {
	switch v := dset.(type) {
	case frame.Materialized:
		out, err := d.Derive(v.Frame)
		if err != nil {
			return nil, err
		}
		return frame.Materialized{Frame: out}, nil
	case frame.Streaming:
		src := v.Stream
		return frame.Streaming{Stream: frame.FuncStream(func(ctx context.Context) (*frame.Frame, error) {
			chunk, err := src.Next(ctx)
			if err != nil {
				return nil, err
			}
			return d.Derive(chunk)
		})}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset type %T", dset)
	}
}

func (d *Deriver) checkPreconditions(f *frame.Frame) error {
	ts, err := f.Column(d.cfg.TimeColumn)
	if err != nil {
		return fmt.Errorf("%w: missing column %q", ErrPrecondition, d.cfg.TimeColumn)
	}
	if ts.DType() != frame.Time {
		return fmt.Errorf("%w: column %q is %s, expected time",
			ErrPrecondition, d.cfg.TimeColumn, ts.DType())
	}

	target, err := f.Column(d.cfg.TargetColumn)
	if err != nil {
		return fmt.Errorf("%w: missing column %q", ErrPrecondition, d.cfg.TargetColumn)
	}
	if target.DType() != frame.Float {
		return fmt.Errorf("%w: column %q is %s, expected float",
			ErrPrecondition, d.cfg.TargetColumn, target.DType())
	}

	for _, name := range d.requiredColumns() {
		if !f.HasColumn(name) {
			return fmt.Errorf("%w: missing column %q", ErrPrecondition, name)
		}
	}
	return nil
}

// addWeekendFlag sets is_weekend to 1 for Saturday and Sunday under the
// Monday=0 day-of-week convention.
func (d *Deriver) addWeekendFlag(f *frame.Frame) {
	dow, _ := f.Column(d.cfg.TimeColumn + "_dayofweek")
	flag := frame.NewSeries("is_weekend", frame.Int, f.Len())
	for i := 0; i < f.Len(); i++ {
		v, ok := dow.Int(i)
		flag.SetInt(i, boolToInt(ok && (v == 5 || v == 6)))
	}
	_ = f.AddColumn(flag)
}

// addHolidayFlag sets is_holiday to 1 when the date (time of day
// stripped) is a US public holiday, actual or observed.
func (d *Deriver) addHolidayFlag(f *frame.Frame) {
	ts, _ := f.Column(d.cfg.TimeColumn)
	flag := frame.NewSeries("is_holiday", frame.Int, f.Len())
	for i := 0; i < f.Len(); i++ {
		t, ok := ts.Time(i)
		if !ok {
			flag.SetInt(i, 0)
			continue
		}
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		actual, observed, _ := d.calendar.IsHoliday(date)
		flag.SetInt(i, boolToInt(actual || observed))
	}
	_ = f.AddColumn(flag)
}

// addNewYearEveFlag sets is_new_year_eve for December 31st.
func (d *Deriver) addNewYearEveFlag(f *frame.Frame) {
	month, _ := f.Column(d.cfg.TimeColumn + "_month")
	day, _ := f.Column(d.cfg.TimeColumn + "_day")
	flag := frame.NewSeries("is_new_year_eve", frame.Int, f.Len())
	for i := 0; i < f.Len(); i++ {
		m, mok := month.Int(i)
		dd, dok := day.Int(i)
		flag.SetInt(i, boolToInt(mok && dok && m == 12 && dd == 31))
	}
	_ = f.AddColumn(flag)
}

// addLag shifts the target by LagRows; the first LagRows rows are missing.
func (d *Deriver) addLag(f *frame.Frame) {
	target, _ := f.Column(d.cfg.TargetColumn)
	lag := frame.NewSeries(fmt.Sprintf("lag_%d", LagRows), frame.Float, f.Len())
	for i := LagRows; i < f.Len(); i++ {
		if v, ok := target.Float(i - LagRows); ok {
			lag.SetFloat(i, v)
		}
	}
	_ = f.AddColumn(lag)
}

// addRollingStats computes trailing mean and sample std over the
// RollingWindow rows strictly before the current row (the series shifted
// by one), so the window never includes the current value. Rows without
// a full window of present values stay missing.
func (d *Deriver) addRollingStats(f *frame.Frame) {
	target, _ := f.Column(d.cfg.TargetColumn)
	mean := frame.NewSeries(fmt.Sprintf("rolling_mean_%d", RollingWindow), frame.Float, f.Len())
	std := frame.NewSeries(fmt.Sprintf("rolling_std_%d", RollingWindow), frame.Float, f.Len())

	window := make([]float64, 0, RollingWindow)
	for i := RollingWindow; i < f.Len(); i++ {
		window = window[:0]
		complete := true
		for j := i - RollingWindow; j < i; j++ {
			v, ok := target.Float(j)
			if !ok {
				complete = false
				break
			}
			window = append(window, v)
		}
		if !complete {
			continue
		}
		mean.SetFloat(i, stats.Mean(window))
		std.SetFloat(i, stats.SampleStd(window))
	}

	_ = f.AddColumn(mean)
	_ = f.AddColumn(std)
}

// addCyclicalEncodings emits sine and cosine of 2π·value/period for hour
// (24), day-of-week (7) and month (12).
func (d *Deriver) addCyclicalEncodings(f *frame.Frame) {
	encodings := []struct {
		column string
		period float64
	}{
		{d.cfg.TimeColumn + "_hour", 24},
		{d.cfg.TimeColumn + "_dayofweek", 7},
		{d.cfg.TimeColumn + "_month", 12},
	}

	for _, enc := range encodings {
		src, _ := f.Column(enc.column)
		sin := frame.NewSeries(enc.column+"_sin", frame.Float, f.Len())
		cos := frame.NewSeries(enc.column+"_cos", frame.Float, f.Len())
		for i := 0; i < f.Len(); i++ {
			v, ok := src.Int(i)
			if !ok {
				continue
			}
			angle := 2 * math.Pi * float64(v) / enc.period
			sin.SetFloat(i, math.Sin(angle))
			cos.SetFloat(i, math.Cos(angle))
		}
		_ = f.AddColumn(sin)
		_ = f.AddColumn(cos)
	}
}

// addInteractions emits hour×holiday and hour×weekend products.
func (d *Deriver) addInteractions(f *frame.Frame) {
	hour, _ := f.Column(d.cfg.TimeColumn + "_hour")
	holiday, _ := f.Column("is_holiday")
	weekend, _ := f.Column("is_weekend")

	hh := frame.NewSeries("hour_is_holiday", frame.Int, f.Len())
	hw := frame.NewSeries("hour_is_weekend", frame.Int, f.Len())
	for i := 0; i < f.Len(); i++ {
		h, hok := hour.Int(i)
		if !hok {
			hh.SetInt(i, 0)
			hw.SetInt(i, 0)
			continue
		}
		hol, _ := holiday.Int(i)
		wkd, _ := weekend.Int(i)
		hh.SetInt(i, h*hol)
		hw.SetInt(i, h*wkd)
	}
	_ = f.AddColumn(hh)
	_ = f.AddColumn(hw)
}

// addTimeOfDayFlags emits four mutually exclusive hour-range indicators.
func (d *Deriver) addTimeOfDayFlags(f *frame.Frame) {
	hour, _ := f.Column(d.cfg.TimeColumn + "_hour")

	ranges := []struct {
		name   string
		lo, hi int64
	}{
		{"is_night", 0, 6},
		{"is_morning", 6, 12},
		{"is_noon", 12, 18},
		{"is_evening", 18, 24},
	}

	for _, r := range ranges {
		flag := frame.NewSeries(r.name, frame.Int, f.Len())
		for i := 0; i < f.Len(); i++ {
			h, ok := hour.Int(i)
			flag.SetInt(i, boolToInt(ok && h >= r.lo && h < r.hi))
		}
		_ = f.AddColumn(flag)
	}
}

// addOutlierFlag flags target values outside the IQR fence computed over
// the whole batch. Values are flagged, never removed or nulled.
func (d *Deriver) addOutlierFlag(f *frame.Frame) {
	target, _ := f.Column(d.cfg.TargetColumn)

	vals := make([]float64, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		if v, ok := target.Float(i); ok {
			vals = append(vals, v)
		}
	}

	flag := frame.NewSeries("is_outlier", frame.Int, f.Len())
	if len(vals) == 0 {
		for i := 0; i < f.Len(); i++ {
			flag.SetInt(i, 0)
		}
		_ = f.AddColumn(flag)
		return
	}

	lower, upper := stats.IQRBounds(vals)
	for i := 0; i < f.Len(); i++ {
		v, ok := target.Float(i)
		flag.SetInt(i, boolToInt(ok && (v < lower || v > upper)))
	}
	_ = f.AddColumn(flag)
}

// dropMissingRows removes rows carrying any missing value, as introduced
// by the lag and rolling steps.
func (d *Deriver) dropMissingRows(f *frame.Frame) *frame.Frame {
	mask := make([]bool, f.Len())
	dropped := 0
	for i := 0; i < f.Len(); i++ {
		keep := true
		for _, name := range f.Columns() {
			s, _ := f.Column(name)
			if !s.Valid(i) {
				keep = false
				break
			}
		}
		mask[i] = keep
		if !keep {
			dropped++
		}
	}
	if dropped == 0 {
		return f
	}
	d.log.WithField("rows", dropped).Debug("Dropped rows with missing values after lag/rolling steps")
	return f.Filter(mask)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
