// Package engine interprets a schema.Table against tabular batches. One
// Engine instance owns one immutable table; Apply runs the global steps
// and the per-column strategies in a fixed order, and ApplyDataset
// extends the same contract over both execution modes.
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/internal/schema"
	"github.com/jugesdebnath7/powercast/internal/stats"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// Engine applies one strategy table to batches.
type Engine struct {
	table schema.Table
	log   *logger.Logger
}

// New creates an engine for the given table.
func New(table schema.Table, log *logger.Logger) *Engine {
	return &Engine{table: table, log: log}
}

// Apply runs the full transformation over one batch and returns a new
// batch; the input is never mutated. Order is fixed: rename, time
// coercion, sort, exact-row dedup, key dedup, then per-column kinds with
// outlier detection strictly before missing-value filling.
func (e *Engine) Apply(f *frame.Frame) (*frame.Frame, error) {
	out := f.Clone()

	out.Rename(e.table.Rename())
	e.coerceTimeColumns(out)
	e.sortRows(out)
	out = e.dropExactDuplicates(out)
	out = e.dropKeyDuplicates(out, make(map[string]struct{}))

	if err := e.applyColumnPlans(out); err != nil {
		return nil, err
	}
	return out, nil
}

// coerceTimeColumns parses the designated columns into timestamps.
// Individual values that fail to parse become missing; only the failure
// count is logged. An absent column is logged and skipped.
func (e *Engine) coerceTimeColumns(f *frame.Frame) {
	for _, name := range e.table.TimeColumns() {
		s, err := f.Column(name)
		if err != nil {
			e.log.WithField("column", name).Warn("Time column not found in batch")
			continue
		}
		if s.DType() == frame.Time {
			continue
		}

		coerced := frame.NewSeries(name, frame.Time, s.Len())
		failures := 0
		for i := 0; i < s.Len(); i++ {
			if !s.Valid(i) {
				continue
			}
			raw, ok := s.Str(i)
			if !ok {
				failures++
				continue
			}
			t, ok := parseTime(raw)
			if !ok {
				failures++
				continue
			}
			coerced.SetTime(i, t)
		}
		// Lengths match; AddColumn replaces in place.
		_ = f.AddColumn(coerced)

		if failures > 0 {
			e.log.WithFields(map[string]interface{}{
				"column":   name,
				"failures": failures,
			}).Warn("Coerced invalid values to missing during time conversion")
		} else {
			e.log.WithField("column", name).Debug("Converted column to time")
		}
	}
}

// timeLayouts are tried in order when coercing strings to timestamps.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortRows orders the batch by the designated sort column. An absent or
// non-time sort column is logged and skipped, never a failure.
func (e *Engine) sortRows(f *frame.Frame) {
	col := e.table.SortColumn()
	if col == "" {
		return
	}
	if !f.HasColumn(col) {
		e.log.WithField("column", col).Warn("Sort column not found, skipping sort")
		return
	}
	if err := f.SortByTime(col); err != nil {
		e.log.WithError(err).Warn("Skipping sort")
		return
	}
	e.log.WithField("column", col).Debug("Sorted batch")
}

// dropExactDuplicates removes rows that repeat an earlier row on every
// column, keeping the first occurrence.
func (e *Engine) dropExactDuplicates(f *frame.Frame) *frame.Frame {
	if !e.table.DropExactDuplicates() || f.Len() == 0 {
		return f
	}

	columns := f.Columns()
	seen := make(map[string]struct{}, f.Len())
	mask := make([]bool, f.Len())
	dropped := 0
	for i := 0; i < f.Len(); i++ {
		key, err := f.RowKey(i, columns)
		if err != nil {
			mask[i] = true
			continue
		}
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		mask[i] = true
	}

	if dropped == 0 {
		return f
	}
	e.log.WithField("rows", dropped).Info("Dropped exact duplicate rows")
	return f.Filter(mask)
}

// dropKeyDuplicates removes rows whose key-column values repeat a key in
// seen or an earlier row, keeping the first arrival. The caller owns the
// seen set; passing a shared set extends dedup across chunk boundaries.
// A batch missing any key column is returned unmodified with an error
// logged.
func (e *Engine) dropKeyDuplicates(f *frame.Frame, seen map[string]struct{}) *frame.Frame {
	keyCols := e.table.KeyColumns()
	if len(keyCols) == 0 || f.Len() == 0 {
		return f
	}

	var missing []string
	for _, col := range keyCols {
		if !f.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		e.log.WithField("columns", missing).Error("Batch missing key columns for deduplication")
		return f
	}

	mask := make([]bool, f.Len())
	dropped := 0
	for i := 0; i < f.Len(); i++ {
		key, err := f.RowKey(i, keyCols)
		if err != nil {
			mask[i] = true
			continue
		}
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		mask[i] = true
	}

	if dropped == 0 {
		return f
	}
	e.log.WithFields(map[string]interface{}{
		"rows":    dropped,
		"columns": keyCols,
	}).Info("Removed duplicate rows by key")
	return f.Filter(mask)
}

// kindOrder fixes the order per-column kinds run in. Outlier detection
// precedes filling so fills are not skewed by values about to be nulled.
var kindOrder = []func(e *Engine, f *frame.Frame, col string, plan schema.ColumnPlan){
	(*Engine).applyOutlier,
	(*Engine).applyMissing,
	(*Engine).applyScaling,
	(*Engine).applyTransform,
	(*Engine).applyEncoding,
	(*Engine).applyExtract,
}

// applyColumnPlans runs every planned kind over every planned column,
// kind-major, in the fixed kind order. A planned column absent from the
// batch is logged and skipped.
func (e *Engine) applyColumnPlans(f *frame.Frame) error {
	for _, kind := range kindOrder {
		for _, col := range e.table.PlanColumns() {
			plan := e.table.Plan(col)
			if plan.IsZero() {
				continue
			}
			if !f.HasColumn(col) {
				e.log.WithField("column", col).Debug("Planned column not in batch, skipping")
				continue
			}
			kind(e, f, col, plan)
		}
	}
	return nil
}

// numericValues gathers the present values of a numeric column.
func numericValues(s *frame.Series) []float64 {
	vals := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if v, ok := s.Number(i); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

func (e *Engine) applyOutlier(f *frame.Frame, col string, plan schema.ColumnPlan) {
	if plan.Outlier == schema.OutlierNone {
		return
	}
	s, _ := f.Column(col)
	if s.DType() != frame.Float {
		e.log.WithFields(map[string]interface{}{
			"column": col, "dtype": s.DType().String(),
		}).Warn("Outlier detection needs a float column, skipping")
		return
	}

	vals := numericValues(s)
	if len(vals) == 0 {
		return
	}

	var lower, upper float64
	switch plan.Outlier {
	case schema.OutlierIQR:
		lower, upper = stats.IQRBounds(vals)
	case schema.OutlierZScore:
		mean := stats.Mean(vals)
		std := stats.SampleStd(vals)
		if math.IsNaN(std) {
			return
		}
		lower, upper = mean-3*std, mean+3*std
	}

	nulled := 0
	for i := 0; i < s.Len(); i++ {
		v, ok := s.Float(i)
		if !ok {
			continue
		}
		if v < lower || v > upper {
			s.SetMissing(i)
			nulled++
		}
	}
	e.log.WithFields(map[string]interface{}{
		"column":   col,
		"strategy": plan.Outlier.String(),
		"nulled":   nulled,
	}).Debug("Applied outlier detection")
}

func (e *Engine) applyMissing(f *frame.Frame, col string, plan schema.ColumnPlan) {
	if plan.Missing == schema.MissingNone {
		return
	}
	s, _ := f.Column(col)

	switch plan.Missing {
	case schema.MissingMean, schema.MissingMedian:
		if s.DType() != frame.Float {
			e.log.WithFields(map[string]interface{}{
				"column": col, "strategy": plan.Missing.String(),
			}).Warn("Numeric fill needs a float column, skipping")
			return
		}
		vals := numericValues(s)
		if len(vals) == 0 {
			return
		}
		fill := stats.Mean(vals)
		if plan.Missing == schema.MissingMedian {
			fill = stats.Median(vals)
		}
		for i := 0; i < s.Len(); i++ {
			if !s.Valid(i) {
				s.SetFloat(i, fill)
			}
		}
	case schema.MissingMode:
		fillMode(s)
	case schema.MissingForwardFill:
		fillForward(s)
	case schema.MissingBackwardFill:
		fillBackward(s)
	}

	e.log.WithFields(map[string]interface{}{
		"column":   col,
		"strategy": plan.Missing.String(),
	}).Debug("Filled missing values")
}

// fillMode fills missing slots with the most frequent value; ties break
// toward the smallest value for determinism.
func fillMode(s *frame.Series) {
	counts := make(map[string]int)
	rows := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		if !s.Valid(i) {
			continue
		}
		k := s.ValueString(i)
		counts[k]++
		if _, ok := rows[k]; !ok {
			rows[k] = i
		}
	}
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}

	src := rows[best]
	for i := 0; i < s.Len(); i++ {
		if s.Valid(i) {
			continue
		}
		copyValue(s, i, src)
	}
}

func fillForward(s *frame.Series) {
	last := -1
	for i := 0; i < s.Len(); i++ {
		if s.Valid(i) {
			last = i
			continue
		}
		if last >= 0 {
			copyValue(s, i, last)
		}
	}
}

func fillBackward(s *frame.Series) {
	next := -1
	for i := s.Len() - 1; i >= 0; i-- {
		if s.Valid(i) {
			next = i
			continue
		}
		if next >= 0 {
			copyValue(s, i, next)
		}
	}
}

// copyValue copies the value at row src onto row dst of the same series.
func copyValue(s *frame.Series, dst, src int) {
	switch s.DType() {
	case frame.Float:
		if v, ok := s.Float(src); ok {
			s.SetFloat(dst, v)
		}
	case frame.Int:
		if v, ok := s.Int(src); ok {
			s.SetInt(dst, v)
		}
	case frame.String:
		if v, ok := s.Str(src); ok {
			s.SetString(dst, v)
		}
	case frame.Time:
		if v, ok := s.Time(src); ok {
			s.SetTime(dst, v)
		}
	}
}

func (e *Engine) applyScaling(f *frame.Frame, col string, plan schema.ColumnPlan) {
	if plan.Scaling == schema.ScalingNone {
		return
	}
	s, _ := f.Column(col)
	if s.DType() != frame.Float {
		e.log.WithFields(map[string]interface{}{
			"column": col, "dtype": s.DType().String(),
		}).Warn("Scaling needs a float column, skipping")
		return
	}

	vals := numericValues(s)
	if len(vals) == 0 {
		return
	}

	var scale func(v float64) float64
	switch plan.Scaling {
	case schema.ScalingMinMax:
		min, max := stats.MinMax(vals)
		span := max - min
		scale = func(v float64) float64 {
			if span == 0 {
				return 0
			}
			return (v - min) / span
		}
	case schema.ScalingZScore:
		mean := stats.Mean(vals)
		std := stats.SampleStd(vals)
		scale = func(v float64) float64 {
			if std == 0 || math.IsNaN(std) {
				return 0
			}
			return (v - mean) / std
		}
	}

	for i := 0; i < s.Len(); i++ {
		if v, ok := s.Float(i); ok {
			s.SetFloat(i, scale(v))
		}
	}
	e.log.WithFields(map[string]interface{}{
		"column":   col,
		"strategy": plan.Scaling.String(),
	}).Debug("Scaled column")
}

func (e *Engine) applyTransform(f *frame.Frame, col string, plan schema.ColumnPlan) {
	if plan.Transform != schema.TransformLog {
		return
	}
	s, _ := f.Column(col)
	if s.DType() != frame.Float {
		e.log.WithFields(map[string]interface{}{
			"column": col, "dtype": s.DType().String(),
		}).Warn("Log transform needs a float column, skipping")
		return
	}

	for i := 0; i < s.Len(); i++ {
		v, ok := s.Float(i)
		if !ok {
			continue
		}
		if v > 0 {
			s.SetFloat(i, math.Log(v))
		} else {
			s.SetMissing(i)
		}
	}
	e.log.WithField("column", col).Debug("Applied log transform")
}

func (e *Engine) applyEncoding(f *frame.Frame, col string, plan schema.ColumnPlan) {
	if plan.Encoding == schema.EncodingNone {
		return
	}
	s, _ := f.Column(col)
	if s.DType() != frame.String {
		e.log.WithFields(map[string]interface{}{
			"column": col, "dtype": s.DType().String(),
		}).Warn("Encoding needs a string column, skipping")
		return
	}

	distinct := make(map[string]struct{})
	for i := 0; i < s.Len(); i++ {
		if v, ok := s.Str(i); ok {
			distinct[v] = struct{}{}
		}
	}
	categories := make([]string, 0, len(distinct))
	for v := range distinct {
		categories = append(categories, v)
	}
	sort.Strings(categories)

	switch plan.Encoding {
	case schema.EncodingOneHot:
		// Rows with a missing category get zeros in every indicator.
		for _, cat := range categories {
			dummy := frame.NewSeries(col+"_"+cat, frame.Int, s.Len())
			for i := 0; i < s.Len(); i++ {
				v, ok := s.Str(i)
				if ok && v == cat {
					dummy.SetInt(i, 1)
				} else {
					dummy.SetInt(i, 0)
				}
			}
			_ = f.AddColumn(dummy)
		}
		f.DropColumn(col)
	case schema.EncodingLabel:
		codes := make(map[string]int64, len(categories))
		for i, cat := range categories {
			codes[cat] = int64(i)
		}
		encoded := frame.NewSeries(col, frame.Int, s.Len())
		for i := 0; i < s.Len(); i++ {
			if v, ok := s.Str(i); ok {
				encoded.SetInt(i, codes[v])
			} else {
				encoded.SetInt(i, -1)
			}
		}
		_ = f.AddColumn(encoded)
	}

	e.log.WithFields(map[string]interface{}{
		"column":     col,
		"strategy":   plan.Encoding.String(),
		"categories": len(categories),
	}).Debug("Encoded column")
}

func (e *Engine) applyExtract(f *frame.Frame, col string, plan schema.ColumnPlan) {
	if plan.Extract != schema.ExtractCalendar {
		return
	}
	s, _ := f.Column(col)
	if s.DType() != frame.Time {
		e.log.WithFields(map[string]interface{}{
			"column": col, "dtype": s.DType().String(),
		}).Warn("Calendar extraction needs a time column, skipping")
		return
	}

	parts := []struct {
		suffix string
		value  func(t time.Time) int64
	}{
		{"year", func(t time.Time) int64 { return int64(t.Year()) }},
		{"month", func(t time.Time) int64 { return int64(t.Month()) }},
		{"day", func(t time.Time) int64 { return int64(t.Day()) }},
		{"hour", func(t time.Time) int64 { return int64(t.Hour()) }},
		{"minute", func(t time.Time) int64 { return int64(t.Minute()) }},
		{"second", func(t time.Time) int64 { return int64(t.Second()) }},
		// Monday=0 through Sunday=6.
		{"dayofweek", func(t time.Time) int64 { return int64((int(t.Weekday()) + 6) % 7) }},
	}

	for _, p := range parts {
		out := frame.NewSeries(col+"_"+p.suffix, frame.Int, s.Len())
		for i := 0; i < s.Len(); i++ {
			if t, ok := s.Time(i); ok {
				out.SetInt(i, p.value(t))
			}
		}
		_ = f.AddColumn(out)
	}

	e.log.WithField("column", col).Debug("Extracted calendar components")
}
