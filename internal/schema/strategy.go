// Package schema defines the declarative transformation plan shared by
// the cleaning and preprocessing stages: a closed set of strategy kinds,
// a per-column plan selecting at most one strategy per kind, and an
// immutable table bundling the plan with the global cleaning steps.
package schema

// MissingStrategy selects how missing values in a column are filled.
type MissingStrategy int

const (
	MissingNone MissingStrategy = iota
	MissingMean
	MissingMedian
	MissingMode
	MissingForwardFill
	MissingBackwardFill
)

// String returns the configuration name of the strategy.
func (s MissingStrategy) String() string {
	switch s {
	case MissingMean:
		return "mean"
	case MissingMedian:
		return "median"
	case MissingMode:
		return "mode"
	case MissingForwardFill:
		return "ffill"
	case MissingBackwardFill:
		return "bfill"
	default:
		return "none"
	}
}

// ParseMissingStrategy maps a configuration name to a strategy.
func ParseMissingStrategy(name string) (MissingStrategy, bool) {
	switch name {
	case "", "none":
		return MissingNone, true
	case "mean":
		return MissingMean, true
	case "median":
		return MissingMedian, true
	case "mode":
		return MissingMode, true
	case "ffill":
		return MissingForwardFill, true
	case "bfill":
		return MissingBackwardFill, true
	default:
		return MissingNone, false
	}
}

// OutlierStrategy selects how outliers in a column are detected during
// cleaning. Cleaning-stage detection is destructive: detected values are
// nulled out so the subsequent fill is not skewed by them. The
// non-destructive flag lives in the feature deriver.
type OutlierStrategy int

const (
	OutlierNone OutlierStrategy = iota
	OutlierIQR
	OutlierZScore
)

// String returns the configuration name of the strategy.
func (s OutlierStrategy) String() string {
	switch s {
	case OutlierIQR:
		return "iqr"
	case OutlierZScore:
		return "zscore"
	default:
		return "none"
	}
}

// ParseOutlierStrategy maps a configuration name to a strategy.
func ParseOutlierStrategy(name string) (OutlierStrategy, bool) {
	switch name {
	case "", "none":
		return OutlierNone, true
	case "iqr":
		return OutlierIQR, true
	case "zscore":
		return OutlierZScore, true
	default:
		return OutlierNone, false
	}
}

// ScalingStrategy selects how a numeric column is rescaled.
type ScalingStrategy int

const (
	ScalingNone ScalingStrategy = iota
	ScalingMinMax
	ScalingZScore
)

// String returns the configuration name of the strategy.
func (s ScalingStrategy) String() string {
	switch s {
	case ScalingMinMax:
		return "minmax"
	case ScalingZScore:
		return "zscore"
	default:
		return "none"
	}
}

// ParseScalingStrategy maps a configuration name to a strategy.
func ParseScalingStrategy(name string) (ScalingStrategy, bool) {
	switch name {
	case "", "none":
		return ScalingNone, true
	case "minmax":
		return ScalingMinMax, true
	case "zscore", "standard":
		return ScalingZScore, true
	default:
		return ScalingNone, false
	}
}

// TransformStrategy selects a value-level transformation.
type TransformStrategy int

const (
	TransformNone TransformStrategy = iota
	// TransformLog replaces each value with its natural log. Values that
	// are missing or not strictly positive become missing, never errors.
	TransformLog
)

// String returns the configuration name of the strategy.
func (s TransformStrategy) String() string {
	if s == TransformLog {
		return "log"
	}
	return "none"
}

// ParseTransformStrategy maps a configuration name to a strategy.
func ParseTransformStrategy(name string) (TransformStrategy, bool) {
	switch name {
	case "", "none":
		return TransformNone, true
	case "log":
		return TransformLog, true
	default:
		return TransformNone, false
	}
}

// EncodingStrategy selects how a categorical column is encoded.
type EncodingStrategy int

const (
	EncodingNone EncodingStrategy = iota
	EncodingOneHot
	EncodingLabel
)

// String returns the configuration name of the strategy.
func (s EncodingStrategy) String() string {
	switch s {
	case EncodingOneHot:
		return "onehot"
	case EncodingLabel:
		return "label"
	default:
		return "none"
	}
}

// ParseEncodingStrategy maps a configuration name to a strategy.
func ParseEncodingStrategy(name string) (EncodingStrategy, bool) {
	switch name {
	case "", "none":
		return EncodingNone, true
	case "onehot":
		return EncodingOneHot, true
	case "label":
		return EncodingLabel, true
	default:
		return EncodingNone, false
	}
}

// ExtractStrategy selects derived-column extraction from a source column.
type ExtractStrategy int

const (
	ExtractNone ExtractStrategy = iota
	// ExtractCalendar derives year/month/day/hour/minute/second/dayofweek
	// integer columns from a timestamp column, named "<col>_year" and so on.
	ExtractCalendar
)

// String returns the configuration name of the strategy.
func (s ExtractStrategy) String() string {
	if s == ExtractCalendar {
		return "calendar"
	}
	return "none"
}

// ParseExtractStrategy maps a configuration name to a strategy.
func ParseExtractStrategy(name string) (ExtractStrategy, bool) {
	switch name {
	case "", "none":
		return ExtractNone, true
	case "calendar", "datetime_features":
		return ExtractCalendar, true
	default:
		return ExtractNone, false
	}
}

// ColumnPlan selects at most one strategy per kind for one column. The
// zero value skips every kind, which is also what unknown columns get.
type ColumnPlan struct {
	Missing   MissingStrategy
	Outlier   OutlierStrategy
	Scaling   ScalingStrategy
	Transform TransformStrategy
	Encoding  EncodingStrategy
	Extract   ExtractStrategy
}

// IsZero reports whether the plan skips every kind.
func (p ColumnPlan) IsZero() bool {
	return p == ColumnPlan{}
}
