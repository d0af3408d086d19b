// Package validate enforces the data contract between cleaning and
// preprocessing: required columns under canonical names and exact types,
// numeric lower bounds, and named row-level invariants. Violations are
// fatal and abort the whole batch; there is no partial validation report.
package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// Fatal validation failure classes.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrDTypeMismatch = errors.New("column dtype mismatch")
	ErrConstraint    = errors.New("value constraint violated")
	ErrCheckFailed   = errors.New("custom validation failed")
)

// RequiredColumn declares a column that must exist with an exact dtype.
type RequiredColumn struct {
	Name  string
	DType frame.DType
}

// MinConstraint declares a numeric lower bound on a column.
type MinConstraint struct {
	Column string
	Min    float64
}

// Check is a named row-level invariant. Every registered check runs on
// every batch; the first failure aborts validation.
type Check struct {
	Name string
	Fn   func(f *frame.Frame) error
}

// Schema is the validation contract for one dataset.
type Schema struct {
	Rename   map[string]string
	Required []RequiredColumn
	Minimums []MinConstraint
	Checks   []Check
}

// Validator validates batches or streams against a Schema.
type Validator struct {
	schema Schema
	log    *logger.Logger
}

// New creates a validator.
func New(schema Schema, log *logger.Logger) *Validator {
	return &Validator{schema: schema, log: log}
}

// Validate checks one batch, returning it (renamed to canonical column
// names) on success. Any violation is returned as an error naming the
// offending column or check; no partially validated batch is returned.
func (v *Validator) Validate(f *frame.Frame) (*frame.Frame, error) {
	out := f.Clone()
	out.Rename(v.schema.Rename)

	for _, req := range v.schema.Required {
		s, err := out.Column(req.Name)
		if err != nil {
			v.log.WithField("column", req.Name).Error("Required column missing")
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, req.Name)
		}
		if s.DType() != req.DType {
			v.log.WithFields(map[string]interface{}{
				"column":   req.Name,
				"dtype":    s.DType().String(),
				"expected": req.DType.String(),
			}).Error("Required column has wrong dtype")
			return nil, fmt.Errorf("%w: column %q is %s, expected %s",
				ErrDTypeMismatch, req.Name, s.DType(), req.DType)
		}
	}

	for _, c := range v.schema.Minimums {
		s, err := out.Column(c.Column)
		if err != nil {
			continue
		}
		for i := 0; i < s.Len(); i++ {
			val, ok := s.Number(i)
			if !ok {
				continue
			}
			if val < c.Min {
				v.log.WithFields(map[string]interface{}{
					"column": c.Column,
					"min":    c.Min,
					"value":  val,
				}).Error("Value below declared minimum")
				return nil, fmt.Errorf("%w: column %q has value %v below minimum %v",
					ErrConstraint, c.Column, val, c.Min)
			}
		}
	}

	for _, check := range v.schema.Checks {
		v.log.WithField("check", check.Name).Debug("Running custom validation")
		if err := check.Fn(out); err != nil {
			v.log.WithFields(map[string]interface{}{
				"check": check.Name,
			}).WithError(err).Error("Custom validation failed")
			return nil, fmt.Errorf("%w: %s: %v", ErrCheckFailed, check.Name, err)
		}
	}

	v.log.Info("Batch validation passed")
	return out, nil
}

// ValidateDataset validates either execution mode, returning the mode it
// received. Streaming validation is lazy and per-chunk; the first
// invalid chunk fails the pull that produced it.
func (v *Validator) ValidateDataset(d frame.Dataset) (frame.Dataset, error) {
	switch val := d.(type) {
	case frame.Materialized:
		out, err := v.Validate(val.Frame)
		if err != nil {
			return nil, err
		}
		return frame.Materialized{Frame: out}, nil
	case frame.Streaming:
		src := val.Stream
		return frame.Streaming{Stream: frame.FuncStream(func(ctx context.Context) (*frame.Frame, error) {
			chunk, err := src.Next(ctx)
			if err != nil {
				return nil, err
			}
			return v.Validate(chunk)
		})}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset type %T", d)
	}
}
