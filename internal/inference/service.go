// Package inference turns the feature pipeline's output into scored
// forecasts, with optional persistence and response caching.
package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/internal/model"
	"github.com/jugesdebnath7/powercast/internal/pipeline"
	"github.com/jugesdebnath7/powercast/internal/store"
	"github.com/jugesdebnath7/powercast/pkg/cache"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// TimeColumn is the timestamp column forecasts are keyed by.
const TimeColumn = "datetime"

// Prediction is one forecast point.
type Prediction struct {
	Datetime time.Time `json:"datetime"`
	Value    float64   `json:"prediction"`
}

// Service runs the pipeline and scores its output with a trained model.
// repo and respCache are optional; nil disables them.
type Service struct {
	pipeline  *pipeline.Pipeline
	predictor model.Predictor
	version   string
	repo      *store.Repository
	respCache *cache.Cache
	cacheTTL  time.Duration
	log       *logger.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithRepository enables persistence of forecast runs.
func WithRepository(repo *store.Repository) Option {
	return func(s *Service) { s.repo = repo }
}

// WithCache enables response caching with the given TTL.
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.respCache = c
		s.cacheTTL = ttl
	}
}

// New creates an inference service.
func New(p *pipeline.Pipeline, predictor model.Predictor, version string, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		pipeline:  p,
		predictor: predictor,
		version:   version,
		cacheTTL:  cache.TTLShort,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the full pipeline and scores every row, returning
// forecasts in time order. Cached results are served when fresh.
func (s *Service) Run(ctx context.Context) ([]Prediction, error) {
	if s.respCache != nil {
		var cached []Prediction
		found, err := s.respCache.Get(ctx, cache.PredictionsKey(s.version), &cached)
		if err != nil {
			s.log.WithError(err).Warn("Prediction cache read failed")
		}
		if found {
			s.log.WithField("predictions", len(cached)).Debug("Serving cached forecast")
			return cached, nil
		}
	}

	data, err := s.pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}

	f, err := materialize(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("collect pipeline output: %w", err)
	}

	preds, err := s.score(f)
	if err != nil {
		return nil, err
	}

	s.persist(ctx, preds)
	return preds, nil
}

// score runs the model over the feature frame and pairs each value with
// its timestamp.
func (s *Service) score(f *frame.Frame) ([]Prediction, error) {
	ts, err := f.Column(TimeColumn)
	if err != nil {
		return nil, fmt.Errorf("timestamp column %q: %w", TimeColumn, err)
	}

	values, err := s.predictor.Predict(f)
	if err != nil {
		return nil, fmt.Errorf("model prediction: %w", err)
	}

	preds := make([]Prediction, 0, len(values))
	for i, v := range values {
		t, ok := ts.Time(i)
		if !ok {
			continue
		}
		preds = append(preds, Prediction{Datetime: t, Value: v})
	}

	s.log.WithFields(map[string]interface{}{
		"predictions": len(preds),
		"version":     s.version,
	}).Info("Forecast generated")
	return preds, nil
}

// persist writes the forecast to the cache and repository. Failures are
// logged but do not fail the request.
func (s *Service) persist(ctx context.Context, preds []Prediction) {
	if s.respCache != nil {
		if err := s.respCache.Set(ctx, cache.PredictionsKey(s.version), preds, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("Prediction cache write failed")
		}
	}

	if s.repo != nil {
		rows := make([]store.Prediction, len(preds))
		for i, p := range preds {
			rows[i] = store.Prediction{Datetime: p.Datetime, Value: p.Value}
		}
		if _, err := s.repo.SaveRun(ctx, s.version, rows); err != nil {
			s.log.WithError(err).Error("Failed to persist forecast run")
		}
	}
}

func materialize(ctx context.Context, d frame.Dataset) (*frame.Frame, error) {
	switch v := d.(type) {
	case frame.Materialized:
		return v.Frame, nil
	case frame.Streaming:
		return frame.Collect(ctx, v.Stream)
	default:
		return nil, fmt.Errorf("unsupported dataset type %T", d)
	}
}
