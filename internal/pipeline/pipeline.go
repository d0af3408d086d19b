// Package pipeline wires the stages end to end: ingest, clean, validate,
// preprocess, derive. Every stage accepts and returns a frame.Dataset,
// so callers run identically over one materialized batch or a lazy chunk
// stream.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jugesdebnath7/powercast/internal/engine"
	"github.com/jugesdebnath7/powercast/internal/features"
	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/internal/ingest"
	"github.com/jugesdebnath7/powercast/internal/schema"
	"github.com/jugesdebnath7/powercast/internal/validate"
	"github.com/jugesdebnath7/powercast/pkg/config"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// Pipeline runs the full data preparation flow.
type Pipeline struct {
	cfg          *config.Config
	cleaner      *engine.Engine
	validator    *validate.Validator
	preprocessor *engine.Engine
	deriver      *features.Deriver
	log          *logger.Logger
}

// New creates a pipeline from the canonical strategy tables and
// validation schema for the configured target column.
func New(cfg *config.Config, log *logger.Logger) *Pipeline {
	target := cfg.Pipeline.TargetColumn
	return &Pipeline{
		cfg:          cfg,
		cleaner:      engine.New(schema.CleaningTable(target), log),
		validator:    validate.New(validate.DefaultSchema(target), log),
		preprocessor: engine.New(schema.PreprocessingTable(target), log),
		deriver: features.New(features.Config{
			TargetColumn: target,
			DropNA:       cfg.Pipeline.DropNA,
		}, log),
		log: log,
	}
}

// Clean runs the cleaning strategy table over the dataset.
func (p *Pipeline) Clean(ctx context.Context, d frame.Dataset) (frame.Dataset, error) {
	p.log.Info("Starting data cleaning stage")
	out, err := p.cleaner.ApplyDataset(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("data cleaning: %w", err)
	}
	return out, nil
}

// Validate enforces the data contract over the dataset.
func (p *Pipeline) Validate(d frame.Dataset) (frame.Dataset, error) {
	p.log.Info("Starting data validation stage")
	out, err := p.validator.ValidateDataset(d)
	if err != nil {
		return nil, fmt.Errorf("data validation: %w", err)
	}
	return out, nil
}

// Preprocess runs the preprocessing strategy table over the dataset.
func (p *Pipeline) Preprocess(ctx context.Context, d frame.Dataset) (frame.Dataset, error) {
	p.log.Info("Starting data preprocessing stage")
	out, err := p.preprocessor.ApplyDataset(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("data preprocessing: %w", err)
	}
	return out, nil
}

// Derive computes the engineered features over the dataset.
func (p *Pipeline) Derive(d frame.Dataset) (frame.Dataset, error) {
	p.log.Info("Starting feature engineering stage")
	out, err := p.deriver.DeriveDataset(d)
	if err != nil {
		return nil, fmt.Errorf("feature engineering: %w", err)
	}
	return out, nil
}

// Run ingests the configured raw data directory and pushes it through
// every stage, returning the feature dataset in the ingestion's mode.
func (p *Pipeline) Run(ctx context.Context) (frame.Dataset, error) {
	ingestor, err := ingest.New(
		p.cfg.Data.RawPath,
		p.cfg.Data.FileType,
		p.cfg.Data.Lazy,
		p.cfg.Data.ChunkSize,
		p.log,
	)
	if err != nil {
		return nil, fmt.Errorf("data ingestion: %w", err)
	}

	data, err := ingestor.Ingest(ctx)
	if err != nil {
		return nil, fmt.Errorf("data ingestion: %w", err)
	}

	if data, err = p.Clean(ctx, data); err != nil {
		return nil, err
	}
	if data, err = p.Validate(data); err != nil {
		return nil, err
	}
	if data, err = p.Preprocess(ctx, data); err != nil {
		return nil, err
	}
	if data, err = p.Derive(data); err != nil {
		return nil, err
	}

	return p.preview(ctx, data), nil
}

// preview logs the shape of the first element without consuming it. The
// streaming variant forks the stream so the peeked chunk is still
// delivered downstream exactly once, in order.
func (p *Pipeline) preview(ctx context.Context, d frame.Dataset) frame.Dataset {
	switch v := d.(type) {
	case frame.Materialized:
		p.log.WithFields(map[string]interface{}{
			"rows":    v.Frame.Len(),
			"columns": v.Frame.NumCols(),
		}).Info("Pipeline output ready")
		return d
	case frame.Streaming:
		main, peek := frame.Tee(v.Stream)
		first, err := peek.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			p.log.Warn("Pipeline produced no chunks")
		case err != nil:
			// The same error resurfaces on the main branch; the real
			// consumer decides what to do with it.
			p.log.WithError(err).Debug("Preview failed")
		default:
			p.log.WithFields(map[string]interface{}{
				"rows":    first.Len(),
				"columns": first.NumCols(),
			}).Info("First chunk ready")
		}
		return frame.Streaming{Stream: main}
	default:
		return d
	}
}
