// Package ingest reads tabular files (csv, json, parquet, xlsx) from a
// directory into frames, eagerly or as a lazy chunk stream. Values are
// type-inferred as float or string; timestamp coercion belongs to the
// cleaning engine downstream.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// Ingestor reads data files from one directory.
type Ingestor struct {
	dir       string
	format    string
	lazy      bool
	chunkSize int
	log       *logger.Logger
}

// New creates an Ingestor. The directory must exist and the format must
// be one of csv, json, parquet, xlsx.
func New(dir, format string, lazy bool, chunkSize int, log *logger.Logger) (*Ingestor, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data path %q does not exist or is not a directory", dir)
	}

	switch format {
	case "csv", "json", "parquet", "xlsx":
	default:
		return nil, fmt.Errorf("unsupported file type: %s", format)
	}

	if chunkSize <= 0 {
		chunkSize = 100_000
	}

	return &Ingestor{
		dir:       dir,
		format:    format,
		lazy:      lazy,
		chunkSize: chunkSize,
		log:       log,
	}, nil
}

// Ingest reads the directory and returns a Materialized dataset in eager
// mode or a Streaming dataset in lazy mode. Lazy mode supports csv only.
func (g *Ingestor) Ingest(ctx context.Context) (frame.Dataset, error) {
	files, err := g.listFiles()
	if err != nil {
		return nil, err
	}

	if g.lazy {
		if g.format != "csv" {
			return nil, fmt.Errorf("lazy loading not supported for %s", g.format)
		}
		g.log.WithFields(map[string]interface{}{
			"files":      len(files),
			"chunk_size": g.chunkSize,
		}).Info("Lazy ingestion")
		return frame.Streaming{Stream: newCSVChunkStream(files, g.chunkSize, g.log)}, nil
	}

	g.log.WithField("files", len(files)).Info("Eager ingestion")

	var frames []*frame.Frame
	for _, file := range files {
		f, err := g.readFile(ctx, file)
		if err != nil {
			g.log.WithField("file", file).WithError(err).Error("Failed to read file, skipping")
			continue
		}
		frames = append(frames, f)
	}

	if len(frames) == 0 {
		g.log.Warn("No files read successfully, returning empty batch")
		empty, _ := frame.New()
		return frame.Materialized{Frame: empty}, nil
	}

	combined, err := frame.Concat(frames...)
	if err != nil {
		return nil, fmt.Errorf("combine ingested files: %w", err)
	}

	g.log.WithFields(map[string]interface{}{
		"rows":    combined.Len(),
		"columns": combined.NumCols(),
	}).Info("Data ingested")
	return frame.Materialized{Frame: combined}, nil
}

// listFiles globs the directory for the configured extension. No
// matching files at all is fatal.
func (g *Ingestor) listFiles() ([]string, error) {
	pattern := filepath.Join(g.dir, "*."+g.format)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", g.format, g.dir)
	}
	sort.Strings(files)
	return files, nil
}

func (g *Ingestor) readFile(ctx context.Context, path string) (*frame.Frame, error) {
	switch g.format {
	case "csv":
		return readCSV(path)
	case "json":
		return readJSON(path)
	case "parquet":
		return readParquet(ctx, path)
	case "xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", g.format)
	}
}
