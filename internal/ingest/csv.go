package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// readCSV eagerly reads one csv file with a header row.
func readCSV(path string) (*frame.Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, record)
	}

	return buildFrame(header, rows)
}

// csvChunkStream lazily reads csv files into fixed-size row chunks.
// Chunks never span files; an unreadable file is logged and skipped, the
// stream continues with the next one.
type csvChunkStream struct {
	files     []string
	chunkSize int
	log       *logger.Logger

	pos    int
	fh     *os.File
	reader *csv.Reader
	header []string
}

func newCSVChunkStream(files []string, chunkSize int, log *logger.Logger) *csvChunkStream {
	return &csvChunkStream{files: files, chunkSize: chunkSize, log: log}
}

// Next returns the next non-empty chunk, or io.EOF once every file is
// consumed.
func (s *csvChunkStream) Next(ctx context.Context) (*frame.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.reader == nil {
			if !s.openNextFile() {
				return nil, io.EOF
			}
		}

		rows := make([][]string, 0, s.chunkSize)
		for len(rows) < s.chunkSize {
			record, err := s.reader.Read()
			if errors.Is(err, io.EOF) {
				s.closeCurrent()
				break
			}
			if err != nil {
				s.log.WithError(err).Error("Failed reading csv chunk, moving to next file")
				s.closeCurrent()
				break
			}
			rows = append(rows, record)
		}

		if len(rows) == 0 {
			continue
		}

		chunk, err := buildFrame(s.header, rows)
		if err != nil {
			return nil, err
		}
		s.log.WithField("rows", chunk.Len()).Debug("Yielding csv chunk")
		return chunk, nil
	}
}

// openNextFile advances to the next readable file, reading its header.
// Returns false when no files remain.
func (s *csvChunkStream) openNextFile() bool {
	for s.pos < len(s.files) {
		path := s.files[s.pos]
		s.pos++

		fh, err := os.Open(path)
		if err != nil {
			s.log.WithField("file", path).WithError(err).Error("Failed to open file, skipping")
			continue
		}

		r := csv.NewReader(fh)
		r.FieldsPerRecord = -1
		header, err := r.Read()
		if err != nil {
			s.log.WithField("file", path).WithError(err).Error("Failed to read header, skipping")
			fh.Close()
			continue
		}

		s.fh = fh
		s.reader = r
		s.header = header
		s.log.WithField("file", path).Info("Reading file lazily in chunks")
		return true
	}
	return false
}

func (s *csvChunkStream) closeCurrent() {
	if s.fh != nil {
		s.fh.Close()
	}
	s.fh = nil
	s.reader = nil
}
