package engine

import (
	"context"
	"fmt"

	"github.com/jugesdebnath7/powercast/internal/frame"
)

// ApplyDataset runs the engine over either execution mode and returns
// the same mode it received. The streaming variant is lazy: each chunk
// is transformed as it is pulled, and key-based deduplication extends
// across chunk boundaries for the lifetime of that one stream.
func (e *Engine) ApplyDataset(ctx context.Context, d frame.Dataset) (frame.Dataset, error) {
	switch v := d.(type) {
	case frame.Materialized:
		out, err := e.Apply(v.Frame)
		if err != nil {
			return nil, err
		}
		return frame.Materialized{Frame: out}, nil
	case frame.Streaming:
		return frame.Streaming{Stream: &streamAdapter{
			engine: e,
			src:    v.Stream,
			seen:   make(map[string]struct{}),
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset type %T", d)
	}
}

// streamAdapter transforms chunks one at a time. The seen set is owned
// by exactly one adapter and lives for one traversal of one stream; it
// is discarded with the adapter when the stream is exhausted.
type streamAdapter struct {
	engine *Engine
	src    frame.Stream
	seen   map[string]struct{}
}

// Next pulls the next source chunk, applies the full transformation,
// then drops rows whose key was already observed in any earlier chunk.
// Errors from the source (including io.EOF) pass through unchanged.
func (a *streamAdapter) Next(ctx context.Context) (*frame.Frame, error) {
	chunk, err := a.src.Next(ctx)
	if err != nil {
		return nil, err
	}

	out, err := a.engine.Apply(chunk)
	if err != nil {
		return nil, err
	}

	if len(a.engine.table.KeyColumns()) > 0 {
		out = a.engine.dropKeyDuplicates(out, a.seen)
	}
	return out, nil
}
