package frame

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Stream is a finite, ordered, single-pass sequence of Frames. Next
// returns io.EOF once the stream is exhausted; a consumer that stops
// pulling early simply leaves the remainder unread. Streams are not
// restartable; use Tee before inspecting an element that a downstream
// consumer still needs.
type Stream interface {
	Next(ctx context.Context) (*Frame, error)
}

// NewSliceStream returns a Stream over already-materialized frames.
func NewSliceStream(frames ...*Frame) Stream {
	return &sliceStream{frames: frames}
}

type sliceStream struct {
	frames []*Frame
	pos    int
}

func (s *sliceStream) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// FuncStream adapts a pull function to the Stream interface.
type FuncStream func(ctx context.Context) (*Frame, error)

// Next implements Stream.
func (fn FuncStream) Next(ctx context.Context) (*Frame, error) {
	return fn(ctx)
}

// Tee forks a stream into two independently advancing views. Every
// element of the source is delivered to both views exactly once, in
// order; whichever view runs ahead buffers for the other. The source
// must not be consumed directly after the fork.
func Tee(src Stream) (Stream, Stream) {
	sh := &teeShared{src: src}
	return &teeBranch{shared: sh, id: 0}, &teeBranch{shared: sh, id: 1}
}

type teeShared struct {
	mu   sync.Mutex
	src  Stream
	buf  [2][]*Frame
	err  error
	done bool
}

type teeBranch struct {
	shared *teeShared
	id     int
}

func (b *teeBranch) Next(ctx context.Context) (*Frame, error) {
	sh := b.shared
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if len(sh.buf[b.id]) > 0 {
		f := sh.buf[b.id][0]
		sh.buf[b.id] = sh.buf[b.id][1:]
		return f, nil
	}

	if sh.done {
		return nil, sh.err
	}

	f, err := sh.src.Next(ctx)
	if err != nil {
		sh.done = true
		sh.err = err
		return nil, err
	}

	other := 1 - b.id
	sh.buf[other] = append(sh.buf[other], f)
	return f, nil
}

// Collect drains a stream and concatenates its frames in arrival order.
// An empty stream yields an empty frame.
func Collect(ctx context.Context, s Stream) (*Frame, error) {
	var frames []*Frame
	for {
		f, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return Concat(frames...)
}
