package frame

// Dataset is the closed union over the two execution modes every stage
// supports: a fully materialized Frame or a lazy Stream of Frames. Call
// sites type-switch over the two variants; there is no third.
type Dataset interface {
	isDataset()
}

// Materialized wraps a single in-memory Frame.
type Materialized struct {
	Frame *Frame
}

// Streaming wraps a lazy, single-pass Stream of Frames.
type Streaming struct {
	Stream Stream
}

func (Materialized) isDataset() {}
func (Streaming) isDataset()    {}
