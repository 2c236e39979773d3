package bufferlist

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// End can be passed as an upper bound to mean "up to the end of the list".
const End = math.MaxInt

var (
	// ErrInvalidRepeatCount is returned by Repeat for negative counts.
	ErrInvalidRepeatCount = errors.New("invalid repeat count")
	// ErrByteAccess is returned by byte oriented reads. A List has no linear
	// byte address space.
	ErrByteAccess = errors.New("bufferlist does not support byte access")
)

// List is a mutable sequence of audio frames stored as a list of chunks.
//
// A List is not safe for concurrent use. Lists returned by Slice, Map and
// Copy may share sample storage with their source; use Clone for an
// independent copy.
type List struct {
	chunks []*Chunk

	length     int
	numChans   int
	sampleRate int

	defaultChans int
	defaultRate  int
}

// Option configures a new List.
type Option func(*List)

// WithChannels sets the channel count used while the list is empty and for
// chunks created from Frames or Samples sources. Defaults to 1.
func WithChannels(n int) Option {
	return func(l *List) {
		if n > 0 {
			l.defaultChans = n
		}
	}
}

// WithSampleRate sets the sample rate of generated chunks until a chunk with
// a known rate is appended. Defaults to DefaultSampleRate.
func WithSampleRate(rate int) Option {
	return func(l *List) {
		if rate > 0 {
			l.defaultRate = rate
		}
	}
}

// New creates an empty List.
func New(opts ...Option) *List {
	l := &List{defaultChans: 1, defaultRate: DefaultSampleRate}
	for _, opt := range opts {
		opt(l)
	}

	l.numChans = l.defaultChans

	return l
}

// From creates a List seeded with src.
func From(src Source, opts ...Option) *List {
	return New(opts...).Append(src)
}

// child returns an empty list that inherits the configuration and the
// current channel count and sample rate of l.
func (l *List) child() *List {
	return &List{
		numChans:     l.numChans,
		sampleRate:   l.sampleRate,
		defaultChans: l.defaultChans,
		defaultRate:  l.defaultRate,
	}
}

// Len returns the total number of frames.
func (l *List) Len() int { return l.length }

// NumChannels returns the widest channel count of any chunk, or the
// configured default for a list that never held wider chunks.
func (l *List) NumChannels() int { return l.numChans }

// SampleRate returns the sample rate of the first chunk appended, 0 if none.
func (l *List) SampleRate() int { return l.sampleRate }

// Duration returns Len in time units, 0 if the sample rate is unknown.
func (l *List) Duration() time.Duration { return framesDuration(l.length, l.sampleRate) }

// NumChunks returns the number of chunks backing the list.
func (l *List) NumChunks() int { return len(l.chunks) }

// Chunks returns the chunk sequence. The slice is a copy, the chunks are not.
func (l *List) Chunks() []*Chunk {
	return append([]*Chunk(nil), l.chunks...)
}

// Reset drops every chunk and zeroes the aggregates.
func (l *List) Reset() {
	l.chunks = nil
	l.length = 0
	l.numChans = l.defaultChans
	l.sampleRate = 0
}

// String implements the Stringer interface.
func (l *List) String() string {
	return fmt.Sprintf("bufferlist: %d frames, %d channels, %d Hz, %d chunks", l.length, l.numChans, l.sampleRate, len(l.chunks))
}

// ReadAt implements io.ReaderAt and always fails with ErrByteAccess.
func (l *List) ReadAt(p []byte, off int64) (int, error) {
	return 0, fmt.Errorf("%w: read of %d bytes at %d", ErrByteAccess, len(p), off)
}

// Offset maps a frame index in [0, Len()] to a chunk index and a frame
// offset within that chunk. An index equal to Len() resolves to the end of
// the last chunk.
func (l *List) Offset(index int) (chunk, local int) {
	if index <= 0 {
		return 0, 0
	}

	total := 0
	for i, c := range l.chunks {
		n := c.Len()
		if index < total+n || i == len(l.chunks)-1 {
			return i, index - total
		}

		total += n
	}

	return 0, 0
}

// boundary returns the index of the chunk that starts at frame index. The
// caller must have split at index first. Indices at or past the end map to
// len(chunks).
func (l *List) boundary(index int) int {
	if index >= l.length {
		return len(l.chunks)
	}

	i, _ := l.Offset(index)

	return i
}

// normalize clamps index into [0, length], counting negative values from
// the end.
func normalize(index, length int) int {
	if index < 0 {
		index += length
	}

	return max(0, min(index, length))
}

// Bounds resolves a [from, to) range the way every List method does:
// negative values count from the end, both ends are clamped to [0, Len()]
// and to never ends up before from.
func (l *List) Bounds(from, to int) (int, int) {
	from = normalize(from, l.length)
	to = normalize(to, l.length)

	return from, max(from, to)
}

// recompute drops empty chunks and rebuilds length and channel count. The
// channel count is the widest chunk but never below the configured default,
// the same rule appendChunk applies incrementally.
func (l *List) recompute() {
	kept := l.chunks[:0]
	length, numChans := 0, l.defaultChans

	for _, c := range l.chunks {
		if c.Len() == 0 {
			continue
		}

		kept = append(kept, c)
		length += c.Len()
		numChans = max(numChans, c.NumChannels())
	}

	clear(l.chunks[len(kept):])

	l.chunks = kept
	l.length = length
	l.numChans = numChans
}
