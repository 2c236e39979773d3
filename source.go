package bufferlist

import "slices"

// Source is anything that can be appended to a List: *Chunk, *List,
// Sequence, Frames or Samples.
type Source interface {
	source()
}

// Sequence appends each element in order.
type Sequence []Source

// Frames appends a silent chunk of that many frames with the current channel
// count and sample rate.
type Frames int

// Samples appends a single channel chunk holding the values, one per frame.
type Samples []float32

func (*Chunk) source()   {}
func (*List) source()    {}
func (Sequence) source() {}
func (Frames) source()   {}
func (Samples) source()  {}

// Append adds the sources to the end of the list and returns the list.
func (l *List) Append(srcs ...Source) *List {
	for _, src := range srcs {
		l.appendSource(src)
	}

	return l
}

func (l *List) appendSource(src Source) {
	switch s := src.(type) {
	case nil:
	case *Chunk:
		l.appendChunk(s)
	case *List:
		if s != nil {
			l.appendChunks(l.detach(s.chunks))
		}
	case Sequence:
		for _, item := range s {
			l.appendSource(item)
		}
	case Frames:
		if s > 0 {
			l.appendChunk(NewChunk(l.numChans, int(s), l.rate()))
		}
	case Samples:
		if len(s) > 0 {
			l.appendChunk(ChunkFromChannels(l.rate(), s))
		}
	default:
		panic("bufferlist: unknown source type")
	}
}

func (l *List) appendChunks(chunks []*Chunk) {
	for _, c := range chunks {
		l.appendChunk(c)
	}
}

// detach returns chunks with every chunk that l already holds replaced by a
// copy. A chunk appears at most once in a list.
func (l *List) detach(chunks []*Chunk) []*Chunk {
	out := slices.Clone(chunks)
	if len(l.chunks) == 0 {
		return out
	}

	held := make(map[*Chunk]struct{}, len(l.chunks))
	for _, c := range l.chunks {
		held[c] = struct{}{}
	}

	for i, c := range out {
		if _, ok := held[c]; ok {
			out[i] = c.Clone()
		}
	}

	return out
}

func (l *List) appendChunk(c *Chunk) {
	if c == nil || c.Len() == 0 {
		return
	}

	l.chunks = append(l.chunks, c)
	l.length += c.Len()
	l.numChans = max(l.numChans, c.NumChannels())

	if l.sampleRate == 0 {
		l.sampleRate = c.SampleRate()
	}
}

// rate is the sample rate given to generated chunks.
func (l *List) rate() int {
	if l.sampleRate > 0 {
		return l.sampleRate
	}

	return l.defaultRate
}
