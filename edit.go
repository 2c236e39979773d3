package bufferlist

import (
	"fmt"
	"slices"
)

// Split makes sure a chunk boundary exists at every index. Indices are
// processed in order, negative ones count from the end. Splitting at an
// existing boundary does nothing.
func (l *List) Split(indices ...int) *List {
	for _, index := range indices {
		if len(l.chunks) == 0 {
			return l
		}

		i, local := l.Offset(normalize(index, l.length))

		c := l.chunks[i]
		if local <= 0 || local >= c.Len() {
			continue
		}

		l.chunks = slices.Replace(l.chunks, i, i+1, c.Sub(0, local), c.Sub(local, c.Len()))
	}

	return l
}

// Insert places src at frame offset. Negative offsets count from the end,
// offsets past the end append.
func (l *List) Insert(offset int, src Source) *List {
	offset = normalize(offset, l.length)

	ins := l.child().Append(src)
	if ins.length == 0 {
		return l
	}

	ins.chunks = l.detach(ins.chunks)

	l.Split(offset)
	at := l.boundary(offset)

	l.chunks = slices.Insert(l.chunks, at, ins.chunks...)
	l.length += ins.length
	l.numChans = max(l.numChans, ins.numChans)

	if l.sampleRate == 0 {
		l.sampleRate = ins.sampleRate
	}

	return l
}

// Remove cuts count frames starting at offset and returns them as a new
// List. A negative count removes the frames that end at offset. The count is
// clamped to the frames available. When nothing could be removed it returns
// nil and false.
func (l *List) Remove(offset, count int) (*List, bool) {
	if l.length == 0 {
		return nil, false
	}

	offset = normalize(offset, l.length)

	if count < 0 {
		count = max(count, -offset)
		offset += count
		count = -count
	}

	count = min(count, l.length-offset)
	if count <= 0 {
		return nil, false
	}

	l.Split(offset, offset+count)
	lo, hi := l.boundary(offset), l.boundary(offset+count)

	removed := l.child()
	removed.chunks = slices.Clone(l.chunks[lo:hi])
	removed.recompute()

	l.chunks = slices.Delete(l.chunks, lo, hi)
	l.recompute()

	return removed, true
}

// Consume drops n frames from the start of the list.
func (l *List) Consume(n int) *List {
	if n > 0 {
		l.Remove(0, n)
	}

	return l
}

// Join merges the chunks covering [from, to) into a single chunk.
func (l *List) Join(from, to int) *List {
	from, to = l.Bounds(from, to)
	if from == to {
		return l
	}

	first, _ := l.Offset(from)
	last, _ := l.Offset(to - 1)

	if first == last {
		return l
	}

	l.Split(from, to)
	lo, hi := l.boundary(from), l.boundary(to)

	l.chunks = slices.Replace(l.chunks, lo, hi, Concat(l.chunks[lo:hi]...))

	return l
}

// Repeat tiles the content times times. Zero empties the list.
func (l *List) Repeat(times int) error {
	if times < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRepeatCount, times)
	}

	switch times {
	case 0:
		clear(l.chunks)
		l.chunks = l.chunks[:0]
		l.recompute()

		return nil
	case 1:
		return nil
	}

	orig := l.Chunks()
	for range times - 1 {
		for _, c := range orig {
			l.appendChunk(c.Clone())
		}
	}

	return nil
}

// Reverse reverses the frame order of [from, to) in place.
func (l *List) Reverse(from, to int) *List {
	from, to = l.Bounds(from, to)
	if from == to {
		return l
	}

	l.Split(from, to)
	lo, hi := l.boundary(from), l.boundary(to)

	for _, c := range l.chunks[lo:hi] {
		c.Reverse()
	}

	slices.Reverse(l.chunks[lo:hi])

	return l
}
