package bufferlist

// Slice returns a List over frames [from, to) that shares sample storage
// with l. Only the chunks at the two edges are re-sliced; no samples are
// copied. Negative bounds count from the end.
func (l *List) Slice(from, to int) *List {
	from, to = l.Bounds(from, to)

	out := l.child()
	if from == to {
		out.recompute()

		return out
	}

	si, so := l.Offset(from)
	ei, eo := l.Offset(to)

	// to sits on the first frame of chunk ei, so that chunk is not part of
	// the range.
	if eo == 0 {
		ei--
		eo = l.chunks[ei].Len()
	}

	out.chunks = make([]*Chunk, 0, ei-si+1)

	for i := si; i <= ei; i++ {
		c := l.chunks[i]
		start, end := 0, c.Len()

		if i == si {
			start = so
		}

		if i == ei {
			end = eo
		}

		if start != 0 || end != c.Len() {
			c = c.Sub(start, end)
		}

		out.chunks = append(out.chunks, c)
	}

	out.recompute()

	return out
}

// Clone returns an independent deep copy of frames [from, to).
func (l *List) Clone(from, to int) *List {
	out := l.Slice(from, to)
	for i, c := range out.chunks {
		out.chunks[i] = c.Clone()
	}

	return out
}

// Copy materializes frames [srcStart, srcEnd) into dst at dstStart and
// returns dst. With a nil dst a chunk holding the range is returned instead;
// when the range lies within one chunk that result is a view sharing
// storage with the list.
//
// Bounds are clamped. A range outside the list yields dst unchanged, or an
// empty chunk when dst is nil.
func (l *List) Copy(dst *Chunk, dstStart, srcStart, srcEnd int) *Chunk {
	srcStart = max(srcStart, 0)
	srcEnd = min(srcEnd, l.length)

	if srcStart >= l.length || srcEnd <= 0 || srcStart >= srcEnd {
		if dst != nil {
			return dst
		}

		return NewChunk(l.numChans, 0, l.rate())
	}

	dstStart = max(dstStart, 0)

	if srcStart == 0 && srcEnd == l.length {
		if dst == nil {
			if len(l.chunks) == 1 {
				return l.chunks[0]
			}

			return Concat(l.chunks...)
		}

		offset := dstStart
		for _, c := range l.chunks {
			offset += copyFrames(dst, offset, c, 0, c.Len())
		}

		return dst
	}

	i, start := l.Offset(srcStart)
	remaining := srcEnd - srcStart

	if c := l.chunks[i]; remaining <= c.Len()-start {
		if dst == nil {
			return c.Sub(start, start+remaining)
		}

		copyFrames(dst, dstStart, c, start, start+remaining)

		return dst
	}

	if dst == nil {
		dst = NewChunk(l.numChans, remaining, l.rate())
	}

	offset := dstStart
	for ; i < len(l.chunks) && remaining > 0; i++ {
		c := l.chunks[i]
		n := min(c.Len()-start, remaining)

		copyFrames(dst, offset, c, start, start+n)

		offset += n
		remaining -= n
		start = 0
	}

	return dst
}

// Get returns the sample at frame index of channel. Channels a chunk does
// not have read as silence.
func (l *List) Get(index, channel int) float32 {
	index = normalize(index, l.length)
	if index >= l.length {
		return 0
	}

	i, local := l.Offset(index)

	c := l.chunks[i]
	if channel < 0 || channel >= c.NumChannels() {
		return 0
	}

	return c.At(local, channel)
}
