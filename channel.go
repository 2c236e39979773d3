package bufferlist

// CopyFromChannel copies channel samples of frames [from, to) into dst,
// dst[0] receiving frame from. The range is clipped to len(dst). Chunks that
// lack the channel contribute nothing: the matching part of dst is left as
// it was, so callers that want silence there must zero dst first.
func (l *List) CopyFromChannel(dst []float32, channel, from, to int) {
	from, to = l.Bounds(from, to)
	to = min(to, from+len(dst))

	if from == to || channel < 0 {
		return
	}

	i, start := l.Offset(from)
	remaining := to - from

	if c := l.chunks[i]; remaining <= c.Len()-start {
		c.CopyFromChannel(dst[:remaining], channel, start)

		return
	}

	pos := 0
	for ; i < len(l.chunks) && remaining > 0; i++ {
		c := l.chunks[i]
		n := min(c.Len()-start, remaining)

		c.CopyFromChannel(dst[pos:pos+n], channel, start)

		pos += n
		remaining -= n
		start = 0
	}
}

// CopyToChannel writes src into channel starting at frame from. src is
// clipped to the frames left in the list. Chunks that lack the channel are
// skipped and keep their content.
func (l *List) CopyToChannel(src []float32, channel, from int) {
	from = normalize(from, l.length)
	remaining := min(len(src), l.length-from)

	if remaining <= 0 || channel < 0 {
		return
	}

	i, start := l.Offset(from)

	pos := 0
	for ; i < len(l.chunks) && remaining > 0; i++ {
		c := l.chunks[i]
		n := min(c.Len()-start, remaining)

		c.CopyToChannel(src[pos:pos+n], channel, start)

		pos += n
		remaining -= n
		start = 0
	}
}

// ChannelData returns the samples of channel for frames [from, to). Frames
// of chunks that lack the channel read as zero.
func (l *List) ChannelData(channel, from, to int) []float32 {
	from, to = l.Bounds(from, to)

	out := make([]float32, to-from)
	l.CopyFromChannel(out, channel, from, to)

	return out
}
