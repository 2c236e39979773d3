package bufferlist

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ramp builds a mono list whose samples count up from 0, one chunk per length.
func ramp(lengths ...int) *List {
	l := New()

	v := float32(0)
	for _, n := range lengths {
		s := make(Samples, n)
		for i := range s {
			s[i] = v
			v++
		}

		l.Append(s)
	}

	return l
}

func filled(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func cat(parts ...[]float32) []float32 {
	var out []float32
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

func chunkLens(l *List) []int {
	lens := make([]int, 0, l.NumChunks())
	for _, c := range l.Chunks() {
		lens = append(lens, c.Len())
	}

	return lens
}

func sumLens(l *List) int {
	total := 0
	for _, n := range chunkLens(l) {
		total += n
	}

	return total
}

// stereo returns a chunk whose channel ch holds ch*100 + frame.
func stereo(frames int) *Chunk {
	return NewChunk(2, frames, 44100).FillFunc(func(_ float32, frame, ch int) float32 {
		return float32(ch*100 + frame)
	})
}

func TestNewWithOptions(t *testing.T) {
	l := New(WithChannels(3))

	require.Equal(t, 0, l.Len())
	require.Equal(t, 3, l.NumChannels())
	require.Equal(t, 0, l.SampleRate())
	require.Equal(t, time.Duration(0), l.Duration())
}

func TestAppendSources(t *testing.T) {
	l := New()

	l.Append(NewChunk(2, 0, 48000))
	require.Equal(t, 0, l.NumChunks())
	require.Equal(t, 0, l.SampleRate())

	l.Append(
		Sequence{NewChunk(1, 3, 48000), Sequence{Frames(2), Samples{1, 2}}},
		NewChunk(3, 1, 22050),
	)

	require.Equal(t, 8, l.Len())
	require.Equal(t, 4, l.NumChunks())
	require.Equal(t, 3, l.NumChannels())
	require.Equal(t, 48000, l.SampleRate())
	require.Equal(t, float32(2), l.Get(6, 0))

	other := From(Samples{5, 6})
	l.Append(other, nil, Frames(0), Samples{})

	require.Equal(t, 10, l.Len())
	require.Equal(t, 5, l.NumChunks())
	require.Equal(t, []float32{5, 6}, l.ChannelData(0, -2, End))
}

func TestAppendSelf(t *testing.T) {
	l := ramp(2, 1)
	l.Append(l)

	require.Equal(t, []float32{0, 1, 2, 0, 1, 2}, l.ChannelData(0, 0, End))

	seen := map[*Chunk]bool{}
	for _, c := range l.Chunks() {
		require.False(t, seen[c], "chunk held twice")
		seen[c] = true
	}

	l.Reverse(0, End)
	require.Equal(t, []float32{2, 1, 0, 2, 1, 0}, l.ChannelData(0, 0, End))

	l.Each(func(c *Chunk, _, _ int) Step {
		c.FillFunc(func(v float32, _, _ int) float32 { return v * 2 })
		return Keep
	}, 0, End)
	require.Equal(t, []float32{4, 2, 0, 4, 2, 0}, l.ChannelData(0, 0, End))
}

func TestAppendSharedListTwice(t *testing.T) {
	ones := From(Samples{1, 1})
	l := New().Append(Sequence{ones, ones})

	l.Each(func(c *Chunk, _, _ int) Step {
		c.FillFunc(func(v float32, _, _ int) float32 { return v * 2 })
		return Keep
	}, 0, End)

	require.Equal(t, []float32{2, 2, 2, 2}, l.ChannelData(0, 0, End))
}

func TestInsertSelf(t *testing.T) {
	l := From(Samples{1, 2, 3})
	l.Insert(0, l)
	l.Reverse(0, End)

	require.Equal(t, []float32{3, 2, 1, 3, 2, 1}, l.ChannelData(0, 0, End))

	l = From(Samples{1, 2, 3})
	l.Insert(1, l)
	require.Equal(t, []float32{1, 1, 2, 3, 2, 3}, l.ChannelData(0, 0, End))

	l.Reverse(0, End)
	require.Equal(t, []float32{3, 2, 3, 2, 1, 1}, l.ChannelData(0, 0, End))
}

func TestNumChannelsKeepsDefault(t *testing.T) {
	l := From(Samples{1, 2, 3}, WithChannels(2))
	require.Equal(t, 2, l.NumChannels())

	l.Each(func(*Chunk, int, int) Step { return Keep }, 0, End)
	require.Equal(t, 2, l.NumChannels())

	require.Equal(t, 2, l.Map(func(*Chunk, int, int) Step { return Keep }, 0, End).NumChannels())
	require.Equal(t, 2, l.Slice(0, 1).NumChannels())

	l.Append(Frames(2))
	require.Equal(t, 2, l.Chunks()[1].NumChannels())

	l.Append(NewChunk(3, 1, 44100))
	require.Equal(t, 3, l.NumChannels())

	l.Remove(-1, 1)
	require.Equal(t, 2, l.NumChannels())
}

func TestAppendChannelCountIsMax(t *testing.T) {
	l := New()
	for _, n := range []int{2, 1, 4, 3} {
		l.Append(NewChunk(n, 1, 44100))
	}

	require.Equal(t, 4, l.NumChannels())
}

func TestAggregates(t *testing.T) {
	l := From(NewChunk(2, 2, 44100))

	require.Equal(t, 2, l.Len())
	require.Equal(t, 2, l.NumChannels())
	require.Equal(t, framesDuration(2, 44100), l.Duration())

	l.Append(NewChunk(3, 5, 44100))

	require.Equal(t, 7, l.Len())
	require.Equal(t, 3, l.NumChannels())
	require.InDelta(t, float64(7)/44100, l.Duration().Seconds(), 1e-8)
}

func TestOffset(t *testing.T) {
	l := ramp(4, 3, 2, 1)

	tests := []struct {
		index, chunk, local int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{4, 1, 0},
		{6, 1, 2},
		{9, 3, 0},
		{10, 3, 1},
	}

	for _, tt := range tests {
		chunk, local := l.Offset(tt.index)
		require.Equal(t, tt.chunk, chunk, "index %d", tt.index)
		require.Equal(t, tt.local, local, "index %d", tt.index)
	}

	chunk, local := New().Offset(0)
	require.Zero(t, chunk)
	require.Zero(t, local)
}

func TestSlice(t *testing.T) {
	l := ramp(4, 3, 2, 1)

	tests := []struct {
		from, to int
		want     []float32
	}{
		{0, 10, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{3, 10, []float32{3, 4, 5, 6, 7, 8, 9}},
		{3, 6, []float32{3, 4, 5}},
		{3, 8, []float32{3, 4, 5, 6, 7}},
		{5, 10, []float32{5, 6, 7, 8, 9}},
		{4, 7, []float32{4, 5, 6}},
		{-7, -4, []float32{3, 4, 5}},
		{-3, End, []float32{7, 8, 9}},
	}

	for _, tt := range tests {
		s := l.Slice(tt.from, tt.to)
		require.Equal(t, tt.want, s.ChannelData(0, 0, End), "slice(%d, %d)", tt.from, tt.to)
		require.Equal(t, len(tt.want), s.Len())
		require.Equal(t, sumLens(s), s.Len())
	}

	require.Equal(t, []int{1, 3, 1}, chunkLens(l.Slice(3, 8)))
}

func TestSliceEmpty(t *testing.T) {
	l := ramp(4, 3)

	s := l.Slice(4, 4)
	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.NumChunks())

	s = l.Slice(6, 2)
	require.Equal(t, 0, s.Len())
}

func TestSliceNegativeIndex(t *testing.T) {
	l := ramp(4, 3, 2, 1)

	for n := 1; n <= l.Len(); n++ {
		require.Equal(t,
			l.Slice(l.Len()-n, End).ChannelData(0, 0, End),
			l.Slice(-n, End).ChannelData(0, 0, End),
			"n=%d", n)
	}
}

func TestSliceAliasesCloneDoesNot(t *testing.T) {
	l := ramp(4, 3)

	view := l.Slice(2, 6)
	view.CopyToChannel([]float32{-1, -1}, 0, 1)
	require.Equal(t, []float32{0, 1, 2, -1, -1, 5, 6}, l.ChannelData(0, 0, End))

	clone := l.Clone(2, 6)
	clone.CopyToChannel([]float32{42}, 0, 0)
	require.Equal(t, float32(2), l.Get(2, 0))
	require.Equal(t, float32(42), clone.Get(0, 0))
}

func TestSliceMatchesCopy(t *testing.T) {
	l := New().Append(stereo(4), stereo(3), stereo(2), stereo(1))

	for a := 0; a <= l.Len(); a++ {
		for b := a; b <= l.Len(); b++ {
			view := l.Slice(a, b)
			copied := l.Copy(nil, 0, a, b)

			for ch := range 2 {
				require.Equal(t, copied.ChannelData(ch), view.ChannelData(ch, 0, End), "range [%d, %d) channel %d", a, b, ch)
			}
		}
	}
}

func TestCopy(t *testing.T) {
	l := ramp(4, 3, 2, 1)

	dst := NewChunk(1, 12, 44100)
	got := l.Copy(dst, 2, 3, 8)
	require.Same(t, dst, got)
	require.Equal(t, []float32{0, 0, 3, 4, 5, 6, 7, 0, 0, 0, 0, 0}, dst.ChannelData(0))

	// within one chunk
	dst = NewChunk(1, 2, 44100)
	l.Copy(dst, 0, 1, 3)
	require.Equal(t, []float32{1, 2}, dst.ChannelData(0))
	require.Equal(t, []float32{5, 6}, l.Copy(nil, 0, 5, 7).ChannelData(0))

	// whole list
	require.Equal(t, l.ChannelData(0, 0, End), l.Copy(nil, 0, -5, End).ChannelData(0))

	dst = NewChunk(1, 10, 44100)
	l.Copy(dst, 0, 0, End)
	require.Equal(t, l.ChannelData(0, 0, End), dst.ChannelData(0))

	// out of range
	require.Equal(t, 0, l.Copy(nil, 0, 10, 20).Len())
	require.Equal(t, 0, l.Copy(nil, 0, 5, 0).Len())
	require.Same(t, dst, l.Copy(dst, 0, 11, End))
}

func TestCopyWholeSingleChunkDoesNotCopy(t *testing.T) {
	c := stereo(5)
	l := From(c)

	require.Same(t, c, l.Copy(nil, 0, 0, End))

	l.Append(stereo(2))
	joined := l.Copy(nil, 0, 0, End)
	require.NotSame(t, c, joined)
	require.Equal(t, 7, joined.Len())
	require.Equal(t, 2, joined.NumChannels())
}

func TestSplitJoin(t *testing.T) {
	l := New().Append(Frames(10))
	require.Equal(t, 10, l.Len())
	require.Equal(t, 1, l.NumChunks())

	l = ramp(10)

	l.Split(4)
	require.Equal(t, []int{4, 6}, chunkLens(l))

	l.Split(4)
	require.Equal(t, []int{4, 6}, chunkLens(l))

	l.Split(5)
	require.Equal(t, []int{4, 1, 5}, chunkLens(l))

	l.Split(10, 0)
	require.Equal(t, 3, l.NumChunks())

	l.Split(9, 8)
	require.Equal(t, 5, l.NumChunks())

	l.Split([]int{7, 6}...)
	require.Equal(t, 7, l.NumChunks())

	l.Join(0, End)
	require.Equal(t, []int{10}, chunkLens(l))
	require.Equal(t, ramp(10).ChannelData(0, 0, End), l.ChannelData(0, 0, End))
}

func TestSplitNegativeIndex(t *testing.T) {
	l := ramp(10).Split(-3)

	require.Equal(t, []int{7, 3}, chunkLens(l))
}

func TestSplitJoinIsIdentity(t *testing.T) {
	base := New().Append(stereo(4), stereo(3), stereo(2), stereo(1))

	for k := 0; k <= base.Len(); k++ {
		l := base.Clone(0, End).Split(k).Join(0, End)

		require.Equal(t, 1, l.NumChunks())

		for ch := range 2 {
			require.Equal(t, base.ChannelData(ch, 0, End), l.ChannelData(ch, 0, End), "k=%d", k)
		}
	}
}

func TestJoinRange(t *testing.T) {
	l := ramp(4, 3, 2, 1)
	orig := l.ChannelData(0, 0, End)

	l.Join(4, 9)
	require.Equal(t, []int{4, 5, 1}, chunkLens(l))
	require.Equal(t, orig, l.ChannelData(0, 0, End))

	l.Join(2, 6)
	require.Equal(t, []int{2, 4, 3, 1}, chunkLens(l))
	require.Equal(t, orig, l.ChannelData(0, 0, End))

	l.Join(3, 3)
	require.Equal(t, []int{2, 4, 3, 1}, chunkLens(l))
}

func TestBounds(t *testing.T) {
	l := ramp(10)

	tests := []struct {
		from, to       int
		wantFrom, want int
	}{
		{0, End, 0, 10},
		{-4, End, 6, 10},
		{2, -3, 2, 7},
		{7, 3, 7, 7},
		{-20, 20, 0, 10},
	}

	for _, tt := range tests {
		from, to := l.Bounds(tt.from, tt.to)
		require.Equal(t, tt.wantFrom, from)
		require.Equal(t, tt.want, to)
	}
}

func TestJoinWithinChunk(t *testing.T) {
	l := ramp(10)
	l.Join(2, 5)
	require.Equal(t, []int{10}, chunkLens(l))

	l = ramp(4, 3, 2, 1)
	l.Join(5, 6)
	l.Join(-1, End)
	require.Equal(t, []int{4, 3, 2, 1}, chunkLens(l))
}

func TestInsert(t *testing.T) {
	a := New()

	a.Insert(2, NewChunk(2, 10, 44100).Fill(2))
	require.Equal(t, 10, a.Len())
	require.Equal(t, 2, a.NumChannels())
	require.Equal(t, filled(10, 2), a.ChannelData(0, 0, End))

	byChannel := func(_ float32, _, ch int) float32 { return float32(ch) }

	a.Insert(2, NewChunk(2, 10, 44100).FillFunc(byChannel))
	require.Equal(t, 20, a.Len())
	require.Equal(t, cat(filled(2, 2), filled(10, 0), filled(8, 2)), a.ChannelData(0, 0, End))

	a.Insert(-5, NewChunk(2, 10, 44100).FillFunc(func(_ float32, _, ch int) float32 { return float32(1 - ch) }))
	require.Equal(t, 30, a.Len())
	require.Equal(t,
		cat(filled(2, 2), filled(10, 1), filled(3, 2), filled(10, 0), filled(5, 2)),
		a.ChannelData(1, 0, End))
	require.Equal(t, sumLens(a), a.Len())
}

func TestInsertAtEndAppends(t *testing.T) {
	l := ramp(3)
	l.Insert(End, Samples{7, 8})

	require.Equal(t, []float32{0, 1, 2, 7, 8}, l.ChannelData(0, 0, End))
}

func TestInsertRemoveInverse(t *testing.T) {
	base := ramp(4, 3, 2, 1)
	src := New().Append(stereo(3), stereo(2))

	for i := 0; i <= base.Len(); i++ {
		l := base.Clone(0, End)
		l.Insert(i, src.Clone(0, End))

		require.Equal(t, base.Len()+src.Len(), l.Len())

		removed, ok := l.Remove(i, src.Len())
		require.True(t, ok)
		require.Equal(t, src.ChannelData(1, 0, End), removed.ChannelData(1, 0, End))
		require.Equal(t, base.ChannelData(0, 0, End), l.ChannelData(0, 0, End), "i=%d", i)
	}
}

func TestRemove(t *testing.T) {
	a := New().Append(
		NewChunk(2, 20, 44100).FillFunc(func(_ float32, _, ch int) float32 { return float32(ch) }),
		NewChunk(2, 20, 44100).FillFunc(func(_ float32, _, ch int) float32 { return float32(1 - ch) }),
	)

	removed, ok := a.Remove(0, 10)
	require.True(t, ok)
	require.Equal(t, 10, removed.Len())
	require.Equal(t, 30, a.Len())
	require.Equal(t, cat(filled(10, 0), filled(20, 1)), a.ChannelData(0, 0, End))
	require.Equal(t, cat(filled(10, 1), filled(20, 0)), a.ChannelData(1, 0, End))

	a.Remove(8, 10)
	require.Equal(t, 20, a.Len())
	require.Equal(t, cat(filled(8, 0), filled(12, 1)), a.ChannelData(0, 0, End))
	require.Equal(t, cat(filled(8, 1), filled(12, 0)), a.ChannelData(1, 0, End))

	a.Remove(End, -12)
	require.Equal(t, 8, a.Len())
	require.Equal(t, filled(8, 0), a.ChannelData(0, 0, End))
	require.Equal(t, filled(8, 1), a.ChannelData(1, 0, End))
	require.Equal(t, sumLens(a), a.Len())

	b := New().Append(Samples{0, 1, 2}, Samples{3, 4, 5})
	b.Remove(1, 4)
	require.Equal(t, []float32{0, 5}, b.ChannelData(0, 0, End))

	c := From(Frames(3))
	require.NoError(t, c.Repeat(2))
	c.Remove(5, 3)
	require.Equal(t, 5, c.Len())
}

func TestRemoveNegativeCount(t *testing.T) {
	l := ramp(10)

	removed, ok := l.Remove(6, -2)
	require.True(t, ok)
	require.Equal(t, []float32{4, 5}, removed.ChannelData(0, 0, End))
	require.Equal(t, []float32{0, 1, 2, 3, 6, 7, 8, 9}, l.ChannelData(0, 0, End))
}

func TestRemoveNothing(t *testing.T) {
	removed, ok := New().Remove(0, 5)
	require.False(t, ok)
	require.Nil(t, removed)

	l := ramp(4)

	_, ok = l.Remove(4, 3)
	require.False(t, ok)

	_, ok = l.Remove(0, 0)
	require.False(t, ok)

	// draining from the end degrades to "nothing removed"
	l = From(Frames(6))

	var got []int
	for range 4 {
		removed, ok := l.Remove(End, -4)
		if !ok {
			break
		}

		got = append(got, removed.Len())
	}

	require.Equal(t, []int{4, 2}, got)
	require.Equal(t, 0, l.Len())
	require.Equal(t, 0, l.NumChunks())
}

func TestConsume(t *testing.T) {
	l := ramp(4, 3, 2, 1).Consume(5)

	require.Equal(t, []float32{5, 6, 7, 8, 9}, l.ChannelData(0, 0, End))
	require.Equal(t, 0, l.Consume(20).Len())
}

func TestRepeat(t *testing.T) {
	a := From(NewChunk(2, 10, 44100))
	require.NoError(t, a.Repeat(0))
	require.Equal(t, 0, a.Len())

	b := From(NewChunk(2, 10, 44100))
	require.NoError(t, b.Repeat(1))
	require.Equal(t, 10, b.Len())

	c := From(Samples{1, 2, 3})
	require.NoError(t, c.Repeat(3))
	require.Equal(t, 9, c.Len())
	require.Equal(t, []float32{1, 2, 3, 1, 2, 3, 1, 2, 3}, c.ChannelData(0, 0, End))

	d := From(Frames(2), WithChannels(2))
	require.NoError(t, d.Repeat(4))
	require.Equal(t, 2, d.NumChannels())
	require.Equal(t, 8, d.Len())

	err := d.Repeat(-1)
	require.ErrorIs(t, err, ErrInvalidRepeatCount)
	require.Equal(t, 8, d.Len())
}

func TestRepeatCopiesAreIndependent(t *testing.T) {
	l := From(Samples{1, 2})
	require.NoError(t, l.Repeat(2))

	l.CopyToChannel([]float32{9}, 0, 0)
	require.Equal(t, []float32{9, 2, 1, 2}, l.ChannelData(0, 0, End))
}

func TestReverse(t *testing.T) {
	l := From(Samples{0, 1, 2, 3, 4, 5}).Split(3)
	l.Reverse(1, 5)

	require.Equal(t, []float32{0, 4, 3, 2, 1, 5}, l.ChannelData(0, 0, End))
}

func TestGet(t *testing.T) {
	l := ramp(4, 3, 2, 1)

	require.Equal(t, float32(3), l.Get(3, 0))
	require.Equal(t, float32(4), l.Get(4, 0))
	require.Equal(t, float32(9), l.Get(-1, 0))
	require.Equal(t, float32(0), l.Get(2, 1))
	require.Equal(t, float32(0), l.Get(10, 0))
}

func TestLengthInvariant(t *testing.T) {
	l := ramp(4, 3, 2, 1)

	l.Insert(5, Samples{1, 2, 3})
	require.Equal(t, sumLens(l), l.Len())

	l.Remove(2, 4)
	require.Equal(t, sumLens(l), l.Len())

	l.Split(1, 3)
	require.Equal(t, sumLens(l), l.Len())

	l.Join(0, 5)
	require.Equal(t, sumLens(l), l.Len())

	l.Each(func(_ *Chunk, index, _ int) Step {
		if index == 0 {
			return Drop
		}

		return Keep
	}, 0, End)
	require.Equal(t, sumLens(l), l.Len())
	require.Equal(t, 4, l.Len())
}

func TestReset(t *testing.T) {
	l := From(stereo(3), WithChannels(1))
	l.Reset()

	require.Equal(t, 0, l.Len())
	require.Equal(t, 0, l.NumChunks())
	require.Equal(t, 1, l.NumChannels())
	require.Equal(t, 0, l.SampleRate())
}

func TestReadAt(t *testing.T) {
	var r io.ReaderAt = ramp(4)

	n, err := r.ReadAt(make([]byte, 2), 0)
	require.ErrorIs(t, err, ErrByteAccess)
	require.Zero(t, n)
}

func TestString(t *testing.T) {
	require.Equal(t, "bufferlist: 10 frames, 1 channels, 44100 Hz, 4 chunks", ramp(4, 3, 2, 1).String())
}
