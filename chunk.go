package bufferlist

import (
	"math"
	"time"

	"github.com/go-audio/audio"
)

// DefaultSampleRate is used for chunks created before any sample rate is known.
const DefaultSampleRate = 44100

// Chunk is a contiguous block of interleaved multichannel float32 frames.
// Its shape (frames, channels) is fixed, its content is mutable.
//
// Chunks returned by Sub share storage with their parent.
type Chunk struct {
	buf *audio.Float32Buffer
}

// NewChunk allocates a silent chunk.
func NewChunk(numChannels, frames, sampleRate int) *Chunk {
	if numChannels < 1 {
		numChannels = 1
	}

	if frames < 0 {
		frames = 0
	}

	return &Chunk{buf: &audio.Float32Buffer{
		Format: &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		Data:   make([]float32, frames*numChannels),
	}}
}

// ChunkFromBuffer wraps buf without copying. Trailing samples that do not
// form a whole frame are ignored.
func ChunkFromBuffer(buf *audio.Float32Buffer) *Chunk {
	if buf == nil {
		return NewChunk(1, 0, 0)
	}

	format := audio.Format{NumChannels: 1}
	if buf.Format != nil {
		format = *buf.Format
	}

	if format.NumChannels < 1 {
		format.NumChannels = 1
	}

	n := len(buf.Data) / format.NumChannels * format.NumChannels

	return &Chunk{buf: &audio.Float32Buffer{
		Format:         &format,
		Data:           buf.Data[:n:n],
		SourceBitDepth: buf.SourceBitDepth,
	}}
}

// ChunkFromChannels builds a chunk from planar channel data. The chunk is as
// long as the shortest channel.
func ChunkFromChannels(sampleRate int, channels ...[]float32) *Chunk {
	if len(channels) == 0 {
		return NewChunk(1, 0, sampleRate)
	}

	frames := math.MaxInt
	for _, ch := range channels {
		frames = min(frames, len(ch))
	}

	c := NewChunk(len(channels), frames, sampleRate)
	for ch, data := range channels {
		c.CopyToChannel(data[:frames], ch, 0)
	}

	return c
}

// Len returns the number of frames.
func (c *Chunk) Len() int {
	if c == nil || c.buf == nil {
		return 0
	}

	return len(c.buf.Data) / c.NumChannels()
}

// NumChannels returns the channel count.
func (c *Chunk) NumChannels() int {
	if c == nil || c.buf == nil || c.buf.Format == nil || c.buf.Format.NumChannels < 1 {
		return 1
	}

	return c.buf.Format.NumChannels
}

// SampleRate returns the sample rate in Hz, 0 if unknown.
func (c *Chunk) SampleRate() int {
	if c == nil || c.buf == nil || c.buf.Format == nil {
		return 0
	}

	return c.buf.Format.SampleRate
}

// Duration returns the playing time of the chunk.
func (c *Chunk) Duration() time.Duration {
	return framesDuration(c.Len(), c.SampleRate())
}

// Buffer exposes the underlying interleaved buffer. Writes to it are writes
// to the chunk.
func (c *Chunk) Buffer() *audio.Float32Buffer {
	return c.buf
}

// At returns one sample.
func (c *Chunk) At(frame, channel int) float32 {
	return c.buf.Data[frame*c.NumChannels()+channel]
}

// Set writes one sample.
func (c *Chunk) Set(frame, channel int, value float32) {
	c.buf.Data[frame*c.NumChannels()+channel] = value
}

// ChannelData returns a copy of one channel.
func (c *Chunk) ChannelData(channel int) []float32 {
	out := make([]float32, c.Len())
	c.CopyFromChannel(out, channel, 0)

	return out
}

// CopyFromChannel copies channel samples starting at frame start into dst
// and returns the number of samples copied.
func (c *Chunk) CopyFromChannel(dst []float32, channel, start int) int {
	numChans := c.NumChannels()
	if channel < 0 || channel >= numChans || start < 0 {
		return 0
	}

	n := min(len(dst), c.Len()-start)
	for i := range n {
		dst[i] = c.buf.Data[(start+i)*numChans+channel]
	}

	return max(n, 0)
}

// CopyToChannel writes src into a channel starting at frame start and
// returns the number of samples written.
func (c *Chunk) CopyToChannel(src []float32, channel, start int) int {
	numChans := c.NumChannels()
	if channel < 0 || channel >= numChans || start < 0 {
		return 0
	}

	n := min(len(src), c.Len()-start)
	for i := range n {
		c.buf.Data[(start+i)*numChans+channel] = src[i]
	}

	return max(n, 0)
}

// Sub returns a view over frames [start, end). The view shares storage with c.
func (c *Chunk) Sub(start, end int) *Chunk {
	length := c.Len()
	start = max(0, min(start, length))
	end = max(start, min(end, length))

	numChans := c.NumChannels()
	format := audio.Format{NumChannels: numChans, SampleRate: c.SampleRate()}
	lo, hi := start*numChans, end*numChans

	return &Chunk{buf: &audio.Float32Buffer{
		Format:         &format,
		Data:           c.buf.Data[lo:hi:hi],
		SourceBitDepth: c.buf.SourceBitDepth,
	}}
}

// Clone deep copies the chunk.
func (c *Chunk) Clone() *Chunk {
	out := NewChunk(c.NumChannels(), c.Len(), c.SampleRate())
	copy(out.buf.Data, c.buf.Data)
	out.buf.SourceBitDepth = c.buf.SourceBitDepth

	return out
}

// Fill sets every sample to value.
func (c *Chunk) Fill(value float32) *Chunk {
	for i := range c.buf.Data {
		c.buf.Data[i] = value
	}

	return c
}

// FillFunc sets every sample from fn. fn receives the current value.
func (c *Chunk) FillFunc(fn func(value float32, frame, channel int) float32) *Chunk {
	numChans := c.NumChannels()
	for i, v := range c.buf.Data {
		c.buf.Data[i] = fn(v, i/numChans, i%numChans)
	}

	return c
}

// Reverse reverses the frame order in place.
func (c *Chunk) Reverse() *Chunk {
	numChans := c.NumChannels()
	data := c.buf.Data

	for i, j := 0, c.Len()-1; i < j; i, j = i+1, j-1 {
		a, b := data[i*numChans:(i+1)*numChans], data[j*numChans:(j+1)*numChans]
		for ch := range numChans {
			a[ch], b[ch] = b[ch], a[ch]
		}
	}

	return c
}

// Concat copies chunks into one new chunk. The result has the widest channel
// count and the sample rate of the first chunk; missing channels are silent.
func Concat(chunks ...*Chunk) *Chunk {
	var frames, numChans, rate int

	for i, c := range chunks {
		if i == 0 {
			rate = c.SampleRate()
		}

		frames += c.Len()
		numChans = max(numChans, c.NumChannels())
	}

	out := NewChunk(numChans, frames, rate)

	offset := 0
	for _, c := range chunks {
		copyFrames(out, offset, c, 0, c.Len())
		offset += c.Len()
	}

	return out
}

// copyFrames copies frames [srcStart, srcEnd) of src into dst at dstStart,
// channel by channel, for the channels both chunks have. It returns the
// number of frames copied.
func copyFrames(dst *Chunk, dstStart int, src *Chunk, srcStart, srcEnd int) int {
	n := min(srcEnd-srcStart, dst.Len()-dstStart)
	if n <= 0 {
		return 0
	}

	dstChans, srcChans := dst.NumChannels(), src.NumChannels()
	if dstChans == srcChans {
		copy(dst.buf.Data[dstStart*dstChans:(dstStart+n)*dstChans], src.buf.Data[srcStart*srcChans:(srcStart+n)*srcChans])

		return n
	}

	chans := min(dstChans, srcChans)
	for i := range n {
		d := dst.buf.Data[(dstStart+i)*dstChans:]
		s := src.buf.Data[(srcStart+i)*srcChans:]

		copy(d[:chans], s[:chans])
	}

	return n
}

func framesDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}
