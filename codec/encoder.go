package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/bufferlist"
	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

var (
	errNilBuffer               = errors.New("can't add a nil buffer")
	errAlreadyWroteHdr         = errors.New("already wrote header")
	errNilWriter               = errors.New("can't write to a nil writer")
	errUnsupportedFrameBitSize = errors.New("can't add frames of bit size")
)

// Encoder encodes float frames into a wav container.
type Encoder struct {
	w   io.WriteSeeker
	buf *bytes.Buffer

	SampleRate int
	BitDepth   int
	NumChans   int

	// WavAudioFormat is one of FormatPCM, FormatFloat, FormatALaw or
	// FormatMuLaw.
	WavAudioFormat int

	WrittenBytes    int
	frames          int
	pcmChunkStarted bool
	pcmChunkSizePos int
	wroteHeader     bool
}

// NewEncoder creates a new encoder to create a new wav file.
// Don't forget to Close the encoder once all frames are written.
func NewEncoder(w io.WriteSeeker, sampleRate, bitDepth, numChans, audioFormat int) *Encoder {
	return &Encoder{
		w:              w,
		buf:            &bytes.Buffer{},
		SampleRate:     sampleRate,
		BitDepth:       bitDepth,
		NumChans:       numChans,
		WavAudioFormat: audioFormat,
	}
}

// AddLE serializes and adds the passed value using little endian.
func (e *Encoder) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// Write encodes and writes the passed interleaved buffer. Its channel count
// must match the encoder's.
func (e *Encoder) Write(buf *audio.Float32Buffer) error {
	if buf == nil {
		return errNilBuffer
	}

	err := e.startPCM()
	if err != nil {
		return err
	}

	encode, err := e.sampleEncodeFunc()
	if err != nil {
		return err
	}

	for _, v := range buf.Data {
		encode(e.buf, v)
	}

	e.frames += len(buf.Data) / max(e.NumChans, 1)

	n, err := e.w.Write(e.buf.Bytes())
	e.WrittenBytes += n
	e.buf.Reset()

	if err != nil {
		return fmt.Errorf("failed to write buffer: %w", err)
	}

	return nil
}

// WriteList writes every frame of l. Chunks are mapped onto the encoder's
// channel count: extra channels are dropped, missing ones are silent.
func (e *Encoder) WriteList(l *bufferlist.List) error {
	var err error

	l.Each(func(c *bufferlist.Chunk, _, _ int) bufferlist.Step {
		err = e.Write(e.remap(c).Buffer())
		if err != nil {
			return bufferlist.Stop
		}

		return bufferlist.Keep
	}, 0, bufferlist.End)

	return err
}

func (e *Encoder) remap(c *bufferlist.Chunk) *bufferlist.Chunk {
	if c.NumChannels() == e.NumChans {
		return c
	}

	out := bufferlist.NewChunk(e.NumChans, c.Len(), c.SampleRate())
	for ch := range min(e.NumChans, c.NumChannels()) {
		out.CopyToChannel(c.ChannelData(ch), ch, 0)
	}

	return out
}

func (e *Encoder) sampleEncodeFunc() (func(*bytes.Buffer, float32), error) {
	switch e.WavAudioFormat {
	case FormatFloat:
		switch e.BitDepth {
		case 32:
			return func(b *bytes.Buffer, v float32) {
				binary.Write(b, binary.LittleEndian, clampFloat32(v, -1, 1))
			}, nil
		case 64:
			return func(b *bytes.Buffer, v float32) {
				binary.Write(b, binary.LittleEndian, clampFloat64(float64(v), -1, 1))
			}, nil
		default:
			return nil, fmt.Errorf("%w: %d", errUnhandledFloatBitDepth, e.BitDepth)
		}
	case FormatALaw, FormatMuLaw:
		if e.BitDepth != 8 {
			return nil, fmt.Errorf("%w: %d", errUnsupportedG711Depth, e.BitDepth)
		}

		compress := pcmToALaw
		if e.WavAudioFormat == FormatMuLaw {
			compress = pcmToMuLaw
		}

		return func(b *bytes.Buffer, v float32) {
			b.WriteByte(compress(int16(float32ToPCMInt32(v, 16))))
		}, nil
	case FormatPCM:
		switch e.BitDepth {
		case 8:
			return func(b *bytes.Buffer, v float32) { b.WriteByte(float32ToPCMUint8(v)) }, nil
		case 16:
			return func(b *bytes.Buffer, v float32) {
				binary.Write(b, binary.LittleEndian, int16(float32ToPCMInt32(v, 16)))
			}, nil
		case 24:
			return func(b *bytes.Buffer, v float32) {
				b.Write(audio.Int32toInt24LEBytes(float32ToPCMInt32(v, 24)))
			}, nil
		case 32:
			return func(b *bytes.Buffer, v float32) {
				binary.Write(b, binary.LittleEndian, float32ToPCMInt32(v, 32))
			}, nil
		default:
			return nil, fmt.Errorf("%w: %d", errUnsupportedFrameBitSize, e.BitDepth)
		}
	default:
		return nil, fmt.Errorf("%w: %d", errUnsupportedWavFormat, e.WavAudioFormat)
	}
}

func (e *Encoder) writeHeader() error {
	if e.wroteHeader {
		return errAlreadyWroteHdr
	}

	if e.w == nil {
		return errNilWriter
	}

	e.wroteHeader = true

	// riff ID
	err := e.AddLE(riff.RiffID)
	if err != nil {
		return err
	}
	// file size uint32, to update later on.
	err = e.AddLE(uint32(4294967295))
	if err != nil {
		return err
	}
	// wave headers
	err = e.AddLE(riff.WavFormatID)
	if err != nil {
		return err
	}

	return e.writeFmtChunk()
}

func (e *Encoder) writeFmtChunk() error {
	blockAlign := e.NumChans * bytesPerSample(e.BitDepth)

	fields := []struct {
		name  string
		value any
	}{
		{"fmt id", riff.FmtID},
		{"fmt size", uint32(16)},
		{"audio format", uint16(e.WavAudioFormat)},
		{"number of channels", uint16(e.NumChans)},
		{"sample rate", uint32(e.SampleRate)},
		{"avg bytes per sec", uint32(e.SampleRate * blockAlign)},
		{"block align", uint16(blockAlign)},
		{"bits per sample", uint16(e.BitDepth)},
	}

	for _, f := range fields {
		err := e.AddLE(f.value)
		if err != nil {
			return fmt.Errorf("error encoding the %s - %w", f.name, err)
		}
	}

	return nil
}

func (e *Encoder) startPCM() error {
	if !e.wroteHeader {
		err := e.writeHeader()
		if err != nil {
			return err
		}
	}

	if e.pcmChunkStarted {
		return nil
	}

	// sound header
	err := e.AddLE(riff.DataFormatID)
	if err != nil {
		return fmt.Errorf("error encoding sound header %w", err)
	}

	e.pcmChunkStarted = true

	// write a temporary chunksize
	e.pcmChunkSizePos = e.WrittenBytes

	err = e.AddLE(uint32(4294967295))
	if err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	return nil
}

// Close flushes the content to disk, make sure the headers are up to date
// Note that the underlying writer is NOT being closed.
func (e *Encoder) Close() error {
	if e == nil || e.w == nil {
		return nil
	}

	// an empty file still needs its headers
	err := e.startPCM()
	if err != nil {
		return err
	}

	dataSize := bytesPerSample(e.BitDepth) * e.NumChans * e.frames
	if dataSize%2 == 1 {
		err := e.AddLE(uint8(0))
		if err != nil {
			return fmt.Errorf("%w when writing the data padding byte", err)
		}
	}

	// go back and write total size in header
	if _, err := e.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to file size position: %w", err)
	}

	err = e.AddLE(uint32(e.WrittenBytes) - 8)
	if err != nil {
		return fmt.Errorf("%w when writing the total written bytes", err)
	}

	// rewrite the audio chunk length header
	if _, err := e.w.Seek(int64(e.pcmChunkSizePos), io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to PCM chunk size position: %w", err)
	}

	err = e.AddLE(uint32(dataSize))
	if err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	// jump back to the end of the file.
	if _, err := e.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of file: %w", err)
	}

	if f, ok := e.w.(*os.File); ok {
		return f.Sync()
	}

	return nil
}
