package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cwbudde/bufferlist"
	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

// DefaultBlockFrames is the chunk size used when decoding into a List.
const DefaultBlockFrames = 4096

var (
	// ErrPCMDataNotFound is returned when the data chunk is missing.
	ErrPCMDataNotFound = errors.New("PCM data not found")
	// ErrDurationNilPointer is returned when calculating duration on a nil decoder.
	ErrDurationNilPointer = errors.New("can't calculate the duration of a nil pointer")

	errNilChunk               = errors.New("nil chunk pointer")
	errUnhandledByteDepth     = errors.New("unhandled byte depth")
	errUnhandledFloatBitDepth = errors.New("unhandled float bit depth")
	errUnsupportedG711Depth   = errors.New("unsupported G.711 bit depth")
	errUnsupportedWavFormat   = errors.New("unsupported wav format")
)

// Decoder reads WAV files.
type Decoder struct {
	r      io.ReadSeeker
	parser *riff.Parser

	NumChans       uint16
	BitDepth       uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	WavAudioFormat uint16

	err             error
	PCMSize         int
	pcmDataAccessed bool
	// PCMChunk is the data chunk header, pcm reads its payload.
	PCMChunk *riff.Chunk
	pcm      io.Reader
}

// NewDecoder creates a decoder for the passed wav reader.
// Note that the reader doesn't get rewinded as the container is processed.
func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{
		r:      r,
		parser: riff.New(r),
	}
}

// Rewind goes back to the start of the PCM data.
func (d *Decoder) Rewind() error {
	_, err := d.r.Seek(0, io.SeekStart)
	if err != nil {
		return fmt.Errorf("failed to seek back to the start %w", err)
	}
	// the riff parser is read only and can't be seeked
	d.parser = riff.New(d.r)
	d.pcmDataAccessed = false
	d.PCMChunk = nil
	d.pcm = nil
	d.err = nil
	d.NumChans = 0

	err = d.FwdToPCM()
	if err != nil {
		return fmt.Errorf("failed to seek to the PCM data: %w", err)
	}

	return nil
}

// Err returns the first non-EOF error that was encountered by the Decoder.
func (d *Decoder) Err() error {
	if errors.Is(d.err, io.EOF) {
		return nil
	}

	return d.err
}

// IsValidFile verifies that the file is valid/readable.
func (d *Decoder) IsValidFile() bool {
	d.err = d.readHeaders()
	if d.err != nil {
		return false
	}

	if d.NumChans < 1 || d.SampleRate == 0 {
		return false
	}

	_, err := sampleDecodeFloat32Func(int(d.BitDepth), d.WavAudioFormat)

	return err == nil
}

// ReadInfo reads the underlying reader until the fmt chunk is parsed.
// This method is safe to call multiple times.
func (d *Decoder) ReadInfo() {
	d.err = d.readHeaders()
}

// FwdToPCM forwards the underlying reader until the start of the PCM chunk.
// If the PCM chunk was already read, no data will be found (you need to rewind).
func (d *Decoder) FwdToPCM() error {
	if d == nil {
		return ErrPCMDataNotFound
	}

	d.err = d.readHeaders()
	if d.err != nil {
		return d.err
	}

	for {
		chunk, err := d.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrPCMDataNotFound
			}

			return err
		}

		if chunk.ID == riff.DataFormatID {
			d.PCMSize = chunk.Size
			d.PCMChunk = chunk
			d.pcm = io.LimitReader(d.r, int64(chunk.Size))

			break
		}

		_, err = io.Copy(io.Discard, chunk.R)
		if err != nil {
			d.err = fmt.Errorf("failed to skip chunk %s: %w", chunk.ID, err)

			return d.err
		}
	}

	d.pcmDataAccessed = true

	return nil
}

// WasPCMAccessed returns positively if the PCM data was previously accessed.
func (d *Decoder) WasPCMAccessed() bool {
	if d == nil {
		return false
	}

	return d.pcmDataAccessed
}

// PCMBuffer populates the passed buffer with normalized samples and returns
// the number of samples written.
func (d *Decoder) PCMBuffer(buf *audio.Float32Buffer) (n int, err error) {
	if buf == nil {
		return 0, nil
	}

	if !d.pcmDataAccessed {
		err := d.FwdToPCM()
		if err != nil {
			return 0, err
		}
	}

	decodeF, err := sampleDecodeFloat32Func(int(d.BitDepth), d.WavAudioFormat)
	if err != nil {
		return 0, fmt.Errorf("could not get sample decode func %w", err)
	}

	buf.Format = d.Format()
	buf.SourceBitDepth = int(d.BitDepth)

	bPerSample := bytesPerSample(int(d.BitDepth))
	tmpBuf := make([]byte, len(buf.Data)*bPerSample)

	read, err := io.ReadFull(d.pcm, tmpBuf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("failed to read PCM data: %w", err)
	}

	// a trailing partial sample is padding
	n = read / bPerSample
	for i := range n {
		buf.Data[i] = decodeF(tmpBuf[i*bPerSample : (i+1)*bPerSample])
	}

	return n, nil
}

// DecodeList reads the remaining PCM data into a List, one chunk per block
// of blockFrames frames.
func (d *Decoder) DecodeList(blockFrames int) (*bufferlist.List, error) {
	if blockFrames <= 0 {
		blockFrames = DefaultBlockFrames
	}

	if !d.WasPCMAccessed() {
		err := d.FwdToPCM()
		if err != nil {
			return nil, err
		}
	}

	format := d.Format()
	list := bufferlist.New(
		bufferlist.WithChannels(format.NumChannels),
		bufferlist.WithSampleRate(format.SampleRate),
	)

	for {
		buf := &audio.Float32Buffer{Data: make([]float32, blockFrames*format.NumChannels)}

		n, err := d.PCMBuffer(buf)
		if err != nil {
			return list, err
		}

		if n == 0 {
			break
		}

		buf.Data = buf.Data[:n]
		list.Append(bufferlist.ChunkFromBuffer(buf))

		if n < blockFrames*format.NumChannels {
			break
		}
	}

	return list, nil
}

// Format returns the audio format of the decoded content.
func (d *Decoder) Format() *audio.Format {
	if d == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(d.NumChans),
		SampleRate:  int(d.SampleRate),
	}
}

// NextChunk returns the next available chunk. Its reader covers the payload
// and the pad byte of odd sized chunks.
func (d *Decoder) NextChunk() (*riff.Chunk, error) {
	if d.err = d.readHeaders(); d.err != nil {
		d.err = fmt.Errorf("failed to read header - %w", d.err)
		return nil, d.err
	}

	var (
		id   [4]byte
		size uint32
	)

	id, size, d.err = d.parser.IDnSize()
	if d.err != nil {
		d.err = fmt.Errorf("error reading chunk header - %w", d.err)
		return nil, d.err
	}

	// all RIFF chunks must be word aligned, the size excludes the padding byte
	padded := int64(size) + int64(size%2)

	return &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    io.LimitReader(d.r, padded),
	}, nil
}

// Duration returns the playing time of the PCM data. The decoder must have
// reached the data chunk.
func (d *Decoder) Duration() (time.Duration, error) {
	if d == nil || d.parser == nil {
		return 0, ErrDurationNilPointer
	}

	if !d.pcmDataAccessed {
		err := d.FwdToPCM()
		if err != nil {
			return 0, err
		}
	}

	frameSize := int(d.NumChans) * bytesPerSample(int(d.BitDepth))
	if frameSize == 0 {
		return 0, nil
	}

	return time.Duration(d.PCMSize/frameSize) * sampleDuration(int(d.SampleRate)), nil
}

// String implements the Stringer interface.
func (d *Decoder) String() string {
	return fmt.Sprintf("wav: %d channels, %d Hz, %d bits, format %d", d.NumChans, d.SampleRate, d.BitDepth, d.WavAudioFormat)
}

// readHeaders is safe to call multiple times.
func (d *Decoder) readHeaders() error {
	if d == nil || d.NumChans > 0 {
		return nil
	}

	id, size, err := d.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("failed to read chunk ID and size: %w", err)
	}

	d.parser.ID = id
	if d.parser.ID != riff.RiffID {
		return fmt.Errorf("%s - %w", d.parser.ID, riff.ErrFmtNotSupported)
	}

	d.parser.Size = size

	err = binary.Read(d.r, binary.BigEndian, &d.parser.Format)
	if err != nil {
		return fmt.Errorf("failed to read format: %w", err)
	}

	for {
		chunk, err := d.parser.NextChunk()
		if err != nil {
			return fmt.Errorf("fmt chunk not found: %w", err)
		}

		if chunk.ID == riff.FmtID {
			return d.decodeFmtChunk(chunk)
		}

		chunk.Drain()
	}
}

func (d *Decoder) decodeFmtChunk(chunk *riff.Chunk) error {
	if chunk == nil {
		return errNilChunk
	}

	var blockAlign uint16

	fields := []struct {
		name string
		dst  any
	}{
		{"wav format", &d.WavAudioFormat},
		{"channels", &d.NumChans},
		{"sample rate", &d.SampleRate},
		{"avg bytes/sec", &d.AvgBytesPerSec},
		{"block align", &blockAlign},
		{"bit depth", &d.BitDepth},
	}

	for _, f := range fields {
		err := chunk.ReadLE(f.dst)
		if err != nil {
			d.NumChans = 0
			return fmt.Errorf("failed to read %s: %w", f.name, err)
		}
	}

	// WAVE_FORMAT_EXTENSIBLE stores the real format in the first two bytes
	// of the sub format GUID.
	if d.WavAudioFormat == wavFormatExtensible && chunk.Size >= 40 {
		var ext struct {
			Size          uint16
			ValidBits     uint16
			ChannelMask   uint32
			SubFormatCode uint16
		}

		err := chunk.ReadLE(&ext)
		if err != nil {
			d.NumChans = 0
			return fmt.Errorf("failed to read fmt extension: %w", err)
		}

		d.WavAudioFormat = ext.SubFormatCode
	}

	chunk.Drain()

	return nil
}

// sampleDecodeFunc returns a function that converts little endian bytes into
// an int sample. 8bit samples are unsigned, all other values are signed.
func sampleDecodeFunc(bitsPerSample int) (func([]byte) int, error) {
	switch {
	case bitsPerSample == 8:
		return func(b []byte) int { return int(b[0]) }, nil
	case bitsPerSample > 8 && bitsPerSample <= 16:
		return func(b []byte) int { return int(int16(binary.LittleEndian.Uint16(b))) }, nil
	case bitsPerSample > 16 && bitsPerSample <= 24:
		return func(b []byte) int { return int(audio.Int24LETo32(b)) }, nil
	case bitsPerSample > 24 && bitsPerSample <= 32:
		return func(b []byte) int { return int(int32(binary.LittleEndian.Uint32(b))) }, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnhandledByteDepth, bitsPerSample)
	}
}

// sampleDecodeFloat32Func returns a function that converts one encoded
// sample into a normalized float32 value.
func sampleDecodeFloat32Func(bitsPerSample int, wavFormat uint16) (func([]byte) float32, error) {
	switch wavFormat {
	case FormatFloat:
		switch bitsPerSample {
		case 32:
			return func(b []byte) float32 {
				return clampFloat32(math.Float32frombits(binary.LittleEndian.Uint32(b)), -1, 1)
			}, nil
		case 64:
			return func(b []byte) float32 {
				return float32(clampFloat64(math.Float64frombits(binary.LittleEndian.Uint64(b)), -1, 1))
			}, nil
		default:
			return nil, fmt.Errorf("%w: %d", errUnhandledFloatBitDepth, bitsPerSample)
		}
	case FormatALaw, FormatMuLaw:
		if bitsPerSample != 8 {
			return nil, fmt.Errorf("%w: %d", errUnsupportedG711Depth, bitsPerSample)
		}

		expand := aLawToPCM
		if wavFormat == FormatMuLaw {
			expand = muLawToPCM
		}

		return func(b []byte) float32 { return normalizePCMInt(int(expand(b[0])), 16) }, nil
	case FormatPCM:
		decodeInt, err := sampleDecodeFunc(bitsPerSample)
		if err != nil {
			return nil, fmt.Errorf("failed to create int decoder: %w", err)
		}

		storageBits := bytesPerSample(bitsPerSample) * 8

		return func(b []byte) float32 { return normalizePCMInt(decodeInt(b), storageBits) }, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnsupportedWavFormat, wavFormat)
	}
}
