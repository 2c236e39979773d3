package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/bufferlist"
	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

var errInvalidAIFF = errors.New("invalid AIFF file")

// DecodeAIFF reads an AIFF stream into a List, one chunk per block of
// blockFrames frames. It also returns the source bit depth.
func DecodeAIFF(r io.ReadSeeker, blockFrames int) (*bufferlist.List, int, error) {
	if blockFrames <= 0 {
		blockFrames = DefaultBlockFrames
	}

	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errInvalidAIFF
	}

	bitDepth := int(dec.BitDepth)
	format := &audio.Format{
		NumChannels: int(dec.NumChans),
		SampleRate:  int(dec.SampleRate),
	}

	list := bufferlist.New(
		bufferlist.WithChannels(format.NumChannels),
		bufferlist.WithSampleRate(format.SampleRate),
	)

	intBuf := &audio.IntBuffer{Format: format, Data: make([]int, blockFrames*format.NumChannels)}

	for {
		n, err := dec.PCMBuffer(intBuf)
		if err != nil && !errors.Is(err, io.EOF) {
			return list, bitDepth, fmt.Errorf("failed to read AIFF PCM data: %w", err)
		}

		if n == 0 {
			break
		}

		buf := &audio.Float32Buffer{
			Format:         format,
			Data:           make([]float32, n),
			SourceBitDepth: bitDepth,
		}
		for i, v := range intBuf.Data[:n] {
			buf.Data[i] = normalizeSignedInt(v, bitDepth)
		}

		list.Append(bufferlist.ChunkFromBuffer(buf))
	}

	return list, bitDepth, nil
}

// EncodeAIFF writes l as an AIFF stream. The channel count of the output is
// the list's; narrower chunks are padded with silence.
func EncodeAIFF(w io.WriteSeeker, l *bufferlist.List, sampleRate, bitDepth int) error {
	numChans := l.NumChannels()
	enc := aiff.NewEncoder(w, sampleRate, bitDepth, numChans)

	format := &audio.Format{NumChannels: numChans, SampleRate: sampleRate}
	remapper := &Encoder{NumChans: numChans}

	var err error

	l.Each(func(c *bufferlist.Chunk, _, _ int) bufferlist.Step {
		data := remapper.remap(c).Buffer().Data

		intBuf := &audio.IntBuffer{
			Format:         format,
			Data:           make([]int, len(data)),
			SourceBitDepth: bitDepth,
		}
		for i, v := range data {
			intBuf.Data[i] = int(float32ToPCMInt32(v, bitDepth))
		}

		err = enc.Write(intBuf)
		if err != nil {
			err = fmt.Errorf("failed to write AIFF frames: %w", err)
			return bufferlist.Stop
		}

		return bufferlist.Keep
	}, 0, bufferlist.End)

	if err != nil {
		return err
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("failed to close AIFF encoder: %w", err)
	}

	return nil
}
