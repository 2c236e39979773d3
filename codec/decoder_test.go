package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"
)

type rawChunk struct {
	id   string
	data []byte
}

// buildWAV assembles a RIFF/WAVE stream from raw chunks, padding odd sizes.
func buildWAV(chunks ...rawChunk) []byte {
	var body bytes.Buffer

	body.WriteString("WAVE")

	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(&body, binary.LittleEndian, uint32(len(c.data)))
		body.Write(c.data)

		if len(c.data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	var out bytes.Buffer

	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func fmtChunk(format, numChans uint16, sampleRate uint32, bitDepth uint16) rawChunk {
	blockAlign := numChans * (bitDepth / 8)

	var b bytes.Buffer
	writeLE(&b, format, numChans, sampleRate, sampleRate*uint32(blockAlign), blockAlign, bitDepth)

	return rawChunk{"fmt ", b.Bytes()}
}

func extensibleFmtChunk(subFormat, numChans uint16, sampleRate uint32, bitDepth uint16) rawChunk {
	c := fmtChunk(wavFormatExtensible, numChans, sampleRate, bitDepth)

	var b bytes.Buffer
	b.Write(c.data)
	writeLE(&b, uint16(22), bitDepth, uint32(3), subFormat)
	b.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})

	return rawChunk{"fmt ", b.Bytes()}
}

func writeLE(b *bytes.Buffer, values ...any) {
	for _, v := range values {
		binary.Write(b, binary.LittleEndian, v)
	}
}

func int16Data(values ...int16) rawChunk {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, values)

	return rawChunk{"data", b.Bytes()}
}

func TestDecoderSkipsUnknownChunks(t *testing.T) {
	wav := buildWAV(
		fmtChunk(FormatPCM, 1, 8000, 16),
		rawChunk{"LIST", []byte("odd!!")},
		rawChunk{"junk", make([]byte, 6)},
		int16Data(0, 16384, -16384, -32768),
	)

	dec := NewDecoder(bytes.NewReader(wav))
	if !dec.IsValidFile() {
		t.Fatalf("expected a valid file: %v", dec.Err())
	}

	l, err := dec.DecodeList(0)
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{0, 0.5, -0.5, -1}
	got := l.ChannelData(0, 0, 4)

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: expected %f, got %f", i, want[i], got[i])
		}
	}

	if l.Len() != 4 || l.SampleRate() != 8000 {
		t.Fatalf("unexpected list %s", l)
	}
}

func TestDecoderExtensibleFormat(t *testing.T) {
	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, []float32{0.25, -0.25, 2, -2})

	wav := buildWAV(
		extensibleFmtChunk(FormatFloat, 2, 48000, 32),
		rawChunk{"data", data.Bytes()},
	)

	dec := NewDecoder(bytes.NewReader(wav))
	if !dec.IsValidFile() {
		t.Fatalf("expected a valid file: %v", dec.Err())
	}

	if dec.WavAudioFormat != FormatFloat {
		t.Fatalf("expected format %d, got %d", FormatFloat, dec.WavAudioFormat)
	}

	if s := dec.String(); s != "wav: 2 channels, 48000 Hz, 32 bits, format 3" {
		t.Fatalf("unexpected description %q", s)
	}

	l, err := dec.DecodeList(0)
	if err != nil {
		t.Fatal(err)
	}

	// out of range floats are clamped
	if got := l.ChannelData(1, 0, 2); got[0] != -0.25 || got[1] != -1 {
		t.Fatalf("unexpected right channel %v", got)
	}
}

func TestDecoderBlocks(t *testing.T) {
	values := make([]int16, 10)
	for i := range values {
		values[i] = int16(i * 1000)
	}

	wav := buildWAV(fmtChunk(FormatPCM, 2, 44100, 16), int16Data(values...))

	tests := []struct {
		blockFrames int
		chunks      int
	}{
		{1, 5},
		{2, 3},
		{5, 1},
		{100, 1},
	}

	for _, tt := range tests {
		l, err := NewDecoder(bytes.NewReader(wav)).DecodeList(tt.blockFrames)
		if err != nil {
			t.Fatal(err)
		}

		if l.NumChunks() != tt.chunks {
			t.Fatalf("block of %d frames: expected %d chunks, got %d", tt.blockFrames, tt.chunks, l.NumChunks())
		}

		if l.Len() != 5 || l.NumChannels() != 2 {
			t.Fatalf("unexpected list %s", l)
		}

		if got := l.Get(4, 1); math.Abs(float64(got)-9000.0/32768) > 1e-6 {
			t.Fatalf("expected last right sample %f, got %f", 9000.0/32768, got)
		}
	}
}

func TestDecoderDurationAndRewind(t *testing.T) {
	wav := buildWAV(fmtChunk(FormatPCM, 1, 8000, 16), int16Data(make([]int16, 800)...))
	dec := NewDecoder(bytes.NewReader(wav))

	dur, err := dec.Duration()
	if err != nil {
		t.Fatal(err)
	}

	if dur != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %s", dur)
	}

	first, err := dec.DecodeList(300)
	if err != nil {
		t.Fatal(err)
	}

	if err := dec.Rewind(); err != nil {
		t.Fatal(err)
	}

	second, err := dec.DecodeList(300)
	if err != nil {
		t.Fatal(err)
	}

	if first.Len() != 800 || second.Len() != 800 {
		t.Fatalf("expected 800 frames twice, got %d and %d", first.Len(), second.Len())
	}

	var nilDecoder *Decoder
	if _, err := nilDecoder.Duration(); !errors.Is(err, ErrDurationNilPointer) {
		t.Fatalf("expected %v, got %v", ErrDurationNilPointer, err)
	}
}

func TestDecoderInvalidInput(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte("definitely not a wav file")))
	if dec.IsValidFile() {
		t.Fatal("expected an invalid file")
	}

	if dec.Err() == nil {
		t.Fatal("expected a decoding error")
	}

	noData := buildWAV(fmtChunk(FormatPCM, 1, 8000, 16))
	if _, err := NewDecoder(bytes.NewReader(noData)).DecodeList(0); !errors.Is(err, ErrPCMDataNotFound) {
		t.Fatalf("expected %v, got %v", ErrPCMDataNotFound, err)
	}

	adpcm := buildWAV(fmtChunk(2, 1, 8000, 16), int16Data(1, 2))

	dec = NewDecoder(bytes.NewReader(adpcm))
	if dec.IsValidFile() {
		t.Fatal("ADPCM should not be reported as valid")
	}

	if _, err := dec.DecodeList(0); !errors.Is(err, errUnsupportedWavFormat) {
		t.Fatalf("expected %v, got %v", errUnsupportedWavFormat, err)
	}
}
