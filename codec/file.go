package codec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/bufferlist"
)

// ErrUnknownContainer is returned for file extensions other than wav/aiff.
var ErrUnknownContainer = errors.New("unknown audio container")

var errInvalidWAV = errors.New("invalid WAV file")

// Container names a file format.
type Container string

// Supported containers.
const (
	WAV  Container = "wav"
	AIFF Container = "aiff"
)

// Info describes how a List was stored on disk.
type Info struct {
	Container   Container `yaml:"container"`
	SampleRate  int       `yaml:"sampleRate"`
	BitDepth    int       `yaml:"bitDepth"`
	AudioFormat int       `yaml:"audioFormat"`
}

// ContainerOf picks the container from a file extension.
func ContainerOf(path string) (Container, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return WAV, nil
	case ".aif", ".aiff", ".aifc":
		return AIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownContainer, path)
	}
}

// Load decodes a wav or aiff file into a List.
func Load(path string, blockFrames int) (*bufferlist.List, Info, error) {
	container, err := ContainerOf(path)
	if err != nil {
		return nil, Info{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer file.Close()

	if container == AIFF {
		list, bitDepth, err := DecodeAIFF(file, blockFrames)
		if err != nil {
			return nil, Info{}, fmt.Errorf("error decoding %s: %w", path, err)
		}

		return list, Info{Container: AIFF, SampleRate: list.SampleRate(), BitDepth: bitDepth, AudioFormat: FormatPCM}, nil
	}

	dec := NewDecoder(file)
	if !dec.IsValidFile() {
		return nil, Info{}, fmt.Errorf("error decoding %s: %w", path, errors.Join(errInvalidWAV, dec.Err()))
	}

	list, err := dec.DecodeList(blockFrames)
	if err != nil {
		return nil, Info{}, fmt.Errorf("error decoding %s: %w", path, err)
	}

	return list, Info{
		Container:   WAV,
		SampleRate:  int(dec.SampleRate),
		BitDepth:    int(dec.BitDepth),
		AudioFormat: int(dec.WavAudioFormat),
	}, nil
}

// Save encodes l into path. The container follows the extension of path;
// zero fields of info fall back to the list's sample rate, 16 bit and PCM.
func Save(path string, l *bufferlist.List, info Info) error {
	container, err := ContainerOf(path)
	if err != nil {
		return err
	}

	info = info.withDefaults(l)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer file.Close()

	if container == AIFF {
		return EncodeAIFF(file, l, info.SampleRate, info.BitDepth)
	}

	enc := NewEncoder(file, info.SampleRate, info.BitDepth, l.NumChannels(), info.AudioFormat)

	err = enc.WriteList(l)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}

	return enc.Close()
}

func (i Info) withDefaults(l *bufferlist.List) Info {
	if i.SampleRate == 0 {
		i.SampleRate = l.SampleRate()
	}

	if i.SampleRate == 0 {
		i.SampleRate = bufferlist.DefaultSampleRate
	}

	if i.BitDepth == 0 {
		i.BitDepth = 16
	}

	if i.AudioFormat == 0 {
		i.AudioFormat = FormatPCM
	}

	return i
}
