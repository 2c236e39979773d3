package main

import (
	"fmt"

	"github.com/cwbudde/bufferlist"
	"github.com/cwbudde/bufferlist/codec"
	"github.com/goccy/go-yaml"
)

// summary is the YAML view of a list printed by info and diffed by apply.
type summary struct {
	Frames     int        `yaml:"frames"`
	Channels   int        `yaml:"channels"`
	SampleRate int        `yaml:"sampleRate"`
	Duration   string     `yaml:"duration"`
	Chunks     int        `yaml:"chunks"`
	Format     codec.Info `yaml:"format"`
	Peaks      []float32  `yaml:"peaks,flow"`
}

func summarize(l *bufferlist.List, info codec.Info) summary {
	s := summary{
		Frames:     l.Len(),
		Channels:   l.NumChannels(),
		SampleRate: l.SampleRate(),
		Duration:   l.Duration().String(),
		Chunks:     l.NumChunks(),
		Format:     info,
		Peaks:      make([]float32, l.NumChannels()),
	}

	for ch := range s.Peaks {
		for _, v := range l.ChannelData(ch, 0, bufferlist.End) {
			s.Peaks[ch] = max(s.Peaks[ch], v, -v)
		}
	}

	return s
}

func (s summary) yaml() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	return string(out), nil
}
