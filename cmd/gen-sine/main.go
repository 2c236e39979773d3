package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/bufferlist"
	"github.com/cwbudde/bufferlist/codec"
	"github.com/sirupsen/logrus"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		logrus.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to, .wav or .aif")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	channels := flagSet.Int("channels", 1, "number of channels")
	sampleRate := flagSet.Int("rate", 48000, "sample rate in hertz")
	bitDepth := flagSet.Int("bits", 16, "output bit depth")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"length":    *length,
		"frequency": *frequency,
		"output":    *output,
	}).Info("generating sine")

	list := sine(*frequency, *length, *channels, *sampleRate)

	err = codec.Save(*output, list, codec.Info{SampleRate: *sampleRate, BitDepth: *bitDepth})
	if err != nil {
		return fmt.Errorf("error writing %s: %w", *output, err)
	}

	return nil
}

// sine renders one block per call to Append so the list ends up chunked the
// same way a decoded file would.
func sine(frequency, seconds float64, channels, sampleRate int) *bufferlist.List {
	list := bufferlist.New(bufferlist.WithChannels(channels), bufferlist.WithSampleRate(sampleRate))
	numFrames := int(float64(sampleRate) * seconds)

	for start := 0; start < numFrames; start += codec.DefaultBlockFrames {
		n := min(codec.DefaultBlockFrames, numFrames-start)

		chunk := bufferlist.NewChunk(channels, n, sampleRate).FillFunc(func(_ float32, frame, _ int) float32 {
			return float32(math.Sin(float64(start+frame) / float64(sampleRate) * frequency * 2 * math.Pi))
		})

		list.Append(chunk)
	}

	return list
}
