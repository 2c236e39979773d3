package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/cwbudde/bufferlist/codec"
	"github.com/sirupsen/logrus"
)

var errUnknownFormat = errors.New("unknown sample format")

var sampleFormats = map[string]int{
	"pcm":   codec.FormatPCM,
	"float": codec.FormatFloat,
	"alaw":  codec.FormatALaw,
	"mulaw": codec.FormatMuLaw,
}

var cmdConvert = &command{
	Name:        "convert",
	Description: "re-encode an audio file, wav and aiff in any direction",
	Run: func(_ context.Context, argv []string, _, errStream io.Writer) error {
		fs := flag.NewFlagSet(cmdName+" convert", flag.ContinueOnError)
		fs.SetOutput(errStream)

		bits := fs.Int("bits", 0, "output bit depth, 0 keeps the source depth")
		format := fs.String("format", "", "output wav sample format: pcm, float, alaw or mulaw")

		err := fs.Parse(argv)
		if err != nil {
			return err
		}

		if fs.NArg() < 2 {
			return errNoArgs
		}

		in, out := fs.Arg(0), fs.Arg(1)

		list, info, err := codec.Load(in, codec.DefaultBlockFrames)
		if err != nil {
			return err
		}

		info, err = outputInfo(info, *bits, *format)
		if err != nil {
			return err
		}

		err = codec.Save(out, list, info)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"in":     in,
			"out":    out,
			"frames": list.Len(),
			"bits":   info.BitDepth,
		}).Info("converted")

		return nil
	},
}

func outputInfo(info codec.Info, bits int, format string) (codec.Info, error) {
	if format != "" {
		f, ok := sampleFormats[format]
		if !ok {
			return info, fmt.Errorf("%w %q", errUnknownFormat, format)
		}

		info.AudioFormat = f
	}

	switch {
	case bits > 0:
		info.BitDepth = bits
	case info.AudioFormat == codec.FormatALaw || info.AudioFormat == codec.FormatMuLaw:
		info.BitDepth = 8
	case info.AudioFormat == codec.FormatFloat && info.BitDepth != 64:
		info.BitDepth = 32
	}

	return info, nil
}
