package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/cwbudde/bufferlist/codec"
)

var cmdInfo = &command{
	Name:        "info",
	Description: "print a YAML summary of an audio file",
	Run: func(_ context.Context, argv []string, outStream, errStream io.Writer) error {
		fs := flag.NewFlagSet(cmdName+" info", flag.ContinueOnError)
		fs.SetOutput(errStream)

		block := fs.Int("block", codec.DefaultBlockFrames, "frames per chunk while decoding")

		err := fs.Parse(argv)
		if err != nil {
			return err
		}

		if fs.NArg() < 1 {
			return errNoArgs
		}

		list, info, err := codec.Load(fs.Arg(0), *block)
		if err != nil {
			return err
		}

		out, err := summarize(list, info).yaml()
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(outStream, out)

		return err
	},
}
