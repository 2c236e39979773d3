package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Songmu/prompter"
	"github.com/cwbudde/bufferlist"
	"github.com/cwbudde/bufferlist/codec"
	"github.com/cwbudde/bufferlist/internal/script"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sirupsen/logrus"
)

var (
	errNoScript  = errors.New("-script is required")
	errCancelled = errors.New("changes not applied")
)

var cmdApply = &command{
	Name:        "apply",
	Description: "run a YAML edit script against an audio file",
	Run: func(_ context.Context, argv []string, outStream, errStream io.Writer) error {
		fs := flag.NewFlagSet(cmdName+" apply", flag.ContinueOnError)
		fs.SetOutput(errStream)

		scriptPath := fs.String("script", "", "path of the YAML edit script")
		output := fs.String("o", "", "output file, defaults to overwriting the input")
		block := fs.Int("block", codec.DefaultBlockFrames, "frames per chunk while decoding")
		yes := fs.Bool("y", false, "skip confirmation prompts")

		err := fs.Parse(argv)
		if err != nil {
			return err
		}

		if fs.NArg() < 1 {
			return errNoArgs
		}

		if *scriptPath == "" {
			return errNoScript
		}

		in := fs.Arg(0)
		out := *output
		if out == "" {
			out = in
		}

		return apply(in, out, *scriptPath, *block, *yes, outStream)
	},
}

func apply(in, out, scriptPath string, block int, yes bool, outStream io.Writer) error {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	s, err := script.Parse(data)
	if err != nil {
		return err
	}

	list, info, err := codec.Load(in, block)
	if err != nil {
		return err
	}

	before, err := summarize(list, info).yaml()
	if err != nil {
		return err
	}

	runner := &script.Runner{
		Load: func(path string) (*bufferlist.List, error) {
			l, _, err := codec.Load(path, block)
			return l, err
		},
		Log: logrus.WithField("script", scriptPath),
	}

	list, err = runner.Apply(list, s)
	if err != nil {
		return err
	}

	after, err := summarize(list, info).yaml()
	if err != nil {
		return err
	}

	fmt.Fprintf(outStream, "The following changes will be applied:\n%s\n", generateDiff(before, after))

	if !yes && needsConfirmation(in, out) && !prompter.YN(fmt.Sprintf("Write %s?", out), true) {
		return errCancelled
	}

	err = codec.Save(out, list, info)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"out":    out,
		"frames": list.Len(),
		"chunks": list.NumChunks(),
	}).Info("wrote edited file")

	return nil
}

// needsConfirmation reports whether writing out would replace existing data.
func needsConfirmation(in, out string) bool {
	if in == out {
		return true
	}

	_, err := os.Stat(out)

	return err == nil
}

// generateDiff creates a human-readable diff between two summaries.
func generateDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	return dmp.DiffPrettyText(diffs)
}
