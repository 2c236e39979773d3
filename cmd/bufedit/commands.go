package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

const cmdName = "bufedit"

var (
	errNoArgs         = errors.New("no args specified")
	errUnknownCommand = errors.New("unknown command")
)

type command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, argv []string, outStream, errStream io.Writer) error
}

type commander struct {
	cmdNames             []string
	dispatch             map[string]*command
	maxSubcommandNameLen int
}

func (co *commander) register(cmds ...*command) {
	for _, c := range cmds {
		if co.dispatch == nil {
			co.dispatch = map[string]*command{}
		}

		if _, ok := co.dispatch[c.Name]; ok {
			panic(fmt.Sprintf("subcommand %q already registered", c.Name))
		}

		co.dispatch[c.Name] = c
		co.cmdNames = append(co.cmdNames, c.Name)
		co.maxSubcommandNameLen = max(co.maxSubcommandNameLen, len(c.Name))
	}
}

var cmder = &commander{}

func init() {
	cmder.register(
		cmdInfo,
		cmdConvert,
		cmdApply,
	)
}

func formatCommands(out io.Writer) {
	format := fmt.Sprintf("  %%-%ds  %%s\n", cmder.maxSubcommandNameLen)
	for _, n := range cmder.cmdNames {
		c := cmder.dispatch[n]
		fmt.Fprintf(out, format, c.Name, c.Description)
	}
}

func run(ctx context.Context, argv []string, outStream, errStream io.Writer) error {
	logrus.SetOutput(errStream)

	fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
	fs.SetOutput(errStream)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n", cmdName)
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nCommands:\n")
		formatCommands(fs.Output())
	}

	verbose := fs.Bool("v", false, "log every edit")

	err := fs.Parse(argv)
	if err != nil {
		return err
	}

	logrus.SetLevel(logrus.InfoLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	argv = fs.Args()
	if len(argv) < 1 {
		return errNoArgs
	}

	c, ok := cmder.dispatch[argv[0]]
	if !ok {
		return fmt.Errorf("%w %q", errUnknownCommand, argv[0])
	}

	return c.Run(ctx, argv[1:], outStream, errStream)
}
