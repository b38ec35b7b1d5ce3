package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type cliArgs struct {
	path      string
	format    string
	writePath string
	verbose   bool
	help      bool
}

func parseCliArgs(argv []string, stderr io.Writer) (cliArgs, *pflag.FlagSet, error) {
	args := cliArgs{}

	flagSet := pflag.NewFlagSet("fixturecheck", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {}

	flagSet.StringVarP(&args.format, "format", "f", formatText, "output format: text, json or yaml")
	flagSet.StringVarP(&args.writePath, "write", "w", "", "save the loaded fixture to this path, format chosen by extension")
	flagSet.BoolVarP(&args.verbose, "verbose", "v", false, "verbose mode")
	flagSet.BoolVarP(&args.help, "help", "h", false, "show help")

	if err := flagSet.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			args.help = true
			return args, flagSet, nil
		}

		return args, flagSet, err
	}

	if args.help {
		return args, flagSet, nil
	}

	switch args.format {
	case formatText, formatJSON, formatYAML:
	default:
		return args, flagSet, fmt.Errorf("unknown output format %q", args.format)
	}

	if flagSet.NArg() != 1 {
		return args, flagSet, fmt.Errorf("expected exactly one fixture file, got %d", flagSet.NArg())
	}

	args.path = flagSet.Arg(0)

	return args, flagSet, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Validate a docker swarm fixture file.

Usage:
  fixturecheck [flags] FILE

FILE may be JSON (comments and trailing commas allowed) or YAML.
Exits with 1 when the fixture has errors and 2 when it cannot be read.

Flags:
%s`, flagSet.FlagUsages())
}
