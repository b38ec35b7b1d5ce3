// Command fixturecheck validates a docker swarm fixture file and prints a
// report of every swarm and node that would be rejected by strict mode.
package main

import (
	"io"
	"os"

	"github.com/go-kit/log/level"

	"github.com/kyleranous/docker-mocker/fixture"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	args, flagSet, err := parseCliArgs(argv, stderr)
	logger := setupLogger(stderr, args.verbose)

	if err != nil {
		level.Error(logger).Log("msg", "invalid arguments", "err", err)
		printHelp(stderr, flagSet)

		return exitUsage
	}

	if args.help {
		printHelp(stdout, flagSet)
		return exitOK
	}

	store, err := fixture.Load(args.path)
	if err != nil {
		level.Error(logger).Log("msg", "failed to load fixture", "path", args.path, "err", err)
		return exitUsage
	}

	level.Debug(logger).Log("msg", "fixture loaded", "path", args.path,
		"swarms", len(store.Swarms), "nodes", len(store.Nodes))

	if args.writePath != "" {
		if err := fixture.Save(args.writePath, store); err != nil {
			level.Error(logger).Log("msg", "failed to save fixture", "path", args.writePath, "err", err)
			return exitUsage
		}

		level.Info(logger).Log("msg", "fixture saved", "path", args.writePath)
	}

	r := buildReport(args.path, store, args.verbose)

	if err := writeReport(stdout, r, args.format); err != nil {
		level.Error(logger).Log("msg", "failed to write report", "err", err)
		return exitUsage
	}

	if r.failed() {
		return exitInvalid
	}

	return exitOK
}
