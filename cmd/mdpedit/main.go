// FILE: lixenwraith/mdconfig/cmd/mdpedit/main.go

// mdpedit edits GROMACS MDP files from the command line. Options are set or
// removed, the run can be forced to continue from existing coordinates and
// velocities, and the result is written out. Files the edits leave unchanged
// are copied byte for byte.
//
//	mdpedit --in md.mdp --out md-long.mdp --set nsteps=500000 --set "ref-t=310 310"
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/mdconfig"
	"github.com/lixenwraith/mdconfig/gromacs"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	in           string
	out          string
	overwrite    bool
	sets         []string
	deletes      []string
	ensure       bool
	genVel       string
	continuation string
	statePath    string
	check        bool
	print        bool
	logLevel     string
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("mdpedit", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.in, "in", "i", "", "MDP file to read (required)")
	flagSet.StringVarP(&opts.out, "out", "o", "", "file to write the result to")
	flagSet.BoolVar(&opts.overwrite, "overwrite", false, "replace --out if it exists")
	flagSet.StringArrayVar(&opts.sets, "set", nil, "set an option, key=value [value...] (repeatable)")
	flagSet.StringArrayVar(&opts.deletes, "delete", nil, "remove an option (repeatable)")
	flagSet.BoolVar(&opts.ensure, "ensure", false, "force gen-vel and continuation to --gen-vel and --continuation")
	flagSet.StringVar(&opts.genVel, "gen-vel", "no", "gen-vel value used by --ensure")
	flagSet.StringVar(&opts.continuation, "continuation", "yes", "continuation value used by --ensure")
	flagSet.StringVar(&opts.statePath, "state", "", "write a state snapshot (.toml, .json, .yaml or .cbor)")
	flagSet.BoolVar(&opts.check, "check", false, "evaluate dialect constraints and fail if any is violated")
	flagSet.BoolVar(&opts.print, "print", false, "print the resulting configuration to stdout")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if opts.in == "" {
		return fmt.Errorf("--in is required")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := gromacs.Open(opts.in, mdconfig.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Debug("parsed mdp", "file", store.OriginalFile(), "options", store.Len())

	if err := apply(store, opts, logger); err != nil {
		return err
	}

	if opts.check {
		if err := store.Validate(); err != nil {
			return err
		}
	}

	if opts.print {
		if _, err := stdout.Write(append(store.Render(), '\n')); err != nil {
			return fmt.Errorf("failed to print configuration: %w", err)
		}
	}

	if opts.out != "" {
		if err := store.Write(opts.out, opts.overwrite); err != nil {
			return err
		}
		logger.Info("wrote mdp", "file", opts.out, "changed", store.Changed())
	}

	if opts.statePath != "" {
		if err := store.SaveState(opts.statePath); err != nil {
			return err
		}
		logger.Info("wrote state snapshot", "file", opts.statePath)
	}

	return nil
}

// apply runs the requested edits in order: deletes, sets, then --ensure.
func apply(store *mdconfig.Store, opts options, logger *slog.Logger) error {
	for _, key := range opts.deletes {
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("--delete %s: %w", key, err)
		}
	}

	for _, assignment := range opts.sets {
		key, value, found := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return fmt.Errorf("--set %q: expected key=value", assignment)
		}
		if err := store.Set(key, mdconfig.SequenceOf(strings.Fields(value))); err != nil {
			return fmt.Errorf("--set %s: %w", key, err)
		}
	}

	if opts.ensure {
		if err := gromacs.EnsureOptions(store, opts.genVel, opts.continuation, logger); err != nil {
			return err
		}
	}
	return nil
}
