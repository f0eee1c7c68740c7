// Copyright (c) 2024 The eqbool authors
//
// MIT License

// Command eqbool-check runs eqbool test scripts against a fresh Context,
// wrapping the library behind a cobra CLI the way go-corset's cmd packages
// do (compare corset's pkg/cmd/check.go).
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kosarev/eqbool"
	"github.com/kosarev/eqbool/internal/script"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		testPerformance bool
		findMismatches  bool
		statsEvery      int
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:   "eqbool-check [files...]",
		Short: "Run eqbool test scripts against a Boolean-equivalence context",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if testPerformance {
				return runPerformance(args)
			}
			return runChecks(args, findMismatches, statsEvery)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&testPerformance, "test-performance", false, "run each input file five times and print median statistics")
	flags.BoolVar(&findMismatches, "find-mismatches", false, "downgrade assert_is failures to diagnostics instead of fatal exits")
	flags.IntVar(&statsEvery, "stats-every", 0, "print statistics to stdout every N lines")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func runChecks(paths []string, findMismatches bool, statsEvery int) error {
	sources, err := openSources(paths)
	if err != nil {
		return err
	}
	defer closeAll(sources)

	for _, src := range sources {
		ctx := newContext()
		env := script.NewEnv(ctx)
		opts := script.Options{
			FindMismatches: findMismatches,
			StatsEvery:     statsEvery,
			Diagnostics:    os.Stdout,
		}
		if err := script.Run(env, opts, src.path, src.r); err != nil {
			reportFatal(err)
			return err
		}
		log.Debugf("%s: ok (%d clauses, %d SAT calls)", src.path,
			ctx.GetStats().NumClauses, ctx.GetStats().NumSATSolutions)
	}
	return nil
}

func runPerformance(paths []string) error {
	sources, err := openSources(paths)
	if err != nil {
		return err
	}
	defer closeAll(sources)

	for _, src := range sources {
		data, err := io.ReadAll(src.r)
		if err != nil {
			return err
		}
		const runs = 5
		var elapsed []time.Duration
		var lastStats eqbool.Stats
		for i := 0; i < runs; i++ {
			ctx := newContext()
			env := script.NewEnv(ctx)
			start := time.Now()
			err := script.Run(env, script.Options{Diagnostics: io.Discard}, src.path, bytes.NewReader(data))
			elapsed = append(elapsed, time.Since(start))
			if err != nil {
				reportFatal(err)
				return err
			}
			lastStats = ctx.GetStats()
		}
		sort.Slice(elapsed, func(i, j int) bool { return elapsed[i] < elapsed[j] })
		median := elapsed[runs/2]
		fmt.Printf("%s: median=%s sat_time=%.6f clauses_time=%.6f num_sat_solutions=%d num_clauses=%d\n",
			src.path, median, lastStats.SATTime, lastStats.ClausesTime,
			lastStats.NumSATSolutions, lastStats.NumClauses)
	}
	return nil
}

func newContext() *eqbool.Context {
	return eqbool.New(eqbool.WithLogger(log))
}

type source struct {
	path string
	r    io.Reader
	c    io.Closer
}

func openSources(paths []string) ([]source, error) {
	if len(paths) == 0 {
		return []source{{path: "<stdin>", r: os.Stdin}}, nil
	}
	sources := make([]source, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source{path: p, r: f, c: f})
	}
	return sources, nil
}

func closeAll(sources []source) {
	for _, s := range sources {
		if s.c != nil {
			s.c.Close()
		}
	}
}

func reportFatal(err error) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
