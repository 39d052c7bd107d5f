// Command soundcheck runs the audio conversion and device conformance
// suite.
//
// Usage:
//
//	soundcheck                    # full run, time-derived seed
//	soundcheck -seed 42           # reproducible run
//	soundcheck -filter matrix -v  # matching cases, verbose checks
//	soundcheck -list              # print the case list and exit
//
// The process exits non-zero when any case fails; the failing seed is
// printed so the run can be replayed.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/tphakala/go-audio-stream/conformance"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seed := flag.Uint64("seed", 0, "Seed for the coverage matrices (0 derives one from the clock)")
	filter := flag.String("filter", "", "Run only cases whose name contains this substring")
	list := flag.Bool("list", false, "List the cases and exit")
	verbose := flag.Bool("v", false, "Verbose per-check output")
	workDir := flag.String("workdir", "", "Directory for files written by cases (default: system temp)")
	flag.Parse()

	if *list {
		for _, c := range conformance.Cases() {
			fmt.Printf("%-28s %s\n", c.Name, c.Summary)
		}
		return nil
	}

	opts := conformance.Options{
		Seed:    *seed,
		Filter:  *filter,
		WorkDir: *workDir,
	}
	if *verbose {
		opts.Logf = log.Printf
	}

	report := conformance.Run(opts)
	if len(report.Results) == 0 {
		return fmt.Errorf("no cases match filter %q", *filter)
	}

	for _, res := range report.Results {
		status := "ok"
		if res.Failed > 0 {
			status = "FAIL"
		}
		fmt.Printf("%-28s %-4s %5d checks  %v\n",
			res.Name, status, res.Checks, res.Duration.Round(time.Millisecond))
		for _, msg := range res.Messages {
			fmt.Printf("    %s\n", msg)
		}
	}
	fmt.Println(report)

	if report.Failed() {
		return fmt.Errorf("conformance failures (replay with -seed %d)", report.Seed)
	}
	return nil
}
