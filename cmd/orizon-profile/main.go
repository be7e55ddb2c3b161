// Command orizon-profile drives the cost-centre-stack profiler
// (internal/ccs) that the Orizon runtime embeds: it builds a Context from
// flags, exercises a nested cost-centre call tree, and writes the resulting
// `<program>.prof` report, exactly the artifact internal/ccs.Context.Report
// produces at interpreter shutdown.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/orizon-lang/orizon/internal/ccs"
	"github.com/orizon-lang/orizon/internal/cli"
)

func main() {
	var (
		showVersion    = flag.Bool("version", false, "show version information")
		showHelp       = flag.Bool("help", false, "show help information")
		jsonOutput     = flag.Bool("json", false, "output version in JSON format")
		program        = flag.String("program", "orizon-profile-demo", "program name recorded in the report header")
		verbosity      = flag.String("verbosity", "summary", "profiling verbosity: none, summary, all, verbose")
		heapProfile    = flag.Bool("heap-profile", false, "also open <program>.hp")
		modSelector    = flag.String("mod-selector", "", "module selector glob for heap-profile selection")
		ccSelector     = flag.String("cc-selector", "", "cost-centre selector glob")
		ccsSelector    = flag.String("ccs-selector", "", "ancestor cost-centre selector glob")
		selectorsFile  = flag.String("selectors-file", "", "file to watch for live selector reloads")
		tickInterval   = flag.Duration("tick-interval", time.Millisecond, "duration represented by one tick sample")
		nCapabilities  = flag.Int("n-capabilities", 1, "number of mutator threads / capabilities")
		workers        = flag.Int("workers", 4, "number of simulated mutator goroutines")
		ticksPerWorker = flag.Int("ticks", 200, "tick samples delivered per worker")
		reportConstr   = flag.String("report-format-constraint", "", "semver constraint the emitted report format must satisfy")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Drives the Orizon cost-centre-stack profiler and writes <program>.prof.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		cli.PrintVersion("Orizon Cost-Centre Profiler", *jsonOutput)
		os.Exit(0)
	}

	cfg := ccs.Config{
		DoCostCentres:          parseVerbosity(*verbosity),
		DoHeapProfile:          *heapProfile,
		ModSelector:            *modSelector,
		CCSelector:             *ccSelector,
		CCSSelector:            *ccsSelector,
		SelectorsFile:          *selectorsFile,
		TickInterval:           *tickInterval,
		NCapabilities:          *nCapabilities,
		Program:                *program,
		RTSArgs:                flag.Args(),
		ProgArgs:               flag.Args(),
		ReportFormatConstraint: *reportConstr,
	}

	if err := run(cfg, *workers, *ticksPerWorker); err != nil {
		cli.ExitWithError("profiling failed: %v", err)
	}
}

func parseVerbosity(s string) ccs.Verbosity {
	switch strings.ToLower(s) {
	case "none":
		return ccs.VerbosityNone
	case "all":
		return ccs.VerbosityALL
	case "verbose":
		return ccs.VerbosityVERBOSE
	default:
		return ccs.VerbositySummary
	}
}

// run builds a Context, simulates workers entering nested annotated
// regions (the role normally played by emitted Orizon code calling Push on
// every region entry), delivers synthetic tick samples, and reports.
func run(cfg ccs.Config, workers, ticksPerWorker int) error {
	c, err := ccs.Init(cfg)
	if err != nil {
		return err
	}
	defer c.Free()

	c.Init2()

	reg := c.Registry()
	parse := reg.NewCostCentre("parse", "Frontend", "parser.go:1", false)
	typecheck := reg.NewCostCentre("typecheck", "Frontend", "typecheck.go:1", false)
	lower := reg.NewCostCentre("lower", "Backend", "lower.go:1", false)
	codegen := reg.NewCostCentre("codegen", "Backend", "codegen.go:1", false)
	gcCC := reg.NewCostCentre("minor_gc", "Runtime", "gc.go:1", false)

	regions := []*ccs.CostCentre{parse, typecheck, lower, codegen, gcCC}

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func(seed int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(int64(seed) + 1))
			ts := ccs.NewThreadState(c.Main())

			s1 := c.Push(ts.Current(), regions[rng.Intn(len(regions))])
			c.RecordEntry(s1)
			ts.SetCurrent(s1)

			s2 := c.Push(s1, regions[rng.Intn(len(regions))])
			c.RecordEntry(s2)
			ts.SetCurrent(s2)

			for i := 0; i < ticksPerWorker; i++ {
				c.RecordTick(ccs.TickSample{
					CCS:            ts.Current(),
					Ticks:          1,
					WordsAllocated: uint64(rng.Intn(64)),
				})
			}
		}(w)
	}

	wg.Wait()

	w := io.Writer(os.Stdout)
	if f := c.ReportFile(); f != nil {
		w = f
	}

	if err := c.Report(w); err != nil {
		return err
	}

	if f := c.ReportFile(); f != nil {
		fmt.Printf("report written to %s.prof\n", cfg.Program)
	}

	return nil
}
