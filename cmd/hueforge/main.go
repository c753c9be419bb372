package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/lixenwraith/hueforge/command"
	"github.com/lixenwraith/hueforge/config"
	"github.com/lixenwraith/hueforge/filter"
	"github.com/lixenwraith/hueforge/preview"
	"github.com/lixenwraith/hueforge/runner"
	"github.com/lixenwraith/hueforge/store"
)

// targetFlags collects repeated -target lines
type targetFlags []string

func (t *targetFlags) String() string { return strings.Join(*t, "; ") }

func (t *targetFlags) Set(line string) error {
	if _, err := command.ParseTarget(line); err != nil {
		return err
	}
	*t = append(*t, line)
	return nil
}

var (
	configFlag      = flag.String("config", "", "TOML configuration file")
	initFlag        = flag.String("init", "", "write the default configuration to this path and exit")
	generationsFlag = flag.Int("generations", 0, "generations per run, 0 runs until interrupted")
	populationFlag  = flag.Int("population", 0, "palettes per generation")
	runsFlag        = flag.Int("runs", 0, "independent runs")
	seedFlag        = flag.Uint64("seed", 0, "random seed (default: configured seed, else time based)")
	colorsFlag      = flag.Int("colors", 0, "number of free colors")
	fixedFlag       = flag.String("fixed", "", "comma separated fixed colors, e.g. #ffffff,#000000")
	filterFlag      = flag.String("filter", "none", "simulated vision in previews: none, deutan, protan")
	storeFlag       = flag.String("store", "", "run history backend: memory, sqlite")
	dbFlag          = flag.String("db", "", "sqlite database path")
	exportFlag      = flag.String("export", "", "write the best palette to this TOML file")
	listFlag        = flag.Int("list", 0, "print the N best stored runs and exit")
	interactiveFlag = flag.Bool("interactive", false, "interactive terminal view with live target editing")
	colorModeFlag   = flag.String("color", "auto", "preview color: auto, always, never")
	debugFlag       = flag.Bool("debug", false, "write logs to logs/hueforge.log")
	targetFlag      targetFlags
)

func init() {
	flag.Var(&targetFlag, "target", "target line, repeatable; replaces the configured targets")
}

func main() {
	// Panic Recovery: print the crash after any terminal state is gone
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n\x1b[31mHUEFORGE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()
	os.Exit(runMain(*debugFlag))
}

// runMain returns the exit code; the log file is closed before main exits
func runMain(debug bool) int {
	logFile := setupLogging(debug)
	defer func() {
		if logFile != nil {
			log.SetOutput(io.Discard)
			logFile.Close()
		}
	}()

	if err := run(); err != nil {
		log.Printf("exit: %v", err)
		fmt.Fprintf(os.Stderr, "hueforge: %v\n", err)
		return 1
	}
	return 0
}

func run() error {
	if *initFlag != "" {
		if err := config.Default().Save(*initFlag); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *initFlag)
		return nil
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(*configFlag, set)
	if err != nil {
		return err
	}

	opts, err := previewOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.CloseIfSupported(st); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	if set["list"] {
		return printHistory(ctx, os.Stdout, st, *listFlag)
	}

	descr, err := cfg.Description()
	if err != nil {
		return err
	}

	var summary runner.Summary
	if *interactiveFlag {
		summary, err = runInteractive(ctx, cfg, descr, st, opts.Filter)
	} else {
		summary, err = runBatch(ctx, os.Stdout, cfg, descr, st, opts)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	printSummary(os.Stdout, summary)

	if *exportFlag != "" {
		best, ok := summary.Best()
		if !ok {
			return errors.New("no completed run to export")
		}
		if err := writeExport(*exportFlag, cfg, best); err != nil {
			return err
		}
		fmt.Printf("exported run %d to %s\n", best.Run, *exportFlag)
	}
	return nil
}

// loadConfig reads the file at path, or the defaults, and applies the flags
// the user set explicitly
func loadConfig(path string, set map[string]bool) (config.File, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.File{}, err
		}
	}

	if set["generations"] {
		cfg.Run.Generations = *generationsFlag
	}
	if set["population"] {
		cfg.Run.Population = *populationFlag
	}
	if set["runs"] {
		cfg.Run.Runs = *runsFlag
	}
	if set["colors"] {
		cfg.Problem.FreeColors = *colorsFlag
	}
	if set["fixed"] {
		cfg.Problem.FixedColors = splitColors(*fixedFlag)
	}
	if set["target"] {
		cfg.Targets = nil
		for _, line := range targetFlag {
			cfg.Targets = append(cfg.Targets, config.Target{Line: line})
		}
	}
	if set["store"] {
		cfg.Store.Backend = *storeFlag
	}
	if set["db"] {
		cfg.Store.Path = *dbFlag
		if !set["store"] {
			cfg.Store.Backend = store.BackendSQLite
		}
	}

	switch {
	case set["seed"]:
		cfg.Run.Seed = *seedFlag
		cfg.Run.SeedSet = true
	case !cfg.Run.SeedSet:
		cfg.Run.Seed = uint64(time.Now().UnixNano())
	}

	if err := cfg.Validate(); err != nil {
		return config.File{}, err
	}
	return cfg, nil
}

func splitColors(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

func previewOptions() (preview.Options, error) {
	f, err := filter.ByName(*filterFlag)
	if err != nil {
		return preview.Options{}, err
	}

	opts := preview.Options{Filter: f}
	switch *colorModeFlag {
	case "always":
		opts.Color = true
	case "never":
		opts.Color = false
	case "auto", "":
		opts.Color = preview.ColorEnabled(os.Stdout)
	default:
		return preview.Options{}, fmt.Errorf("unknown color mode %q (expected auto, always or never)", *colorModeFlag)
	}
	return opts, nil
}

func writeExport(path string, cfg config.File, best runner.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := config.Export(cfg, best).Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
