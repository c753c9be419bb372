package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/lixenwraith/hueforge/config"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/preview"
	"github.com/lixenwraith/hueforge/runner"
	"github.com/lixenwraith/hueforge/store"
)

// printReporter writes progress lines and finished palettes to w
type printReporter struct {
	w    io.Writer
	opts preview.Options
	runs int
}

func (p printReporter) Progress(pr runner.Progress) {
	if p.runs > 1 {
		fmt.Fprintf(p.w, "run %d  ", pr.Run)
	}
	fmt.Fprintf(p.w, "%s  heat %.2f\n", preview.Generation(pr.Generation), pr.Heat)
}

func (p printReporter) Finished(r runner.Result) {
	fmt.Fprintf(p.w, "\nrun %d finished after %d generations", r.Run, r.Generations)
	if r.ID != "" {
		fmt.Fprintf(p.w, " (id %s)", r.ID)
	}
	fmt.Fprintf(p.w, "\n%s\n\n%s\n\n",
		preview.Palette(r.Best.Data, r.Description, p.opts),
		preview.FitnessTable(r.Best.Data, r.Description, p.opts))
}

func runBatch(ctx context.Context, w io.Writer, cfg config.File, d *fitness.Description, st store.Store, opts preview.Options) (runner.Summary, error) {
	rc := cfg.RunConfig()
	reporter := runner.Reporters{
		runner.LogReporter{},
		printReporter{w: w, opts: opts, runs: rc.Runs},
	}

	r, err := runner.New(rc, runner.WithReporter(reporter), runner.WithStore(st))
	if err != nil {
		return runner.Summary{}, err
	}

	fmt.Fprintf(w, "seed %d, %d run(s), %d free color(s), %d target(s)\n",
		rc.Seed, rc.Runs, d.FreeColorCount, len(d.Targets))
	return r.Run(ctx, d)
}

func printSummary(w io.Writer, s runner.Summary) {
	if len(s.Results) == 0 {
		fmt.Fprintln(w, "no run completed a generation")
		return
	}
	if len(s.Results) == 1 {
		fmt.Fprintf(w, "best fitness %s\n", formatScore(s.Results[0].Best.Score))
		return
	}
	best, _ := s.Best()
	fmt.Fprintf(w, "%d runs  min %s  max %s  mean %s  sd %s  best run %d\n",
		len(s.Results), formatScore(s.Min), formatScore(s.Max),
		formatScore(s.Mean), formatScore(s.StdDev), best.Run)
}

// printHistory lists the best stored runs; limit <= 0 lists all
func printHistory(ctx context.Context, w io.Writer, st store.Store, limit int) error {
	records, err := st.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "no stored runs")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tcreated\tfitness\tseed\trun\tgens\tcolors\t")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t\n",
			shortID(rec.ID), rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			formatScore(rec.Fitness), rec.Seed, rec.Run, rec.Generations,
			strings.Join(rec.FreeColors, " "))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatScore(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.5f", v)
}
