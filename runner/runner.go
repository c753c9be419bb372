// Package runner drives palette evolution: the generation loop, heat
// annealing, live configuration changes, and repeated seeded runs
package runner

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/hueforge/command"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/genetic"
	"github.com/lixenwraith/hueforge/genetic/tracking"
	"github.com/lixenwraith/hueforge/palette"
	"github.com/lixenwraith/hueforge/parameter"
	"github.com/lixenwraith/hueforge/store"
)

// ErrInboxFull is returned by Submit when pending actions are not drained fast enough
var ErrInboxFull = errors.New("runner inbox full")

// Progress is reported every ReportEvery generations
type Progress struct {
	Run         int
	Generation  palette.Generation
	Heat        float64
	Description *fitness.Description
}

// Result is the outcome of one run
type Result struct {
	// ID is the store record id, empty without a store
	ID          string
	Run         int
	Seed        uint64
	Generations int
	// Best is the best palette of the final generation
	Best        genetic.Candidate[palette.ColorScheme]
	Description *fitness.Description
	Trace       *tracking.Trace
}

// Summary aggregates final best fitness over the runs that completed at
// least one generation. NaN results are excluded from the statistics.
type Summary struct {
	Results []Result
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64
}

// Best returns the result with the highest final fitness
func (s Summary) Best() (Result, bool) {
	if len(s.Results) == 0 {
		return Result{}, false
	}
	best := s.Results[0]
	for _, r := range s.Results[1:] {
		if genetic.Better(r.Best.Score, best.Best.Score) {
			best = r
		}
	}
	return best, true
}

// Reporter observes a run. Calls come from the goroutine executing Run.
type Reporter interface {
	Progress(p Progress)
	Finished(r Result)
}

// Runner owns the configuration and the live action inbox
type Runner struct {
	config   Config
	inbox    chan command.Action
	reporter Reporter
	store    store.Store
}

// Option configures a Runner
type Option func(*Runner)

// WithReporter installs r
func WithReporter(r Reporter) Option {
	return func(rn *Runner) { rn.reporter = r }
}

// WithStore records every finished run in s; s must be initialized
func WithStore(s store.Store) Option {
	return func(rn *Runner) { rn.store = s }
}

// WithInboxSize overrides the action inbox capacity
func WithInboxSize(n int) Option {
	return func(rn *Runner) { rn.inbox = make(chan command.Action, max(n, 1)) }
}

// New validates cfg and builds a Runner
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		config: cfg,
		inbox:  make(chan command.Action, parameter.RunInboxSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the run configuration
func (r *Runner) Config() Config {
	return r.config
}

// Submit queues a for the next generation boundary without blocking.
// Safe for concurrent use.
func (r *Runner) Submit(a command.Action) error {
	select {
	case r.inbox <- a:
		return nil
	default:
		return ErrInboxFull
	}
}

// drain applies every pending action to a copy of d. Rejected actions are
// logged and skipped; d itself is never modified.
func (r *Runner) drain(d *fitness.Description) (next *fitness.Description, changed, structural bool) {
	next = d
	for {
		select {
		case a := <-r.inbox:
			candidate := next.Clone()
			if err := a.Apply(candidate); err != nil {
				log.Printf("runner: rejected %q: %v", a, err)
				continue
			}
			if err := candidate.Validate(); err != nil {
				log.Printf("runner: rejected %q: %v", a, err)
				continue
			}
			log.Printf("runner: applied %q", a)
			next = candidate
			changed = true
			structural = structural || a.Structural()
		default:
			return next, changed, structural
		}
	}
}

// Run executes Config.Runs independent runs on d. Actions applied during a
// run carry into the following runs. On cancellation the partial summary is
// returned with the context error.
func (r *Runner) Run(ctx context.Context, d *fitness.Description) (Summary, error) {
	if err := d.Validate(); err != nil {
		return Summary{}, err
	}

	current := d.Clone()
	var results []Result
	for i := 0; i < r.config.Runs; i++ {
		res, err := r.runOnce(ctx, i, current)
		if res.Generations > 0 {
			results = append(results, res)
			current = res.Description
		}
		if err != nil {
			return summarize(results), err
		}
	}
	return summarize(results), nil
}

func (r *Runner) runOnce(ctx context.Context, run int, d *fitness.Description) (Result, error) {
	rng := rand.New(rand.NewPCG(r.config.Seed, uint64(run)))

	descr := d.Clone()
	pop, err := palette.NewPopulation(descr, r.config.Engine(), rng)
	if err != nil {
		return Result{}, err
	}

	schedule := genetic.LinearSchedule{Span: r.config.span(), Floor: r.config.HeatFloor}
	every := r.config.reportInterval()
	trace := tracking.NewTrace()
	res := Result{Run: run, Seed: r.config.Seed, Description: descr, Trace: trace}

	log.Printf("runner: run %d seed %d started (%d colors, %d targets)",
		run, r.config.Seed, descr.FreeColorCount, len(descr.Targets))

	since := 0
	for gen := 0; r.config.Generations == 0 || gen < r.config.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			if res.Generations > 0 {
				r.finish(ctx, &res)
			}
			return res, err
		}

		if next, changed, structural := r.drain(descr); changed {
			descr = next
			pop.SetProblem(palette.NewProblem(descr))
			if structural {
				pop.Reset()
			}
			since = 0
		}

		heat := schedule.Heat(since)
		g := pop.NextGeneration(heat)
		since++

		trace.Collect(tracking.MetricBundle{
			tracking.MetricGeneration:  float64(g.Number),
			tracking.MetricBestFitness: g.Best.Score,
			tracking.MetricMeanFitness: g.Mean,
			tracking.MetricStdDev:      g.StdDev,
			tracking.MetricHeat:        heat,
		})

		res.Best = g.Best
		res.Generations = gen + 1
		res.Description = descr

		if r.reporter != nil && gen%every == 0 {
			r.reporter.Progress(Progress{Run: run, Generation: g, Heat: heat, Description: descr})
		}
	}

	r.finish(ctx, &res)
	return res, nil
}

// finish stores and reports a completed or interrupted run
func (r *Runner) finish(ctx context.Context, res *Result) {
	if r.store != nil {
		id, err := r.store.SaveRun(context.WithoutCancel(ctx), record(*res))
		if err != nil {
			log.Printf("runner: store run %d: %v", res.Run, err)
		} else {
			res.ID = id
		}
	}

	log.Printf("runner: run %d finished after %d generations, best %.5f",
		res.Run, res.Generations, res.Best.Score)

	if r.reporter != nil {
		r.reporter.Finished(*res)
	}
}

func record(res Result) store.Record {
	targets := res.Description.OrderedTargets()
	lines := make([]string, len(targets))
	for i, t := range targets {
		lines[i] = command.Format(t)
	}

	fixed := make([]string, len(res.Description.FixedColors))
	for i, c := range res.Description.FixedColors {
		fixed[i] = c.Hex()
	}

	free := res.Best.Data.Sorted()
	hex := make([]string, len(free))
	for i, c := range free {
		hex[i] = c.Hex()
	}

	return store.Record{
		Seed:        res.Seed,
		Run:         res.Run,
		Generations: res.Generations,
		Fitness:     res.Best.Score,
		FreeColors:  hex,
		FixedColors: fixed,
		Targets:     lines,
		History:     res.Trace.Series(tracking.MetricBestFitness),
	}
}

func summarize(results []Result) Summary {
	s := Summary{Results: results}

	scores := make([]float64, 0, len(results))
	for _, r := range results {
		if !math.IsNaN(r.Best.Score) {
			scores = append(scores, r.Best.Score)
		}
	}
	if len(scores) == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev = nan, nan, nan, nan
		return s
	}

	mean, variance := stat.PopMeanVariance(scores, nil)
	s.Min = floats.Min(scores)
	s.Max = floats.Max(scores)
	s.Mean = mean
	s.StdDev = math.Sqrt(variance)
	return s
}
