package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hueforge/config"
	"github.com/lixenwraith/hueforge/filter"
	"github.com/lixenwraith/hueforge/fitness"
	"github.com/lixenwraith/hueforge/runner"
	"github.com/lixenwraith/hueforge/store"
)

// screenReporter hands runner callbacks to the UI loop. Progress keeps only
// the newest report; Finished blocks until the UI takes it or ctx ends.
type screenReporter struct {
	ctx      context.Context
	progress chan runner.Progress
	finished chan runner.Result
}

func newScreenReporter(ctx context.Context) screenReporter {
	return screenReporter{
		ctx:      ctx,
		progress: make(chan runner.Progress, 1),
		finished: make(chan runner.Result),
	}
}

func (s screenReporter) Progress(p runner.Progress) {
	select {
	case <-s.progress:
	default:
	}
	s.progress <- p
}

func (s screenReporter) Finished(r runner.Result) {
	select {
	case s.finished <- r:
	case <-s.ctx.Done():
	}
}

type outcome struct {
	summary runner.Summary
	err     error
}

// runInteractive evolves in the background while the screen shows the best
// palette and accepts target lines. It returns when the user quits.
func runInteractive(ctx context.Context, cfg config.File, d *fitness.Description, st store.Store, f filter.Filter) (runner.Summary, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return runner.Summary{}, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return runner.Summary{}, fmt.Errorf("init screen: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reporter := newScreenReporter(ctx)
	rc := cfg.RunConfig()
	r, err := runner.New(rc,
		runner.WithReporter(runner.Reporters{runner.LogReporter{}, reporter}),
		runner.WithStore(st))
	if err != nil {
		return runner.Summary{}, err
	}

	done := make(chan outcome, 1)
	go func() {
		defer crashGuard(screen)
		s, err := r.Run(ctx, d)
		done <- outcome{summary: s, err: err}
	}()

	events := make(chan tcell.Event, 100)
	go func() {
		defer crashGuard(screen)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			events <- ev
		}
	}()

	v := newView(screen, d, f, rc.Runs)
	var result *outcome

	for {
		v.draw()

		select {
		case <-ctx.Done():
			return wait(done, result)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if v.handleKey(ev, r) {
					log.Printf("interactive: quit requested")
					cancel()
					return wait(done, result)
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case p := <-reporter.progress:
			v.progress(p)

		case res := <-reporter.finished:
			v.runFinished(res)

		case o := <-done:
			result = &o
			v.runsDone(o.err)
		}
	}
}

// wait returns the run outcome, blocking until the runner has stopped
func wait(done <-chan outcome, result *outcome) (runner.Summary, error) {
	if result == nil {
		o := <-done
		result = &o
	}
	return result.summary, result.err
}

// crashGuard restores the terminal before reporting a panic from a
// background goroutine
func crashGuard(screen tcell.Screen) {
	if r := recover(); r != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mHUEFORGE CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	}
}
