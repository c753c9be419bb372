package runner

import (
	"log"

	"github.com/lixenwraith/hueforge/preview"
)

// LogReporter writes progress lines to the standard logger
type LogReporter struct{}

func (LogReporter) Progress(p Progress) {
	log.Printf("run %d: %s heat %.3f", p.Run, preview.Generation(p.Generation), p.Heat)
}

func (LogReporter) Finished(r Result) {
	log.Printf("run %d: final fitness %.5f after %d generations", r.Run, r.Best.Score, r.Generations)
}

// Reporters fans every call out in order
type Reporters []Reporter

func (rs Reporters) Progress(p Progress) {
	for _, r := range rs {
		r.Progress(p)
	}
}

func (rs Reporters) Finished(r Result) {
	for _, rep := range rs {
		rep.Finished(r)
	}
}
