// Package store keeps the history of finished runs: the best palette each
// run produced together with the objectives and seed that produced it
package store

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"
)

// Record is one finished run
type Record struct {
	ID          string
	CreatedAt   time.Time
	Seed        uint64
	Run         int
	Generations int
	Fitness     float64
	FreeColors  []string
	FixedColors []string
	// Targets are command lines that reproduce the objectives
	Targets []string
	// History is the best fitness of every generation, in order
	History []float64
}

// Store persists run records
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, rec Record) (string, error)
	GetRun(ctx context.Context, id string) (Record, bool, error)
	// ListRuns returns up to limit records, best fitness first; limit <= 0 means all
	ListRuns(ctx context.Context, limit int) ([]Record, error)
	DeleteRun(ctx context.Context, id string) error
}

func cloneRecord(r Record) Record {
	r.FreeColors = slices.Clone(r.FreeColors)
	r.FixedColors = slices.Clone(r.FixedColors)
	r.Targets = slices.Clone(r.Targets)
	r.History = slices.Clone(r.History)
	return r
}

// compareRecords orders best fitness first, NaN last, then oldest first
func compareRecords(a, b Record) int {
	an, bn := math.IsNaN(a.Fitness), math.IsNaN(b.Fitness)
	switch {
	case an && !bn:
		return 1
	case bn && !an:
		return -1
	case !an && a.Fitness != b.Fitness:
		return cmp.Compare(b.Fitness, a.Fitness)
	}
	return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
}
