package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/supplyplan/internal/ingest"
	"github.com/andresuchdata/supplyplan/internal/storage"
)

// Orchestrator runs a Worker over a set of dataset directories with bounded
// concurrency and writes the consolidated summary.
type Orchestrator struct {
	cfg    Config
	worker *Worker
}

// NewOrchestrator creates a new Orchestrator. objects may be nil.
func NewOrchestrator(planner Planner, cfg Config, objects storage.ObjectStorage) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Orchestrator{
		cfg:    cfg,
		worker: NewWorker(planner, cfg, objects),
	}
}

// DiscoverJobs returns one job per dataset directory under root. When root is
// itself a dataset it is the only job.
func DiscoverJobs(root string) ([]Job, error) {
	if ingest.IsDataset(root) {
		return []Job{{Name: filepath.Base(filepath.Clean(root)), Dir: root}}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var jobs []Job
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if !ingest.IsDataset(dir) {
			log.Debug().Str("dir", dir).Msg("pipeline: skipping directory without datasets")
			continue
		}
		jobs = append(jobs, Job{Name: e.Name(), Dir: dir})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// Run processes every job and writes the summary CSV. Individual dataset
// failures are recorded in the results; only cancellation or a summary write
// failure is returned as an error.
func (o *Orchestrator) Run(ctx context.Context, jobs []Job) (Summary, []JobResult, error) {
	summary := Summary{Total: len(jobs), StartedAt: time.Now()}
	agg := NewSummaryAggregator()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)

	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			agg.Add(o.worker.Process(gctx, job))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, agg.Results(), err
	}
	if err := ctx.Err(); err != nil {
		return summary, agg.Results(), err
	}

	results := agg.Results()
	for _, res := range results {
		if res.Status == StatusCompleted {
			summary.Completed++
		} else {
			summary.Failed++
		}
	}

	path, err := agg.Finalize(o.cfg.OutputDir)
	if err != nil {
		return summary, results, fmt.Errorf("failed to write summary: %w", err)
	}
	summary.SummaryPath = path
	summary.CompletedAt = time.Now()

	log.Info().
		Int("total", summary.Total).
		Int("completed", summary.Completed).
		Int("failed", summary.Failed).
		Dur("duration", summary.CompletedAt.Sub(summary.StartedAt)).
		Msg("pipeline: batch finished")

	return summary, results, nil
}
