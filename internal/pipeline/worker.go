package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/ingest"
	"github.com/andresuchdata/supplyplan/internal/service"
	"github.com/andresuchdata/supplyplan/internal/storage"
)

const (
	inventoryCSVName = "inventory_optimization.csv"
	workbookName     = "inventory_optimization.xlsx"
	analysisName     = "analysis.json"

	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeJSON = "application/json"
)

// Worker plans a single dataset and writes its exports
type Worker struct {
	planner Planner
	config  Config
	store   storage.ObjectStorage
}

// NewWorker creates a new worker. objects may be nil to skip uploads.
func NewWorker(planner Planner, config Config, objects storage.ObjectStorage) *Worker {
	return &Worker{
		planner: planner,
		config:  config,
		store:   objects,
	}
}

// Process runs analysis and optimization for job. Failures are reported on
// the result rather than returned so one bad dataset does not stop a batch.
func (w *Worker) Process(ctx context.Context, job Job) JobResult {
	start := time.Now()
	res := JobResult{Job: job, Status: StatusProcessing}

	log.Info().Str("dataset", job.Name).Str("dir", job.Dir).Msg("pipeline: processing dataset")

	if err := w.process(ctx, job, &res); err != nil {
		res.Status = StatusFailed
		res.Err = err
		log.Error().Err(err).Str("dataset", job.Name).Msg("pipeline: dataset failed")
	} else {
		res.Status = StatusCompleted
	}
	res.Duration = time.Since(start)

	log.Info().
		Str("dataset", job.Name).
		Str("status", string(res.Status)).
		Dur("duration", res.Duration).
		Msg("pipeline: dataset finished")
	return res
}

func (w *Worker) process(ctx context.Context, job Job, res *JobResult) error {
	records, err := ingest.LoadDataset(job.Dir)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	report, err := w.planner.Analyze(ctx, records)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	res.Report = report

	resp, err := w.planner.Optimize(ctx, service.OptimizeRequest{
		DatasetName:  job.Name,
		Store:        records,
		FestivalMode: w.config.FestivalMode,
		Multiplier:   w.config.Multiplier,
	})
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	res.RunID = resp.RunID
	res.Result = resp.Result

	exports, err := w.writeExports(job, *report, *resp.Result)
	if err != nil {
		return err
	}
	res.Exports = exports

	return w.upload(ctx, job, exports)
}

func (w *Worker) writeExports(job Job, report domain.AnalysisReport, result domain.OptimizationResult) ([]string, error) {
	dir := filepath.Join(w.config.OutputDir, job.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{inventoryCSVName, func(f *os.File) error { return ingest.WriteInventoryCSV(f, result) }},
		{workbookName, func(f *os.File) error { return ingest.WriteWorkbook(f, result) }},
		{analysisName, func(f *os.File) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}},
	}

	paths := make([]string, 0, len(writers))
	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		if err := writeFile(path, wr.write); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", wr.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Worker) upload(ctx context.Context, job Job, paths []string) error {
	if w.store == nil {
		return nil
	}
	for _, path := range paths {
		key := storage.JoinKey(w.config.ExportPrefix, job.Name+"/"+filepath.Base(path))
		if err := storage.UploadFile(ctx, w.store, key, path, contentTypeFor(path)); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		log.Debug().Str("key", key).Msg("pipeline: export uploaded")
	}
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".xlsx":
		return contentTypeXLSX
	case ".json":
		return contentTypeJSON
	default:
		return contentTypeCSV
	}
}
