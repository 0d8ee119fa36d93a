package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/service"
)

// Planner is the planning surface a batch run drives.
type Planner interface {
	Analyze(ctx context.Context, store domain.RecordStore) (*domain.AnalysisReport, error)
	Optimize(ctx context.Context, req service.OptimizeRequest) (*service.OptimizeResponse, error)
}

// Config holds configuration for a batch run
type Config struct {
	Workers      int    // Number of datasets planned concurrently
	OutputDir    string // Directory for per-dataset exports and the summary CSV
	FestivalMode bool
	Multiplier   any
	ExportPrefix string // Object key prefix for uploaded exports
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		OutputDir:    "data/output",
		FestivalMode: true,
	}
}

// JobStatus represents the state of a single dataset job
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job is one dataset directory to plan.
type Job struct {
	Name string
	Dir  string
}

// JobResult tracks the outcome of a single job
type JobResult struct {
	Job      Job
	Status   JobStatus
	RunID    string
	Report   *domain.AnalysisReport
	Result   *domain.OptimizationResult
	Exports  []string
	Err      error
	Duration time.Duration
}

// Summary holds counters for a finished batch
type Summary struct {
	Total       int
	Completed   int
	Failed      int
	SummaryPath string
	StartedAt   time.Time
	CompletedAt time.Time
}
