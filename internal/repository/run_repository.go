package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// ErrRunNotFound is returned when no archived run has the requested id.
var ErrRunNotFound = errors.New("planning run not found")

// RunRepository archives the summary of completed optimization runs.
type RunRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run domain.PlanningRun) error
	GetRun(ctx context.Context, id string) (*domain.PlanningRun, error)
	ListRuns(ctx context.Context, datasetName string, limit int) ([]domain.PlanningRun, error)
}
