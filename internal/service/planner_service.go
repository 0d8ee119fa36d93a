package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/supplyplan/internal/cache"
	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/engine"
	"github.com/andresuchdata/supplyplan/internal/repository"
)

// OptimizeRequest is one optimization invocation.
type OptimizeRequest struct {
	DatasetName string
	Store       domain.RecordStore
	// Plan is used as-is when set.
	Plan *domain.FestivalPlan
	// FestivalMode builds a fresh plan with Multiplier when Plan is nil.
	FestivalMode bool
	Multiplier   any
}

// OptimizeResponse carries the result together with the run bookkeeping.
type OptimizeResponse struct {
	RunID    string                     `json:"runId"`
	Result   *domain.OptimizationResult `json:"result"`
	Plan     *domain.FestivalPlan       `json:"festivalPlan,omitempty"`
	CacheHit bool                       `json:"cacheHit"`
}

type PlannerService struct {
	engine *engine.Engine
	cache  cache.ResultCache
	runs   repository.RunRepository
	now    func() time.Time
}

// NewPlannerService wires the engine with an optional cache and run archive.
// runs may be nil.
func NewPlannerService(eng *engine.Engine, cacheImpl cache.ResultCache, runs repository.RunRepository) *PlannerService {
	if eng == nil {
		eng = engine.NewDefault()
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &PlannerService{
		engine: eng,
		cache:  cacheImpl,
		runs:   runs,
		now:    time.Now,
	}
}

func (s *PlannerService) Analyze(ctx context.Context, store domain.RecordStore) (*domain.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store, err := normalizeStore(store)
	if err != nil {
		return nil, err
	}

	key, keyErr := cache.Fingerprint("analyze", store)
	if keyErr == nil {
		if report, ok, err := s.cache.GetAnalysis(ctx, key); err == nil && ok {
			return report, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("planner: cache get analysis failed")
		}
	}

	report := s.engine.Analyze(store)

	if keyErr == nil {
		if err := s.cache.SetAnalysis(ctx, key, report); err != nil {
			log.Warn().Err(err).Msg("planner: cache set analysis failed")
		}
	}
	return &report, nil
}

// PlanFestival builds a plan for the standalone festival planning view.
func (s *PlannerService) PlanFestival(ctx context.Context, store domain.RecordStore, multiplier any) (*domain.FestivalPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store, err := normalizeStore(store)
	if err != nil {
		return nil, err
	}
	plan := s.engine.PlanFestival(store, multiplier)

	log.Debug().
		Float64("multiplier", plan.Multiplier).
		Int("skus", len(plan.Entries)).
		Bool("subcontracting_required", plan.Subcontracting.IsRequired).
		Msg("planner: festival plan built")
	return plan, nil
}

func (s *PlannerService) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store, err := normalizeStore(req.Store)
	if err != nil {
		return nil, err
	}
	req.Store = store

	startedAt := s.now()
	plan := req.Plan
	if plan == nil && req.FestivalMode {
		plan = s.engine.PlanFestivalForOptimization(req.Store, req.Multiplier)
	}

	resp := &OptimizeResponse{
		RunID: uuid.NewString(),
		Plan:  plan,
	}

	key, keyErr := cache.Fingerprint("optimize", s.engine.Policy(), req.Store, planEntries(plan))
	if keyErr == nil {
		if result, ok, err := s.cache.GetOptimization(ctx, key); err == nil && ok {
			resp.Result = result
			resp.CacheHit = true
		} else if err != nil {
			log.Warn().Err(err).Msg("planner: cache get optimization failed")
		}
	} else {
		log.Warn().Err(keyErr).Msg("planner: fingerprint failed")
	}

	if resp.Result == nil {
		result := s.engine.Optimize(req.Store, plan)
		resp.Result = &result
		if keyErr == nil {
			if err := s.cache.SetOptimization(ctx, key, result); err != nil {
				log.Warn().Err(err).Msg("planner: cache set optimization failed")
			}
		}
	}

	logDegenerate(req.DatasetName, resp.Result)
	s.archive(ctx, req, resp, startedAt)

	log.Info().
		Str("run_id", resp.RunID).
		Str("dataset", req.DatasetName).
		Int("skus", len(req.Store.SKUs)).
		Bool("festival", resp.Result.UsedFestivalPlan).
		Bool("cache_hit", resp.CacheHit).
		Float64("total_cost", resp.Result.CostAnalysis.TotalCost).
		Dur("elapsed", s.now().Sub(startedAt)).
		Msg("planner: optimization completed")

	return resp, nil
}

// InvalidateCache drops every cached planning result.
func (s *PlannerService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidate result cache: %w", err)
	}
	return nil
}

// ListRuns returns archived runs, or an empty list when no archive is configured.
func (s *PlannerService) ListRuns(ctx context.Context, datasetName string, limit int) ([]domain.PlanningRun, error) {
	if s.runs == nil {
		return []domain.PlanningRun{}, nil
	}
	return s.runs.ListRuns(ctx, datasetName, limit)
}

func (s *PlannerService) archive(ctx context.Context, req OptimizeRequest, resp *OptimizeResponse, startedAt time.Time) {
	if s.runs == nil {
		return
	}
	report := s.engine.Analyze(req.Store)
	run := BuildRun(resp.RunID, req.DatasetName, req.Store, *resp.Result, report, startedAt, s.now())
	if err := s.runs.SaveRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("run_id", resp.RunID).Msg("planner: archive run failed")
	}
}

// BuildRun summarizes one optimization for the run archive.
func BuildRun(id, datasetName string, store domain.RecordStore, result domain.OptimizationResult, report domain.AnalysisReport, startedAt, completedAt time.Time) domain.PlanningRun {
	shortages := make([]string, 0, len(report.CriticalShortages))
	for _, item := range report.CriticalShortages {
		shortages = append(shortages, item.SKU)
	}

	m := result.PerformanceMetrics
	return domain.PlanningRun{
		ID:                  id,
		DatasetName:         datasetName,
		SKUCount:            len(store.SKUs),
		FactoryCount:        len(store.Factories),
		SupplierCount:       len(store.Suppliers),
		UsedFestivalPlan:    result.UsedFestivalPlan,
		TotalCost:           result.CostAnalysis.TotalCost,
		ServiceLevel:        m.ServiceLevel,
		InventoryTurnover:   m.InventoryTurnover,
		CapacityUtilization: m.CapacityUtilization,
		CostEfficiency:      m.CostEfficiency,
		ForecastAccuracy:    report.ForecastAccuracy,
		CriticalShortages:   shortages,
		StartedAt:           startedAt,
		CompletedAt:         completedAt,
	}
}

// normalizeStore gives every SKU a unique id without touching the caller's slices.
func normalizeStore(store domain.RecordStore) (domain.RecordStore, error) {
	out := store.Clone()
	if err := out.Normalize(); err != nil {
		return store, fmt.Errorf("invalid record store: %w", err)
	}
	return out, nil
}

// planEntries drops the volatile parts of a plan so equal demand yields equal keys.
func planEntries(plan *domain.FestivalPlan) []domain.FestivalEntry {
	if plan == nil {
		return nil
	}
	return plan.Entries
}

func logDegenerate(dataset string, result *domain.OptimizationResult) {
	if result.TotalCapacity == 0 && result.ProductionRequirement > 0 {
		log.Warn().Str("dataset", dataset).Int("requirement", result.ProductionRequirement).
			Msg("planner: no factory capacity, production requirement left unallocated")
	}
	if result.CostAnalysis.TotalCost == 0 {
		log.Warn().Str("dataset", dataset).Msg("planner: total cost is zero, cost efficiency reported as 0")
	}
}
