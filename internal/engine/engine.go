// Package engine is the pure planning core: festival surge planning, inventory
// policy, production allocation, cost aggregation and diagnostics.
//
// Every entry point is a stateless transform over a domain.RecordStore. Calls
// never mutate their inputs and return fresh artifacts.
package engine

import (
	"time"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// Config tunes an Engine. Zero values fall back to the compatibility defaults;
// a zero Policy means DefaultPolicy.
type Config struct {
	Policy             Policy
	FestivalMultiplier float64
	ScreenMultiplier   float64
	FestivalDates      []time.Time
}

// Engine bundles the planning stages behind one value.
type Engine struct {
	calculator         *InventoryCalculator
	festival           *FestivalPlanner
	festivalMultiplier float64
	screenMultiplier   float64
}

// New creates a new engine
func New(cfg Config) *Engine {
	policy := cfg.Policy
	if policy == (Policy{}) {
		policy = DefaultPolicy()
	}
	return &Engine{
		calculator:         NewInventoryCalculator(policy),
		festival:           NewFestivalPlanner(cfg.FestivalDates),
		festivalMultiplier: NormalizeMultiplier(cfg.FestivalMultiplier, DefaultFestivalMultiplier),
		screenMultiplier:   NormalizeMultiplier(cfg.ScreenMultiplier, DefaultScreenMultiplier),
	}
}

// NewDefault creates an engine with every default.
func NewDefault() *Engine {
	return New(Config{})
}

// Policy returns the inventory policy in effect.
func (e *Engine) Policy() Policy {
	return e.calculator.Policy()
}

// Analyze returns the diagnostic report for store.
func (e *Engine) Analyze(store domain.RecordStore) domain.AnalysisReport {
	return Analyze(store)
}

// PlanFestival builds a festival plan for the standalone planning screen.
// Invalid multipliers fall back to the screen default.
func (e *Engine) PlanFestival(store domain.RecordStore, multiplier any) *domain.FestivalPlan {
	return e.festival.Plan(store, ParseMultiplier(multiplier, e.screenMultiplier))
}

// PlanFestivalForOptimization builds the plan fed into an optimization run.
// Invalid multipliers fall back to the optimization default.
func (e *Engine) PlanFestivalForOptimization(store domain.RecordStore, multiplier any) *domain.FestivalPlan {
	return e.festival.Plan(store, ParseMultiplier(multiplier, e.festivalMultiplier))
}

// Optimize computes inventory decisions, production allocation, procurement,
// costs and metrics. plan may be nil; when present it is snapshotted before
// any demand is resolved.
func (e *Engine) Optimize(store domain.RecordStore, plan *domain.FestivalPlan) domain.OptimizationResult {
	resolver := NewDemandResolver(plan)

	decisions := make([]domain.InventoryDecision, 0, len(store.SKUs))
	for _, rec := range store.SKUs {
		decisions = append(decisions, e.calculator.Calculate(rec, resolver.Resolve(rec)))
	}

	alloc := Allocate(store.Factories, ProductionRequirement(decisions))
	costs := sumCosts(alloc, store.SKUs, store.Suppliers)

	return domain.OptimizationResult{
		ProductionAllocation:  alloc.Factories,
		InventoryOptimization: decisions,
		ProcurementPlan:       BuildProcurementPlan(store.Suppliers),
		CostAnalysis:          costs.report(),
		PerformanceMetrics:    computeMetrics(decisions, alloc, costs.total(), e.calculator.Policy().CostReference),
		ProductionRequirement: alloc.Requirement,
		TotalCapacity:         alloc.TotalCapacity,
		UsedFestivalPlan:      resolver.HasPlan(),
	}
}
