package service

import (
	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/engine"
)

// NewEngine builds a planning engine from the planner settings.
func NewEngine(cfg config.PlannerConfig) *engine.Engine {
	return engine.New(engine.Config{
		Policy: engine.Policy{
			BufferFactor:  cfg.BufferFactor,
			SafetyFactor:  cfg.SafetyFactor,
			ReorderFactor: cfg.ReorderFactor,
			CostReference: cfg.CostReference,
		},
		FestivalMultiplier: cfg.FestivalMultiplier,
		ScreenMultiplier:   cfg.FestivalScreenMultiplier,
		FestivalDates:      cfg.FestivalDates,
	})
}
