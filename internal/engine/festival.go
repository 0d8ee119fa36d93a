package engine

import (
	"encoding/json"
	"math"
	"time"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

const (
	MinFestivalMultiplier = 1.0
	MaxFestivalMultiplier = 3.0

	// DefaultFestivalMultiplier applies when planning feeds an optimization run.
	DefaultFestivalMultiplier = 1.45
	// DefaultScreenMultiplier applies to standalone festival planning requests.
	DefaultScreenMultiplier = 1.35

	// festivalAdditionalShifts is the fixed extra shift count suggested per factory.
	festivalAdditionalShifts = 2
)

// DefaultFestivalDates are the informational target dates attached to every plan.
var DefaultFestivalDates = []time.Time{
	time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC),
	time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
}

// NormalizeMultiplier returns m when it lies in [1.0, 3.0], otherwise fallback.
// A fallback outside the range is itself replaced by DefaultFestivalMultiplier.
func NormalizeMultiplier(m, fallback float64) float64 {
	if !validMultiplier(fallback) {
		fallback = DefaultFestivalMultiplier
	}
	if !validMultiplier(m) {
		return fallback
	}
	return m
}

func validMultiplier(m float64) bool {
	return isFinite(m) && m >= MinFestivalMultiplier && m <= MaxFestivalMultiplier
}

// ParseMultiplier accepts a multiplier as decoded from JSON, a form or a flag.
// Non-numeric and out-of-range values fall back to fallback.
func ParseMultiplier(v any, fallback float64) float64 {
	switch t := v.(type) {
	case nil:
		return NormalizeMultiplier(math.NaN(), fallback)
	case float64:
		return NormalizeMultiplier(t, fallback)
	case float32:
		return NormalizeMultiplier(float64(t), fallback)
	case int:
		return NormalizeMultiplier(float64(t), fallback)
	case int64:
		return NormalizeMultiplier(float64(t), fallback)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return NormalizeMultiplier(math.NaN(), fallback)
		}
		return NormalizeMultiplier(f, fallback)
	case string:
		f, ok := parseLooseFloat(t)
		if !ok {
			return NormalizeMultiplier(math.NaN(), fallback)
		}
		return NormalizeMultiplier(f, fallback)
	default:
		return NormalizeMultiplier(math.NaN(), fallback)
	}
}

// FestivalPlanner produces surge-adjusted demand plans
type FestivalPlanner struct {
	targetDates []time.Time
	now         func() time.Time
}

// NewFestivalPlanner creates a planner stamping plans with the given target dates.
func NewFestivalPlanner(targetDates []time.Time) *FestivalPlanner {
	if len(targetDates) == 0 {
		targetDates = DefaultFestivalDates
	}
	return &FestivalPlanner{
		targetDates: append([]time.Time(nil), targetDates...),
		now:         time.Now,
	}
}

// Plan builds a new festival plan for store using multiplier m. An invalid m is
// replaced by DefaultFestivalMultiplier.
func (fp *FestivalPlanner) Plan(store domain.RecordStore, m float64) *domain.FestivalPlan {
	m = NormalizeMultiplier(m, DefaultFestivalMultiplier)

	plan := &domain.FestivalPlan{
		Multiplier:  m,
		TargetDates: append([]time.Time(nil), fp.targetDates...),
		Entries:     make([]domain.FestivalEntry, 0, len(store.SKUs)),
		Factories:   make([]domain.FactoryFestivalCapacity, 0, len(store.Factories)),
		GeneratedAt: fp.now().UTC(),
	}

	for _, rec := range store.SKUs {
		surge := 1.0
		if rec.IsFestivalSensitive {
			surge = m
		}
		base := max(rec.ForecastDemand, 0)
		festivalDemand := roundInt(float64(base) * surge)

		plan.Entries = append(plan.Entries, domain.FestivalEntry{
			SKU:                 rec.SKU,
			Warehouse:           rec.Warehouse,
			CurrentStock:        rec.CurrentStock,
			BaseDemand:          base,
			FestivalDemand:      festivalDemand,
			SurgeFactor:         surge,
			BuildupNeeded:       max(0, festivalDemand-rec.CurrentStock),
			IsFestivalSensitive: rec.IsFestivalSensitive,
		})
		plan.TotalBaseDemand += base
		plan.TotalFestivalDemand += festivalDemand
		plan.TotalBuildupNeeded += max(0, festivalDemand-rec.CurrentStock)
	}

	totalCapacity := 0
	for _, f := range store.Factories {
		plan.Factories = append(plan.Factories, domain.FactoryFestivalCapacity{
			FactoryLocation:        f.FactoryLocation,
			WeeklyCapacity:         f.WeeklyCapacity,
			FestivalCapacityNeeded: roundInt(float64(f.WeeklyCapacity) * m),
			AdditionalShifts:       festivalAdditionalShifts,
		})
		totalCapacity += max(f.WeeklyCapacity, 0)
	}

	plan.Subcontracting = assessSubcontracting(plan.TotalFestivalDemand, totalCapacity)
	return plan
}

func assessSubcontracting(demand, capacity int) domain.SubcontractingAssessment {
	utilization := percentOf(float64(demand), float64(capacity), 0)
	shortfall := max(0, demand-capacity)

	return domain.SubcontractingAssessment{
		IsRequired:          shortfall > 0,
		ShortfallVolume:     shortfall,
		TotalCapacity:       capacity,
		CapacityUtilization: roundFloat(utilization, 2),
		RecommendedActions:  capacityActions(utilization, shortfall > 0),
	}
}

func capacityActions(utilization float64, short bool) []string {
	switch {
	case utilization > 100 || short:
		return []string{
			"Immediate subcontracting required",
			"Consider emergency capacity expansion",
			"Activate all available production lines",
		}
	case utilization > 85:
		return []string{
			"Prepare subcontracting agreements",
			"Optimize production schedules",
			"Monitor capacity closely",
		}
	default:
		return []string{
			"Internal capacity sufficient",
			"Maintain production flexibility",
			"Monitor demand changes",
		}
	}
}
