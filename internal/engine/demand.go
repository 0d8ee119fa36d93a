package engine

import "github.com/andresuchdata/supplyplan/internal/domain"

// EffectiveDemand returns the festival-adjusted demand for rec when plan has an
// entry for it, otherwise the SKU's forecast demand.
func EffectiveDemand(rec domain.SKURecord, plan *domain.FestivalPlan) int {
	return NewDemandResolver(plan).Resolve(rec)
}

// DemandResolver is a read-only snapshot of a festival plan indexed by SKU.
// Every downstream computation resolves demand through it so the festival
// figure always takes precedence over the forecast.
type DemandResolver struct {
	festival map[string]int
}

// NewDemandResolver snapshots plan. A nil plan resolves every SKU to its forecast.
func NewDemandResolver(plan *domain.FestivalPlan) *DemandResolver {
	r := &DemandResolver{}
	if plan == nil {
		return r
	}
	r.festival = make(map[string]int, len(plan.Entries))
	for _, e := range plan.Entries {
		if _, seen := r.festival[e.SKU]; seen {
			continue
		}
		r.festival[e.SKU] = e.FestivalDemand
	}
	return r
}

// HasPlan reports whether the snapshot carries a festival plan.
func (r *DemandResolver) HasPlan() bool {
	return r.festival != nil
}

// Resolve returns the effective demand of rec.
func (r *DemandResolver) Resolve(rec domain.SKURecord) int {
	if d, ok := r.festival[rec.SKU]; ok {
		return max(d, 0)
	}
	return max(rec.ForecastDemand, 0)
}
