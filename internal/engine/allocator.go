package engine

import "github.com/andresuchdata/supplyplan/internal/domain"

// ProductionRequirement returns max(0, Σ optimal inventory − Σ current stock).
func ProductionRequirement(decisions []domain.InventoryDecision) int {
	optimal, stock := 0, 0
	for _, d := range decisions {
		optimal += d.OptimalInventory
		stock += d.CurrentStock
	}
	return max(0, optimal-stock)
}

// Allocation is the outcome of distributing a production requirement.
type Allocation struct {
	Factories     []domain.FactoryAllocation
	Requirement   int
	TotalCapacity int
	Allocated     int
}

// Unallocated is the part of the requirement that exceeded total capacity.
func (a Allocation) Unallocated() int {
	return a.Requirement - a.Allocated
}

// Allocate spreads requirement across factories proportionally to weekly capacity,
// then hands any remainder to factories with spare capacity in input order.
// Requirement beyond total capacity is dropped.
func Allocate(factories []domain.FactoryCapacity, requirement int) Allocation {
	requirement = max(requirement, 0)
	out := Allocation{
		Factories:   make([]domain.FactoryAllocation, len(factories)),
		Requirement: requirement,
	}

	capacities := make([]int, len(factories))
	for i, f := range factories {
		capacities[i] = max(f.WeeklyCapacity, 0)
		out.TotalCapacity += capacities[i]
	}

	allocated := make([]int, len(factories))
	remaining := requirement

	// Pass 1: proportional targets capped by capacity and what is left
	if out.TotalCapacity > 0 {
		for i, c := range capacities {
			target := roundInt(float64(requirement) * float64(c) / float64(out.TotalCapacity))
			a := min(target, c, remaining)
			allocated[i] = max(a, 0)
			remaining -= allocated[i]
		}
	}

	// Pass 2: rounding leftovers go to the first factories with spare room
	for remaining > 0 {
		progressed := false
		for i, c := range capacities {
			spare := c - allocated[i]
			if spare <= 0 {
				continue
			}
			add := min(spare, remaining)
			allocated[i] += add
			remaining -= add
			progressed = true
			if remaining == 0 {
				break
			}
		}
		if !progressed {
			break
		}
	}

	for i, f := range factories {
		out.Factories[i] = domain.FactoryAllocation{
			FactoryLocation:       f.FactoryLocation,
			WeeklyCapacity:        f.WeeklyCapacity,
			AllocatedProduction:   allocated[i],
			UtilizationRate:       roundFloat(percentOf(float64(allocated[i]), float64(capacities[i]), 0), 2),
			ProductionCostPerUnit: f.ProductionCostPerUnit,
			EfficiencyRate:        f.EfficiencyRate,
		}
		out.Allocated += allocated[i]
	}

	return out
}
