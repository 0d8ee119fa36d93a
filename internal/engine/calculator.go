package engine

import "github.com/andresuchdata/supplyplan/internal/domain"

const (
	DefaultBufferFactor  = 1.2
	DefaultSafetyFactor  = 0.3
	DefaultReorderFactor = 0.8
	// DefaultCostReference is the per-unit reference value used by the cost efficiency KPI.
	DefaultCostReference = 15.0
)

// Policy holds the fixed inventory policy multipliers.
// They are flat multipliers on effective demand, not derived from lead time or variance.
type Policy struct {
	BufferFactor  float64 `json:"buffer_factor"`
	SafetyFactor  float64 `json:"safety_factor"`
	ReorderFactor float64 `json:"reorder_factor"`
	CostReference float64 `json:"cost_reference"`
}

// DefaultPolicy returns the compatibility defaults.
func DefaultPolicy() Policy {
	return Policy{
		BufferFactor:  DefaultBufferFactor,
		SafetyFactor:  DefaultSafetyFactor,
		ReorderFactor: DefaultReorderFactor,
		CostReference: DefaultCostReference,
	}
}

// normalized replaces invalid factors with their defaults. Safety and reorder
// factors may be 0; the buffer factor and cost reference must be positive.
func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if !isFinite(p.BufferFactor) || p.BufferFactor <= 0 {
		p.BufferFactor = def.BufferFactor
	}
	if !isFinite(p.SafetyFactor) || p.SafetyFactor < 0 {
		p.SafetyFactor = def.SafetyFactor
	}
	if !isFinite(p.ReorderFactor) || p.ReorderFactor < 0 {
		p.ReorderFactor = def.ReorderFactor
	}
	if !isFinite(p.CostReference) || p.CostReference <= 0 {
		p.CostReference = def.CostReference
	}
	return p
}

// InventoryCalculator derives the inventory policy of a SKU from its effective demand
type InventoryCalculator struct {
	policy Policy
}

// NewInventoryCalculator creates a new inventory calculator
func NewInventoryCalculator(policy Policy) *InventoryCalculator {
	return &InventoryCalculator{
		policy: policy.normalized(),
	}
}

// Policy returns the normalized policy in use.
func (ic *InventoryCalculator) Policy() Policy {
	return ic.policy
}

// Calculate computes the inventory decision for a SKU given its effective demand.
func (ic *InventoryCalculator) Calculate(rec domain.SKURecord, demand int) domain.InventoryDecision {
	d := float64(demand)

	decision := domain.InventoryDecision{
		SKU:             rec.SKU,
		Warehouse:       rec.Warehouse,
		CurrentStock:    rec.CurrentStock,
		EffectiveDemand: demand,
	}

	// 1. Optimal inventory = demand plus buffer
	decision.OptimalInventory = roundInt(d * ic.policy.BufferFactor)

	// 2. Safety stock
	decision.SafetyStock = roundInt(d * ic.policy.SafetyFactor)

	// 3. Reorder point
	decision.ReorderPoint = roundInt(d * ic.policy.ReorderFactor)

	// 4. Action
	if rec.CurrentStock < demand {
		decision.Recommendation = domain.RecommendIncrease
	} else {
		decision.Recommendation = domain.RecommendOptimize
	}

	return decision
}
