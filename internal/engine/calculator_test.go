package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func TestInventoryCalculator(t *testing.T) {
	calc := NewInventoryCalculator(DefaultPolicy())

	tests := []struct {
		name   string
		stock  int
		demand int
		want   domain.InventoryDecision
	}{
		{
			name:   "under stocked",
			stock:  10,
			demand: 58,
			want: domain.InventoryDecision{
				CurrentStock: 10, EffectiveDemand: 58,
				OptimalInventory: 70, SafetyStock: 17, ReorderPoint: 46,
				Recommendation: domain.RecommendIncrease,
			},
		},
		{
			name:   "stock equals demand",
			stock:  20,
			demand: 20,
			want: domain.InventoryDecision{
				CurrentStock: 20, EffectiveDemand: 20,
				OptimalInventory: 24, SafetyStock: 6, ReorderPoint: 16,
				Recommendation: domain.RecommendOptimize,
			},
		},
		{
			name:   "no demand",
			stock:  0,
			demand: 0,
			want: domain.InventoryDecision{
				Recommendation: domain.RecommendOptimize,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Calculate(domain.SKURecord{CurrentStock: tt.stock}, tt.demand)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The safety and reorder factors are flat policy constants, not derived from
// lead time or demand variability, so they must stay overridable.
func TestPolicyFactorsAreConfigurable(t *testing.T) {
	calc := NewInventoryCalculator(Policy{BufferFactor: 1.5, SafetyFactor: 0.5, ReorderFactor: 0.8})

	got := calc.Calculate(domain.SKURecord{LeadTimeDays: 30}, 100)
	assert.Equal(t, 150, got.OptimalInventory)
	assert.Equal(t, 50, got.SafetyStock)
	assert.Equal(t, 80, got.ReorderPoint)

	assert.Equal(t, DefaultCostReference, calc.Policy().CostReference)
}

func TestPolicyRejectsInvalidFactors(t *testing.T) {
	p := Policy{BufferFactor: -1, SafetyFactor: math.Inf(1), ReorderFactor: math.NaN()}.normalized()
	assert.Equal(t, DefaultPolicy(), p)

	p = Policy{BufferFactor: 0, SafetyFactor: -0.1, ReorderFactor: -1, CostReference: 0}.normalized()
	assert.Equal(t, DefaultPolicy(), p)
}

func TestPolicyAllowsZeroSafetyAndReorder(t *testing.T) {
	calc := NewInventoryCalculator(Policy{BufferFactor: 1.2, SafetyFactor: 0, ReorderFactor: 0, CostReference: 15})

	got := calc.Calculate(domain.SKURecord{}, 100)
	assert.Equal(t, 120, got.OptimalInventory)
	assert.Zero(t, got.SafetyStock)
	assert.Zero(t, got.ReorderPoint)
	assert.Zero(t, calc.Policy().SafetyFactor)
}
