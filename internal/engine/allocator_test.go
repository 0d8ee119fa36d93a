package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func factories(capacities ...int) []domain.FactoryCapacity {
	out := make([]domain.FactoryCapacity, len(capacities))
	for i, c := range capacities {
		out[i] = domain.FactoryCapacity{
			FactoryLocation: string(rune('A' + i)),
			WeeklyCapacity:  c,
		}
	}
	return out
}

func allocated(a Allocation) []int {
	out := make([]int, len(a.Factories))
	for i, f := range a.Factories {
		out[i] = f.AllocatedProduction
	}
	return out
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name        string
		capacities  []int
		requirement int
		want        []int
		unallocated int
	}{
		{
			name:        "proportional split without capping",
			capacities:  []int{100, 80},
			requirement: 120,
			want:        []int{67, 53},
		},
		{
			name:        "rounding leftover goes to first factory",
			capacities:  []int{3, 3, 3},
			requirement: 4,
			want:        []int{2, 1, 1},
		},
		{
			name:        "rounding up exhausts requirement early",
			capacities:  []int{1, 1, 1},
			requirement: 2,
			want:        []int{1, 1, 0},
		},
		{
			name:        "requirement beyond capacity is dropped",
			capacities:  []int{50, 30},
			requirement: 100,
			want:        []int{50, 30},
			unallocated: 20,
		},
		{
			name:        "zero capacity factory gets nothing",
			capacities:  []int{0, 10},
			requirement: 5,
			want:        []int{0, 5},
		},
		{
			name:        "zero requirement",
			capacities:  []int{40, 60},
			requirement: 0,
			want:        []int{0, 0},
		},
		{
			name:        "no factories",
			capacities:  nil,
			requirement: 50,
			want:        []int{},
			unallocated: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(factories(tt.capacities...), tt.requirement)
			assert.Equal(t, tt.want, allocated(got))
			assert.Equal(t, tt.unallocated, got.Unallocated())
		})
	}
}

func TestAllocateUtilization(t *testing.T) {
	got := Allocate(factories(0, 30, 200), 100)

	assert.Zero(t, got.Factories[0].UtilizationRate)
	assert.Equal(t, 43.33, got.Factories[1].UtilizationRate)
	assert.Equal(t, 43.5, got.Factories[2].UtilizationRate)
	assert.Equal(t, 230, got.TotalCapacity)
	assert.Equal(t, 100, got.Allocated)
}

func TestProductionRequirement(t *testing.T) {
	decisions := []domain.InventoryDecision{
		{OptimalInventory: 70, CurrentStock: 10},
		{OptimalInventory: 20, CurrentStock: 50},
	}
	assert.Equal(t, 30, ProductionRequirement(decisions))

	decisions[1].CurrentStock = 200
	assert.Zero(t, ProductionRequirement(decisions))
	assert.Zero(t, ProductionRequirement(nil))
}
