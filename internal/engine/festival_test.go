package engine

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func TestParseMultiplier(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float in range", 2.0, 2.0},
		{"lower bound", 1.0, 1.0},
		{"upper bound", 3.0, 3.0},
		{"below range", 0.5, DefaultScreenMultiplier},
		{"above range", 3.5, DefaultScreenMultiplier},
		{"nan", math.NaN(), DefaultScreenMultiplier},
		{"numeric string", " 1.6 ", 1.6},
		{"garbage string", "festive", DefaultScreenMultiplier},
		{"json number", json.Number("1.8"), 1.8},
		{"int", 2, 2.0},
		{"nil", nil, DefaultScreenMultiplier},
		{"bool", true, DefaultScreenMultiplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMultiplier(tt.input, DefaultScreenMultiplier))
		})
	}
}

func TestNormalizeMultiplierRejectsBadFallback(t *testing.T) {
	assert.Equal(t, DefaultFestivalMultiplier, NormalizeMultiplier(9, 0))
}

func TestFestivalPlan(t *testing.T) {
	store := domain.RecordStore{
		SKUs: []domain.SKURecord{
			{SKU: "SKU-001", Warehouse: "Delhi", CurrentStock: 10, ForecastDemand: 40, IsFestivalSensitive: true},
			{SKU: "SKU-002", Warehouse: "Mumbai", CurrentStock: 90, ForecastDemand: 50},
		},
		Factories: []domain.FactoryCapacity{
			{FactoryLocation: "Pune", WeeklyCapacity: 100},
		},
	}

	plan := NewFestivalPlanner(nil).Plan(store, 1.45)

	require.Len(t, plan.Entries, 2)
	assert.Equal(t, domain.FestivalEntry{
		SKU:                 "SKU-001",
		Warehouse:           "Delhi",
		CurrentStock:        10,
		BaseDemand:          40,
		FestivalDemand:      58,
		SurgeFactor:         1.45,
		BuildupNeeded:       48,
		IsFestivalSensitive: true,
	}, plan.Entries[0])

	second := plan.Entries[1]
	assert.Equal(t, 1.0, second.SurgeFactor)
	assert.Equal(t, 50, second.FestivalDemand)
	assert.Zero(t, second.BuildupNeeded)

	assert.Equal(t, 90, plan.TotalBaseDemand)
	assert.Equal(t, 108, plan.TotalFestivalDemand)
	assert.Equal(t, 48, plan.TotalBuildupNeeded)

	require.Len(t, plan.Factories, 1)
	assert.Equal(t, 145, plan.Factories[0].FestivalCapacityNeeded)
	assert.Equal(t, 2, plan.Factories[0].AdditionalShifts)

	assert.Equal(t, DefaultFestivalDates, plan.TargetDates)
}

func TestFestivalSubcontracting(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		required  bool
		shortfall int
		action    string
	}{
		{"over capacity", 50, true, 8, "Immediate subcontracting required"},
		{"tight capacity", 65, false, 0, "Prepare subcontracting agreements"},
		{"ample capacity", 200, false, 0, "Internal capacity sufficient"},
		{"no capacity", 0, true, 58, "Immediate subcontracting required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := domain.RecordStore{
				SKUs: []domain.SKURecord{{SKU: "SKU-001", ForecastDemand: 40, IsFestivalSensitive: true}},
			}
			if tt.capacity > 0 {
				store.Factories = []domain.FactoryCapacity{{FactoryLocation: "Pune", WeeklyCapacity: tt.capacity}}
			}

			sub := NewFestivalPlanner(nil).Plan(store, 1.45).Subcontracting

			assert.Equal(t, tt.required, sub.IsRequired)
			assert.Equal(t, tt.shortfall, sub.ShortfallVolume)
			assert.Equal(t, tt.capacity, sub.TotalCapacity)
			require.NotEmpty(t, sub.RecommendedActions)
			assert.Equal(t, tt.action, sub.RecommendedActions[0])
		})
	}
}

func TestFestivalPlanTargetDates(t *testing.T) {
	dates := []time.Time{time.Date(2026, time.November, 8, 0, 0, 0, 0, time.UTC)}
	plan := NewFestivalPlanner(dates).Plan(domain.RecordStore{}, 1.2)

	assert.Equal(t, dates, plan.TargetDates)
	assert.Empty(t, plan.Entries)
	assert.False(t, plan.Subcontracting.IsRequired)
}
