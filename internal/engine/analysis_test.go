package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func analysisStore() domain.RecordStore {
	return domain.RecordStore{
		SKUs: []domain.SKURecord{
			{SKU: "SKU-001", Warehouse: "Delhi", CurrentStock: 10, ForecastDemand: 40, ActualDemand: 60},
			{SKU: "SKU-002", Warehouse: "Mumbai", CurrentStock: 100, ForecastDemand: 50, ActualDemand: 40},
			{SKU: "SKU-003", Warehouse: "Delhi", CurrentStock: 20, ForecastDemand: 30, ActualDemand: 30},
		},
		Factories: []domain.FactoryCapacity{
			{FactoryLocation: "Pune", WeeklyCapacity: 100, EfficiencyRate: 0.9},
			{FactoryLocation: "Nagpur", WeeklyCapacity: 60, EfficiencyRate: 0.7},
		},
		Suppliers: []domain.Supplier{
			{SupplierID: "SUP-001", ReliabilityScore: 0.9, QualityRating: 8, LeadTimeDays: 10, UnitPrice: 2, MOQ: 500},
			{SupplierID: "SUP-002", ReliabilityScore: 0.7, QualityRating: 6, LeadTimeDays: 20, UnitPrice: 1, MOQ: 1500},
		},
	}
}

func TestAnalyze(t *testing.T) {
	report := Analyze(analysisStore())

	assert.Equal(t, 120, report.TotalForecastDemand)
	assert.Equal(t, 130, report.TotalActualDemand)
	assert.Equal(t, 130, report.TotalStock)
	assert.Equal(t, 75.0, report.ForecastAccuracy)

	require.Len(t, report.CriticalShortages, 1)
	assert.Equal(t, "SKU-001", report.CriticalShortages[0].SKU)
	assert.Equal(t, 1, report.HighRiskProducts)
	require.Len(t, report.ExcessInventory, 1)
	assert.Equal(t, "SKU-002", report.ExcessInventory[0].SKU)

	assert.Equal(t, []domain.WarehouseCoverage{
		{Warehouse: "Delhi", TotalStock: 30, TotalDemand: 90, StockCoverage: 0.33, ServiceLevel: 33.33},
		{Warehouse: "Mumbai", TotalStock: 100, TotalDemand: 40, StockCoverage: 2.5, ServiceLevel: 100},
	}, report.WarehouseCoverage)

	assert.Equal(t, 1, report.UnreliableSuppliers)
	assert.Equal(t, []string{
		"Implement emergency replenishment for high-risk SKUs",
		"Diversify supplier base for critical materials",
		"Establish safety stock buffers",
		"Implement demand sensing technology",
	}, report.RiskMitigationActions)
}

func TestAnalyzeWarehouseWithoutDemand(t *testing.T) {
	report := Analyze(domain.RecordStore{
		SKUs: []domain.SKURecord{{SKU: "SKU-001", Warehouse: "Kolkata", CurrentStock: 5}},
	})

	require.Len(t, report.WarehouseCoverage, 1)
	assert.Zero(t, report.WarehouseCoverage[0].StockCoverage)
	assert.Equal(t, 100.0, report.WarehouseCoverage[0].ServiceLevel)
	assert.Equal(t, 100.0, report.ForecastAccuracy)
}

func TestAnalyzeEmpty(t *testing.T) {
	report := Analyze(domain.RecordStore{})

	assert.Equal(t, 100.0, report.ForecastAccuracy)
	assert.Empty(t, report.CriticalShortages)
	assert.Empty(t, report.WarehouseCoverage)
	assert.Zero(t, report.UnreliableSuppliers)
	assert.Zero(t, report.CapacityAnalysis.AverageEfficiency)
	assert.Equal(t, []string{
		"Establish safety stock buffers",
		"Implement demand sensing technology",
	}, report.RiskMitigationActions)
}

func TestAnalyzeSuppliers(t *testing.T) {
	perf := AnalyzeSuppliers(analysisStore().Suppliers)

	require.Len(t, perf.Rankings, 2)
	assert.Equal(t, "SUP-001", perf.Rankings[0].SupplierID)
	assert.Equal(t, 0.67, perf.Rankings[0].OverallScore)
	assert.Equal(t, 0.57, perf.Rankings[1].OverallScore)
	assert.Equal(t, []string{"SUP-002"}, perf.UnreliableSuppliers)
	assert.Equal(t, []string{"SUP-002"}, perf.HighLeadTimeSuppliers)
	assert.Equal(t, 0.8, perf.AverageReliability)
	assert.Equal(t, 15.0, perf.AverageLeadTime)
	assert.Len(t, perf.Recommendations, 4)
}

func TestSupplierScoreSkipsZeroDenominators(t *testing.T) {
	s := domain.Supplier{ReliabilityScore: 1, QualityRating: 10}
	assert.InDelta(t, 0.7, supplierScore(s), 1e-9)
}

func TestAnalyzeCapacity(t *testing.T) {
	got := AnalyzeCapacity(analysisStore().Factories)

	assert.Equal(t, 160, got.TotalWeeklyCapacity)
	assert.Equal(t, 0.8, got.AverageEfficiency)
	assert.Equal(t, []string{
		"Improve efficiency at Nagpur factory",
		"Consider capacity expansion at Nagpur",
	}, got.Recommendations)
}
