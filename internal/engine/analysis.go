package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

const (
	criticalShortageRatio = 0.5
	highRiskRatio         = 0.3
	excessInventoryRatio  = 2.0

	unreliableThreshold    = 0.8
	highLeadTimeDays       = 14
	highMOQ                = 1000
	lowEfficiencyThreshold = 0.8
	smallFactoryCapacity   = 80
)

// Analyze runs the read-only diagnostic pass over the record store.
func Analyze(store domain.RecordStore) domain.AnalysisReport {
	report := domain.AnalysisReport{
		CriticalShortages: []domain.StockItem{},
		ExcessInventory:   []domain.StockItem{},
		WarehouseCoverage: []domain.WarehouseCoverage{},
	}

	absError := 0
	byWarehouse := map[string]*domain.WarehouseCoverage{}
	var order []string

	for _, rec := range store.SKUs {
		report.TotalForecastDemand += rec.ForecastDemand
		report.TotalActualDemand += rec.ActualDemand
		report.TotalStock += rec.CurrentStock
		absError += abs(rec.ForecastDemand - rec.ActualDemand)

		stock, actual := float64(rec.CurrentStock), float64(rec.ActualDemand)
		item := domain.StockItem{
			SKU:          rec.SKU,
			Warehouse:    rec.Warehouse,
			CurrentStock: rec.CurrentStock,
			ActualDemand: rec.ActualDemand,
		}
		if stock < criticalShortageRatio*actual {
			report.CriticalShortages = append(report.CriticalShortages, item)
		}
		if stock < highRiskRatio*actual {
			report.HighRiskProducts++
		}
		if stock > excessInventoryRatio*actual {
			report.ExcessInventory = append(report.ExcessInventory, item)
		}

		wc, ok := byWarehouse[rec.Warehouse]
		if !ok {
			wc = &domain.WarehouseCoverage{Warehouse: rec.Warehouse}
			byWarehouse[rec.Warehouse] = wc
			order = append(order, rec.Warehouse)
		}
		wc.TotalStock += rec.CurrentStock
		wc.TotalDemand += rec.ActualDemand
	}

	report.ForecastAccuracy = 100
	if report.TotalForecastDemand != 0 {
		report.ForecastAccuracy = roundFloat(
			100*(1-float64(absError)/float64(report.TotalForecastDemand)), 2)
	}

	for _, name := range order {
		wc := byWarehouse[name]
		if wc.TotalDemand != 0 {
			stock, demand := float64(wc.TotalStock), float64(wc.TotalDemand)
			wc.StockCoverage = roundFloat(stock/demand, 2)
			wc.ServiceLevel = roundFloat(min(100, min(stock, demand)/demand*100), 2)
		} else {
			wc.StockCoverage = 0
			wc.ServiceLevel = 100
		}
		report.WarehouseCoverage = append(report.WarehouseCoverage, *wc)
	}

	report.SupplierPerformance = AnalyzeSuppliers(store.Suppliers)
	report.UnreliableSuppliers = len(report.SupplierPerformance.UnreliableSuppliers)
	report.CapacityAnalysis = AnalyzeCapacity(store.Factories)
	report.RiskMitigationActions = riskMitigationActions(report.HighRiskProducts, report.UnreliableSuppliers)

	return report
}

// AnalyzeSuppliers scores and ranks the supplier collection.
func AnalyzeSuppliers(suppliers []domain.Supplier) domain.SupplierPerformance {
	perf := domain.SupplierPerformance{
		Rankings:              make([]domain.SupplierScore, 0, len(suppliers)),
		UnreliableSuppliers:   []string{},
		HighLeadTimeSuppliers: []string{},
		Recommendations:       []string{},
	}
	if len(suppliers) == 0 {
		return perf
	}

	var reliability float64
	leadTime, bigMOQ := 0, false
	for _, s := range suppliers {
		perf.Rankings = append(perf.Rankings, domain.SupplierScore{
			SupplierID:       s.SupplierID,
			MaterialType:     s.MaterialType,
			ReliabilityScore: s.ReliabilityScore,
			QualityRating:    s.QualityRating,
			LeadTimeDays:     s.LeadTimeDays,
			UnitPrice:        s.UnitPrice,
			OverallScore:     roundFloat(supplierScore(s), 4),
		})
		if s.ReliabilityScore < unreliableThreshold {
			perf.UnreliableSuppliers = append(perf.UnreliableSuppliers, s.SupplierID)
		}
		if s.LeadTimeDays > highLeadTimeDays {
			perf.HighLeadTimeSuppliers = append(perf.HighLeadTimeSuppliers, s.SupplierID)
		}
		if s.MOQ > highMOQ {
			bigMOQ = true
		}
		reliability += s.ReliabilityScore
		leadTime += s.LeadTimeDays
	}

	slices.SortStableFunc(perf.Rankings, func(a, b domain.SupplierScore) int {
		return cmp.Compare(b.OverallScore, a.OverallScore)
	})

	n := float64(len(suppliers))
	perf.AverageReliability = roundFloat(reliability/n, 3)
	perf.AverageLeadTime = roundFloat(float64(leadTime)/n, 1)

	if len(perf.UnreliableSuppliers) > 0 {
		perf.Recommendations = append(perf.Recommendations, "Develop alternate suppliers for unreliable partners")
	}
	if bigMOQ {
		perf.Recommendations = append(perf.Recommendations, "Negotiate lower MOQ with high-volume suppliers")
	}
	perf.Recommendations = append(perf.Recommendations,
		"Implement supplier scorecards for continuous monitoring",
		"Consider long-term contracts with top-performing suppliers",
	)
	return perf
}

// supplierScore weighs reliability, quality, lead time and price.
// Reciprocal terms contribute 0 when their denominator is 0.
func supplierScore(s domain.Supplier) float64 {
	score := s.ReliabilityScore*0.4 + s.QualityRating/10*0.3
	if s.LeadTimeDays > 0 {
		score += 0.2 / float64(s.LeadTimeDays)
	}
	if s.UnitPrice > 0 {
		score += 0.1 / s.UnitPrice
	}
	return score
}

// AnalyzeCapacity summarizes factory capacity and flags weak sites.
func AnalyzeCapacity(factories []domain.FactoryCapacity) domain.CapacityAnalysis {
	out := domain.CapacityAnalysis{Recommendations: []string{}}

	var efficiency float64
	for _, f := range factories {
		out.TotalWeeklyCapacity += f.WeeklyCapacity
		efficiency += f.EfficiencyRate

		if f.EfficiencyRate < lowEfficiencyThreshold {
			out.Recommendations = append(out.Recommendations,
				fmt.Sprintf("Improve efficiency at %s factory", f.FactoryLocation))
		}
		if f.WeeklyCapacity < smallFactoryCapacity {
			out.Recommendations = append(out.Recommendations,
				fmt.Sprintf("Consider capacity expansion at %s", f.FactoryLocation))
		}
	}
	if len(factories) > 0 {
		out.AverageEfficiency = roundFloat(efficiency/float64(len(factories)), 2)
	}
	return out
}

func riskMitigationActions(highRisk, unreliable int) []string {
	actions := []string{}
	if highRisk > 0 {
		actions = append(actions, "Implement emergency replenishment for high-risk SKUs")
	}
	if unreliable > 0 {
		actions = append(actions, "Diversify supplier base for critical materials")
	}
	return append(actions,
		"Establish safety stock buffers",
		"Implement demand sensing technology",
	)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
