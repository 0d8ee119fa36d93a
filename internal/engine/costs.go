package engine

import (
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// procurementRiskThreshold is the reliability below which a supplier is flagged HIGH risk.
const procurementRiskThreshold = 0.8

// costTotals keeps the cost sums at full precision until reporting.
type costTotals struct {
	production  decimal.Decimal
	inventory   decimal.Decimal
	procurement decimal.Decimal
}

func (c costTotals) total() decimal.Decimal {
	return c.production.Add(c.inventory).Add(c.procurement)
}

func (c costTotals) report() domain.CostAnalysis {
	return domain.CostAnalysis{
		ProductionCost:  c.production.Round(2).InexactFloat64(),
		InventoryCost:   c.inventory.Round(2).InexactFloat64(),
		ProcurementCost: c.procurement.Round(2).InexactFloat64(),
		TotalCost:       c.total().Round(2).InexactFloat64(),
	}
}

// BuildProcurementPlan places one MOQ order with every supplier.
func BuildProcurementPlan(suppliers []domain.Supplier) []domain.ProcurementLine {
	lines := make([]domain.ProcurementLine, 0, len(suppliers))
	for _, s := range suppliers {
		risk := domain.SupplierRiskLow
		if s.ReliabilityScore < procurementRiskThreshold {
			risk = domain.SupplierRiskHigh
		}
		qty := max(s.MOQ, 0)
		cost := decimal.NewFromInt(int64(qty)).Mul(decimal.NewFromFloat(s.UnitPrice))
		lines = append(lines, domain.ProcurementLine{
			SupplierID:       s.SupplierID,
			MaterialType:     s.MaterialType,
			OrderQuantity:    qty,
			UnitPrice:        s.UnitPrice,
			OrderCost:        cost.Round(2).InexactFloat64(),
			ReliabilityScore: s.ReliabilityScore,
			Risk:             risk,
		})
	}
	return lines
}

func sumCosts(alloc Allocation, skus []domain.SKURecord, suppliers []domain.Supplier) costTotals {
	var c costTotals

	for _, f := range alloc.Factories {
		c.production = c.production.Add(
			decimal.NewFromInt(int64(f.AllocatedProduction)).Mul(decimal.NewFromFloat(f.ProductionCostPerUnit)),
		)
	}

	// holding cost of what is on hand today, not of the optimal level
	for _, s := range skus {
		c.inventory = c.inventory.Add(
			decimal.NewFromInt(int64(s.CurrentStock)).
				Mul(decimal.NewFromFloat(s.UnitCost)).
				Mul(decimal.NewFromFloat(s.HoldingCostRate)),
		)
	}

	for _, s := range suppliers {
		c.procurement = c.procurement.Add(
			decimal.NewFromInt(int64(max(s.MOQ, 0))).Mul(decimal.NewFromFloat(s.UnitPrice)),
		)
	}

	return c
}

func computeMetrics(decisions []domain.InventoryDecision, alloc Allocation, totalCost decimal.Decimal, costReference float64) domain.PerformanceMetrics {
	demand, stock, served := 0, 0, 0
	for _, d := range decisions {
		demand += d.EffectiveDemand
		stock += max(d.CurrentStock, 0)
		served += max(min(d.CurrentStock, d.EffectiveDemand), 0)
	}

	turnover := 0.0
	if stock > 0 {
		turnover = float64(demand) / float64(stock)
	}

	efficiency := 0.0
	if !totalCost.IsZero() {
		efficiency = float64(demand) * costReference / totalCost.InexactFloat64() * 100
	}

	return domain.PerformanceMetrics{
		ServiceLevel:        roundFloat(percentOf(float64(served), float64(demand), 100), 2),
		InventoryTurnover:   roundFloat(turnover, 2),
		CapacityUtilization: roundFloat(percentOf(float64(alloc.Allocated), float64(alloc.TotalCapacity), 0), 2),
		CostEfficiency:      roundFloat(efficiency, 2),
	}
}
