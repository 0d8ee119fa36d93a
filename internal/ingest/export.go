package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// InventoryExportHeader is the column order of the optimization CSV export.
var InventoryExportHeader = []string{
	"SKU", "Warehouse", "Current Stock", "Optimal Inventory",
	"Safety Stock", "Reorder Point", "Recommendation",
}

// WriteInventoryCSV writes one row per SKU decision.
func WriteInventoryCSV(w io.Writer, result domain.OptimizationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InventoryExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, d := range result.InventoryOptimization {
		row := []string{
			d.SKU,
			d.Warehouse,
			strconv.Itoa(d.CurrentStock),
			strconv.Itoa(d.OptimalInventory),
			strconv.Itoa(d.SafetyStock),
			strconv.Itoa(d.ReorderPoint),
			string(d.Recommendation),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", d.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const (
	sheetInventory   = "Inventory"
	sheetProduction  = "Production"
	sheetProcurement = "Procurement"
	sheetSummary     = "Summary"
)

// WriteWorkbook renders the full optimization result as an XLSX workbook.
func WriteWorkbook(w io.Writer, result domain.OptimizationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	inventory := [][]any{toAny(InventoryExportHeader)}
	for _, d := range result.InventoryOptimization {
		inventory = append(inventory, []any{
			d.SKU, d.Warehouse, d.CurrentStock, d.OptimalInventory,
			d.SafetyStock, d.ReorderPoint, string(d.Recommendation),
		})
	}

	production := [][]any{{"Factory", "Weekly Capacity", "Allocated Production", "Utilization Rate", "Cost Per Unit", "Efficiency Rate"}}
	for _, a := range result.ProductionAllocation {
		production = append(production, []any{
			a.FactoryLocation, a.WeeklyCapacity, a.AllocatedProduction,
			a.UtilizationRate, a.ProductionCostPerUnit, a.EfficiencyRate,
		})
	}

	procurement := [][]any{{"Supplier", "Material", "Order Quantity", "Unit Price", "Order Cost", "Reliability", "Risk"}}
	for _, p := range result.ProcurementPlan {
		procurement = append(procurement, []any{
			p.SupplierID, p.MaterialType, p.OrderQuantity, p.UnitPrice,
			p.OrderCost, p.ReliabilityScore, string(p.Risk),
		})
	}

	c, m := result.CostAnalysis, result.PerformanceMetrics
	summary := [][]any{
		{"Metric", "Value"},
		{"Production Cost", c.ProductionCost},
		{"Inventory Cost", c.InventoryCost},
		{"Procurement Cost", c.ProcurementCost},
		{"Total Cost", c.TotalCost},
		{"Service Level", m.ServiceLevel},
		{"Inventory Turnover", m.InventoryTurnover},
		{"Capacity Utilization", m.CapacityUtilization},
		{"Cost Efficiency", m.CostEfficiency},
		{"Production Requirement", result.ProductionRequirement},
		{"Total Capacity", result.TotalCapacity},
		{"Festival Plan Applied", result.UsedFestivalPlan},
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{sheetInventory, inventory},
		{sheetProduction, production},
		{sheetProcurement, procurement},
		{sheetSummary, summary},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", s.name, r+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
