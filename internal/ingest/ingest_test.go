package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

const skuHeader = "sku,warehouse,product_category,current_stock,forecast_demand,actual_demand,production_capacity,unit_cost,holding_cost_rate,stockout_penalty,lead_time_days,shelf_life_days,is_festival_sensitive\n"

func TestParseSKUs(t *testing.T) {
	input := skuHeader +
		"SKU-100,Mumbai,Beverages,10,40,60,100,12.5,0.2,40,5,120, TRUE \n" +
		",,,abc,12.0,-3,,,oops,,,,no\n" +
		"SKU-short,Delhi,Snacks\n"

	got, err := ParseSKUs(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.SKURecord{
		SKU:                 "SKU-100",
		Warehouse:           "Mumbai",
		ProductCategory:     "Beverages",
		CurrentStock:        10,
		ForecastDemand:      40,
		ActualDemand:        60,
		ProductionCapacity:  100,
		UnitCost:            12.5,
		HoldingCostRate:     0.2,
		StockoutPenalty:     40,
		LeadTimeDays:        5,
		ShelfLifeDays:       120,
		IsFestivalSensitive: true,
	}, got[0])

	assert.Equal(t, domain.SKURecord{
		SKU:             "SKU-002",
		Warehouse:       DefaultWarehouse,
		ProductCategory: DefaultCategory,
		ForecastDemand:  12,
		UnitCost:        DefaultUnitCost,
		HoldingCostRate: DefaultHoldingCostRate,
		StockoutPenalty: DefaultStockoutPenalty,
		LeadTimeDays:    DefaultLeadTimeDays,
		ShelfLifeDays:   DefaultShelfLifeDays,
	}, got[1])
}

func TestParseSKUsEmpty(t *testing.T) {
	_, err := ParseSKUs(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptySheet)

	got, err := ParseSKUs(strings.NewReader(skuHeader))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseSKUsAssignsUniqueIDs(t *testing.T) {
	tests := []struct {
		name    string
		rows    string
		want    []string
		wantErr error
	}{
		{
			name: "explicit id next to blank",
			rows: "SKU-002,Delhi,Snacks,0,40\n,Delhi,Snacks,0,100\n",
			want: []string{"SKU-002", "SKU-003"},
		},
		{
			name: "blank rows",
			rows: ",Delhi,Snacks,0,40\n,Delhi,Snacks,0,100\n",
			want: []string{"SKU-001", "SKU-002"},
		},
		{
			name:    "duplicate explicit ids",
			rows:    "SKU-001,Delhi,Snacks\nSKU-001,Pune,Snacks\n",
			wantErr: domain.ErrDuplicateSKU,
		},
	}

	header := "sku,warehouse,product_category\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSKUs(strings.NewReader(header + tt.rows))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, rec := range got {
				ids = append(ids, rec.SKU)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCountRoundsFractions(t *testing.T) {
	c := columns{"12.7", "12.2", "1,000.5", "-1.5", "x"}

	assert.Equal(t, 13, c.count(0, 0))
	assert.Equal(t, 12, c.count(1, 0))
	assert.Equal(t, 1001, c.count(2, 0))
	assert.Equal(t, 7, c.count(3, 7))
	assert.Equal(t, 7, c.count(4, 7))
}

func TestParseFactoriesAndSuppliers(t *testing.T) {
	factories, err := ParseFactories(strings.NewReader(
		"factory_location,weekly_capacity,efficiency_rate,production_cost_per_unit\n" +
			"Pune,100,0.9,2.5\n" +
			",x,1.7,\n"))
	require.NoError(t, err)
	assert.Equal(t, []domain.FactoryCapacity{
		{FactoryLocation: "Pune", WeeklyCapacity: 100, EfficiencyRate: 0.9, ProductionCostPerUnit: 2.5},
		{FactoryLocation: "Factory-2", EfficiencyRate: 1},
	}, factories)

	suppliers, err := ParseSuppliers(strings.NewReader(
		"supplier_id,material_type,reliability_score,lead_time_days,moq,unit_price,quality_rating\n" +
			"SUP-9,Flour,0.75,12,\"1,000\",1.5,11\n" +
			",Oil,,,,,\n"))
	require.NoError(t, err)
	assert.Equal(t, []domain.Supplier{
		{SupplierID: "SUP-9", MaterialType: "Flour", ReliabilityScore: 0.75, LeadTimeDays: 12, MOQ: 1000, UnitPrice: 1.5, QualityRating: 10},
		{SupplierID: "SUP-002", MaterialType: "Oil", ReliabilityScore: DefaultSupplierReliability, LeadTimeDays: DefaultLeadTimeDays},
	}, suppliers)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Suppliers ")
	require.NoError(t, err)
	assert.Equal(t, KindSuppliers, k)

	_, err = ParseKind("orders")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func writeWorkbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	data := writeWorkbook(t, map[string][][]any{
		"SKUs": {
			{"sku", "warehouse", "product_category", "current_stock", "forecast_demand", "actual_demand",
				"production_capacity", "unit_cost", "holding_cost_rate", "stockout_penalty",
				"lead_time_days", "shelf_life_days", "is_festival_sensitive"},
			{"SKU-001", "Delhi", "Snacks", 10, 40, 60, 0, 10, 0.25, 50, 7, 90},
		},
		"Factories": {
			{"factory_location", "weekly_capacity", "efficiency_rate", "production_cost_per_unit"},
			{"Pune", 100, 0.9, 2.5},
		},
		"Notes": {{"ignored"}},
	})

	store, err := ReadWorkbook(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, store.SKUs, 1)
	assert.Equal(t, 40, store.SKUs[0].ForecastDemand)
	assert.False(t, store.SKUs[0].IsFestivalSensitive)
	require.Len(t, store.Factories, 1)
	assert.Equal(t, 100, store.Factories[0].WeeklyCapacity)
	assert.Empty(t, store.Suppliers)
}

func TestParseUploadRejectsUnknownExtension(t *testing.T) {
	_, err := ParseUpload("data.json", strings.NewReader("{}"), KindSKUs)
	assert.Error(t, err)
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadDataset(dir)
	assert.ErrorIs(t, err, ErrNoDataset)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "skus.csv"),
		[]byte(skuHeader+"SKU-001,Delhi,Snacks,10,40,60,0,10,0.25,50,7,90,true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "suppliers.csv"),
		[]byte("supplier_id,material_type,reliability_score,lead_time_days,moq,unit_price,quality_rating\nSUP-001,Flour,0.9,5,100,1.5,8\n"), 0o644))

	store, err := LoadDataset(dir)
	require.NoError(t, err)
	assert.Len(t, store.SKUs, 1)
	assert.Empty(t, store.Factories)
	assert.Len(t, store.Suppliers, 1)
}

func sampleResult() domain.OptimizationResult {
	return domain.OptimizationResult{
		InventoryOptimization: []domain.InventoryDecision{{
			SKU: "SKU-001", Warehouse: "Delhi", CurrentStock: 10, EffectiveDemand: 58,
			OptimalInventory: 70, SafetyStock: 17, ReorderPoint: 46,
			Recommendation: domain.RecommendIncrease,
		}},
		ProductionAllocation: []domain.FactoryAllocation{{
			FactoryLocation: "Pune", WeeklyCapacity: 100, AllocatedProduction: 60, UtilizationRate: 60,
		}},
		CostAnalysis: domain.CostAnalysis{TotalCost: 325},
	}
}

func TestWriteInventoryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInventoryCSV(&buf, sampleResult()))

	assert.Equal(t,
		"SKU,Warehouse,Current Stock,Optimal Inventory,Safety Stock,Reorder Point,Recommendation\n"+
			"SKU-001,Delhi,10,70,17,46,INCREASE\n",
		buf.String())
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleResult()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventory", "Production", "Procurement", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, InventoryExportHeader, rows[0])
	assert.Equal(t, []string{"SKU-001", "Delhi", "10", "70", "17", "46", "INCREASE"}, rows[1])

	value, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "325", value)
}
