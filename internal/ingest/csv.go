// Package ingest turns uploaded spreadsheets into record store collections and
// renders optimization results back into CSV and XLSX.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// Fallbacks applied when a numeric SKU field is missing or unparsable.
const (
	DefaultUnitCost        = 10.0
	DefaultHoldingCostRate = 0.25
	DefaultStockoutPenalty = 50.0
	DefaultLeadTimeDays    = 7
	DefaultShelfLifeDays   = 90
	DefaultWarehouse       = "Delhi"
	DefaultCategory        = "Snacks"

	DefaultSupplierReliability = 0.8
)

var (
	// ErrEmptySheet is returned when a file carries no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
	// ErrUnknownKind is returned for a record kind other than skus, factories or suppliers.
	ErrUnknownKind = errors.New("unknown record kind")
)

// Kind identifies which collection a sheet holds.
type Kind string

const (
	KindSKUs      Kind = "skus"
	KindFactories Kind = "factories"
	KindSuppliers Kind = "suppliers"
)

// ParseKind validates a user supplied kind.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindSKUs, KindFactories, KindSuppliers:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// ReadCSV reads every row of a delimited text stream.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

// dataRows drops the header and any row shorter than it.
func dataRows(rows [][]string) ([][]string, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	width := len(rows[0])
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < width || blankRow(row) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// SKURows converts rows (header first) into SKU records. Field order:
// sku, warehouse, product_category, current_stock, forecast_demand,
// actual_demand, production_capacity, unit_cost, holding_cost_rate,
// stockout_penalty, lead_time_days, shelf_life_days, is_festival_sensitive.
// Rows without an id get the first free SKU-NNN id at or after their position.
func SKURows(rows [][]string) ([]domain.SKURecord, error) {
	data, err := dataRows(rows)
	if err != nil {
		return nil, err
	}

	store := domain.RecordStore{SKUs: make([]domain.SKURecord, 0, len(data))}
	for _, row := range data {
		c := columns(row)
		store.SKUs = append(store.SKUs, domain.SKURecord{
			SKU:                 c.text(0, ""),
			Warehouse:           c.text(1, DefaultWarehouse),
			ProductCategory:     c.text(2, DefaultCategory),
			CurrentStock:        c.count(3, 0),
			ForecastDemand:      c.count(4, 0),
			ActualDemand:        c.count(5, 0),
			ProductionCapacity:  c.count(6, 0),
			UnitCost:            c.amount(7, DefaultUnitCost),
			HoldingCostRate:     c.amount(8, DefaultHoldingCostRate),
			StockoutPenalty:     c.amount(9, DefaultStockoutPenalty),
			LeadTimeDays:        c.count(10, DefaultLeadTimeDays),
			ShelfLifeDays:       c.count(11, DefaultShelfLifeDays),
			IsFestivalSensitive: c.flag(12),
		})
	}

	if err := store.Normalize(); err != nil {
		return nil, err
	}
	return store.SKUs, nil
}

// FactoryRows converts rows (header first) into factory capacity records.
// Field order: factory_location, weekly_capacity, efficiency_rate, production_cost_per_unit.
func FactoryRows(rows [][]string) ([]domain.FactoryCapacity, error) {
	data, err := dataRows(rows)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FactoryCapacity, 0, len(data))
	for i, row := range data {
		c := columns(row)
		out = append(out, domain.FactoryCapacity{
			FactoryLocation:       c.text(0, fmt.Sprintf("Factory-%d", i+1)),
			WeeklyCapacity:        c.count(1, 0),
			EfficiencyRate:        clamp(c.amount(2, 0), 0, 1),
			ProductionCostPerUnit: c.amount(3, 0),
		})
	}
	return out, nil
}

// SupplierRows converts rows (header first) into supplier records. Field order:
// supplier_id, material_type, reliability_score, lead_time_days, moq, unit_price, quality_rating.
func SupplierRows(rows [][]string) ([]domain.Supplier, error) {
	data, err := dataRows(rows)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Supplier, 0, len(data))
	for i, row := range data {
		c := columns(row)
		out = append(out, domain.Supplier{
			SupplierID:       c.text(0, fmt.Sprintf("SUP-%03d", i+1)),
			MaterialType:     c.text(1, ""),
			ReliabilityScore: clamp(c.amount(2, DefaultSupplierReliability), 0, 1),
			LeadTimeDays:     c.count(3, DefaultLeadTimeDays),
			MOQ:              c.count(4, 0),
			UnitPrice:        c.amount(5, 0),
			QualityRating:    clamp(c.amount(6, 0), 0, 10),
		})
	}
	return out, nil
}

// ParseSKUs reads SKU records from CSV.
func ParseSKUs(r io.Reader) ([]domain.SKURecord, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return SKURows(rows)
}

// ParseFactories reads factory capacity records from CSV.
func ParseFactories(r io.Reader) ([]domain.FactoryCapacity, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return FactoryRows(rows)
}

// ParseSuppliers reads supplier records from CSV.
func ParseSuppliers(r io.Reader) ([]domain.Supplier, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return SupplierRows(rows)
}

// Rows converts rows of the given kind into a store holding only that collection.
func Rows(kind Kind, rows [][]string) (domain.RecordStore, error) {
	var (
		store domain.RecordStore
		err   error
	)
	switch kind {
	case KindSKUs:
		store.SKUs, err = SKURows(rows)
	case KindFactories:
		store.Factories, err = FactoryRows(rows)
	case KindSuppliers:
		store.Suppliers, err = SupplierRows(rows)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return store, err
}

type columns []string

func (c columns) raw(i int) string {
	if i >= len(c) {
		return ""
	}
	return strings.TrimSpace(c[i])
}

func (c columns) text(i int, fallback string) string {
	if v := c.raw(i); v != "" {
		return v
	}
	return fallback
}

// count parses a non-negative integer. Spreadsheet reals such as "12.7" are
// rounded half away from zero.
func (c columns) count(i int, fallback int) int {
	v := strings.ReplaceAll(c.raw(i), ",", "")
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return fallback
		}
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fallback
	}
	return int(math.Round(f))
}

// amount parses a non-negative real.
func (c columns) amount(i int, fallback float64) float64 {
	v := strings.ReplaceAll(c.raw(i), ",", "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fallback
	}
	return f
}

func (c columns) flag(i int) bool {
	return strings.EqualFold(c.raw(i), "true")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
