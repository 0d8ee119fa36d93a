// internal/domain/models.go
package domain

import "time"

// SKURecord represents one stock-keeping unit held at a warehouse
type SKURecord struct {
	SKU                 string  `json:"sku"`
	Warehouse           string  `json:"warehouse"`
	ProductCategory     string  `json:"product_category"`
	CurrentStock        int     `json:"current_stock"`
	ForecastDemand      int     `json:"forecast_demand"`
	ActualDemand        int     `json:"actual_demand"`
	ProductionCapacity  int     `json:"production_capacity"`
	UnitCost            float64 `json:"unit_cost"`
	HoldingCostRate     float64 `json:"holding_cost_rate"`
	StockoutPenalty     float64 `json:"stockout_penalty"`
	LeadTimeDays        int     `json:"lead_time_days"`
	ShelfLifeDays       int     `json:"shelf_life_days"`
	IsFestivalSensitive bool    `json:"is_festival_sensitive"`
}

// FactoryCapacity represents the weekly production capacity of a factory
type FactoryCapacity struct {
	FactoryLocation       string  `json:"factory_location"`
	WeeklyCapacity        int     `json:"weekly_capacity"`
	EfficiencyRate        float64 `json:"efficiency_rate"`
	ProductionCostPerUnit float64 `json:"production_cost_per_unit"`
}

// Supplier represents a raw material supplier
type Supplier struct {
	SupplierID       string  `json:"supplier_id"`
	MaterialType     string  `json:"material_type"`
	ReliabilityScore float64 `json:"reliability_score"`
	LeadTimeDays     int     `json:"lead_time_days"`
	MOQ              int     `json:"moq"`
	UnitPrice        float64 `json:"unit_price"`
	QualityRating    float64 `json:"quality_rating"`
}

// Recommendation is the stocking action suggested for a SKU
type Recommendation string

const (
	RecommendIncrease Recommendation = "INCREASE"
	RecommendOptimize Recommendation = "OPTIMIZE"
)

// SupplierRisk classifies a supplier in the procurement plan
type SupplierRisk string

const (
	SupplierRiskHigh SupplierRisk = "HIGH"
	SupplierRiskLow  SupplierRisk = "LOW"
)

// FestivalEntry is the surge-adjusted demand for one SKU
type FestivalEntry struct {
	SKU                 string  `json:"sku"`
	Warehouse           string  `json:"warehouse"`
	CurrentStock        int     `json:"currentStock"`
	BaseDemand          int     `json:"baseDemand"`
	FestivalDemand      int     `json:"festivalDemand"`
	SurgeFactor         float64 `json:"surgeFactor"`
	BuildupNeeded       int     `json:"buildupNeeded"`
	IsFestivalSensitive bool    `json:"isFestivalSensitive"`
}

// FactoryFestivalCapacity is the capacity stress signal for one factory.
// It is informational and never consumed by the production allocator.
type FactoryFestivalCapacity struct {
	FactoryLocation        string `json:"factoryLocation"`
	WeeklyCapacity         int    `json:"weeklyCapacity"`
	FestivalCapacityNeeded int    `json:"festivalCapacityNeeded"`
	AdditionalShifts       int    `json:"additionalShifts"`
}

// SubcontractingAssessment reports whether festival demand exceeds in-house capacity
type SubcontractingAssessment struct {
	IsRequired          bool     `json:"isRequired"`
	ShortfallVolume     int      `json:"shortfallVolume"`
	TotalCapacity       int      `json:"totalCapacity"`
	CapacityUtilization float64  `json:"capacityUtilization"`
	RecommendedActions  []string `json:"recommendedActions"`
}

// FestivalPlan is a wholesale-regenerated festival demand forecast keyed by SKU
type FestivalPlan struct {
	Multiplier          float64                   `json:"multiplier"`
	TargetDates         []time.Time               `json:"targetDates"`
	Entries             []FestivalEntry           `json:"entries"`
	Factories           []FactoryFestivalCapacity `json:"factories"`
	TotalBaseDemand     int                       `json:"totalBaseDemand"`
	TotalFestivalDemand int                       `json:"totalFestivalDemand"`
	TotalBuildupNeeded  int                       `json:"totalBuildupNeeded"`
	Subcontracting      SubcontractingAssessment  `json:"subcontracting"`
	GeneratedAt         time.Time                 `json:"generatedAt"`
}

// InventoryDecision is the inventory policy computed for one SKU
type InventoryDecision struct {
	SKU              string         `json:"sku"`
	Warehouse        string         `json:"warehouse"`
	CurrentStock     int            `json:"currentStock"`
	EffectiveDemand  int            `json:"effectiveDemand"`
	OptimalInventory int            `json:"optimalInventory"`
	SafetyStock      int            `json:"safetyStock"`
	ReorderPoint     int            `json:"reorderPoint"`
	Recommendation   Recommendation `json:"recommendation"`
}

// FactoryAllocation is the production assigned to one factory
type FactoryAllocation struct {
	FactoryLocation       string  `json:"factoryLocation"`
	WeeklyCapacity        int     `json:"weeklyCapacity"`
	AllocatedProduction   int     `json:"allocatedProduction"`
	UtilizationRate       float64 `json:"utilizationRate"`
	ProductionCostPerUnit float64 `json:"productionCostPerUnit"`
	EfficiencyRate        float64 `json:"efficiencyRate"`
}

// ProcurementLine is one minimum-quantity order placed with a supplier
type ProcurementLine struct {
	SupplierID       string       `json:"supplierId"`
	MaterialType     string       `json:"materialType"`
	OrderQuantity    int          `json:"orderQuantity"`
	UnitPrice        float64      `json:"unitPrice"`
	OrderCost        float64      `json:"orderCost"`
	ReliabilityScore float64      `json:"reliabilityScore"`
	Risk             SupplierRisk `json:"risk"`
}

// CostAnalysis holds the cost totals of an optimization run
type CostAnalysis struct {
	ProductionCost  float64 `json:"productionCost"`
	InventoryCost   float64 `json:"inventoryCost"`
	ProcurementCost float64 `json:"procurementCost"`
	TotalCost       float64 `json:"totalCost"`
}

// PerformanceMetrics holds the four headline KPIs of an optimization run
type PerformanceMetrics struct {
	ServiceLevel        float64 `json:"serviceLevel"`
	InventoryTurnover   float64 `json:"inventoryTurnover"`
	CapacityUtilization float64 `json:"capacityUtilization"`
	CostEfficiency      float64 `json:"costEfficiency"`
}

// OptimizationResult is the immutable output of one optimization run
type OptimizationResult struct {
	ProductionAllocation  []FactoryAllocation `json:"productionAllocation"`
	InventoryOptimization []InventoryDecision `json:"inventoryOptimization"`
	ProcurementPlan       []ProcurementLine   `json:"procurementPlan"`
	CostAnalysis          CostAnalysis        `json:"costAnalysis"`
	PerformanceMetrics    PerformanceMetrics  `json:"performanceMetrics"`
	ProductionRequirement int                 `json:"productionRequirement"`
	TotalCapacity         int                 `json:"totalCapacity"`
	UsedFestivalPlan      bool                `json:"usedFestivalPlan"`
}

// StockItem is a SKU listed in a diagnostic section of the analysis report
type StockItem struct {
	SKU          string `json:"sku"`
	Warehouse    string `json:"warehouse"`
	CurrentStock int    `json:"currentStock"`
	ActualDemand int    `json:"actualDemand"`
}

// WarehouseCoverage holds per-warehouse stock coverage
type WarehouseCoverage struct {
	Warehouse     string  `json:"warehouse"`
	TotalStock    int     `json:"totalStock"`
	TotalDemand   int     `json:"totalDemand"`
	StockCoverage float64 `json:"stockCoverage"`
	ServiceLevel  float64 `json:"serviceLevel"`
}

// SupplierScore ranks a supplier by a weighted score
type SupplierScore struct {
	SupplierID       string  `json:"supplierId"`
	MaterialType     string  `json:"materialType"`
	ReliabilityScore float64 `json:"reliabilityScore"`
	QualityRating    float64 `json:"qualityRating"`
	LeadTimeDays     int     `json:"leadTimeDays"`
	UnitPrice        float64 `json:"unitPrice"`
	OverallScore     float64 `json:"overallScore"`
}

// SupplierPerformance summarizes the supplier collection
type SupplierPerformance struct {
	Rankings              []SupplierScore `json:"rankings"`
	UnreliableSuppliers   []string        `json:"unreliableSuppliers"`
	HighLeadTimeSuppliers []string        `json:"highLeadTimeSuppliers"`
	AverageReliability    float64         `json:"averageReliability"`
	AverageLeadTime       float64         `json:"averageLeadTime"`
	Recommendations       []string        `json:"recommendations"`
}

// CapacityAnalysis summarizes the factory collection
type CapacityAnalysis struct {
	TotalWeeklyCapacity int      `json:"totalWeeklyCapacity"`
	AverageEfficiency   float64  `json:"averageEfficiency"`
	Recommendations     []string `json:"recommendations"`
}

// AnalysisReport is the read-only diagnostic pass run before optimization
type AnalysisReport struct {
	TotalForecastDemand   int                 `json:"totalForecastDemand"`
	TotalActualDemand     int                 `json:"totalActualDemand"`
	TotalStock            int                 `json:"totalStock"`
	ForecastAccuracy      float64             `json:"forecastAccuracy"`
	CriticalShortages     []StockItem         `json:"criticalShortages"`
	HighRiskProducts      int                 `json:"highRiskProducts"`
	ExcessInventory       []StockItem         `json:"excessInventory"`
	WarehouseCoverage     []WarehouseCoverage `json:"warehouseCoverage"`
	UnreliableSuppliers   int                 `json:"unreliableSuppliers"`
	SupplierPerformance   SupplierPerformance `json:"supplierPerformance"`
	CapacityAnalysis      CapacityAnalysis    `json:"capacityAnalysis"`
	RiskMitigationActions []string            `json:"riskMitigationActions"`
}

// PlanningRun is the archived summary of one optimization run
type PlanningRun struct {
	ID                  string    `json:"id" db:"id"`
	DatasetName         string    `json:"dataset_name" db:"dataset_name"`
	SKUCount            int       `json:"sku_count" db:"sku_count"`
	FactoryCount        int       `json:"factory_count" db:"factory_count"`
	SupplierCount       int       `json:"supplier_count" db:"supplier_count"`
	UsedFestivalPlan    bool      `json:"used_festival_plan" db:"used_festival_plan"`
	TotalCost           float64   `json:"total_cost" db:"total_cost"`
	ServiceLevel        float64   `json:"service_level" db:"service_level"`
	InventoryTurnover   float64   `json:"inventory_turnover" db:"inventory_turnover"`
	CapacityUtilization float64   `json:"capacity_utilization" db:"capacity_utilization"`
	CostEfficiency      float64   `json:"cost_efficiency" db:"cost_efficiency"`
	ForecastAccuracy    float64   `json:"forecast_accuracy" db:"forecast_accuracy"`
	CriticalShortages   []string  `json:"critical_shortages" db:"-"`
	StartedAt           time.Time `json:"started_at" db:"started_at"`
	CompletedAt         time.Time `json:"completed_at" db:"completed_at"`
}
