package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/ingest"
	"github.com/andresuchdata/supplyplan/internal/service"
)

// PlanRequest is the JSON body shared by the planning endpoints.
type PlanRequest struct {
	DatasetName  string               `json:"datasetName"`
	Store        domain.RecordStore   `json:"store"`
	FestivalPlan *domain.FestivalPlan `json:"festivalPlan,omitempty"`
	FestivalMode bool                 `json:"festivalMode"`
	Multiplier   any                  `json:"multiplier,omitempty"`
}

type PlannerHandler struct {
	service *service.PlannerService
}

func NewPlannerHandler(service *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{service: service}
}

func (h *PlannerHandler) bind(c *gin.Context) (PlanRequest, bool) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return req, false
	}
	return req, true
}

func (h *PlannerHandler) toOptimizeRequest(req PlanRequest) service.OptimizeRequest {
	return service.OptimizeRequest{
		DatasetName:  req.DatasetName,
		Store:        req.Store,
		Plan:         req.FestivalPlan,
		FestivalMode: req.FestivalMode,
		Multiplier:   req.Multiplier,
	}
}

// Analyze returns the diagnostic report for the posted records.
func (h *PlannerHandler) Analyze(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	report, err := h.service.Analyze(c.Request.Context(), req.Store)
	if err != nil {
		planningError(c, "failed to analyze records", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *PlannerHandler) PlanFestival(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	plan, err := h.service.PlanFestival(c.Request.Context(), req.Store, req.Multiplier)
	if err != nil {
		planningError(c, "failed to build festival plan", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlannerHandler) Optimize(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	resp, err := h.service.Optimize(c.Request.Context(), h.toOptimizeRequest(req))
	if err != nil {
		planningError(c, "failed to optimize", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportOptimization runs an optimization and streams it as CSV, or as an
// XLSX workbook when format=xlsx.
func (h *PlannerHandler) ExportOptimization(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported export format %q", format)})
		return
	}

	resp, err := h.service.Optimize(c.Request.Context(), h.toOptimizeRequest(req))
	if err != nil {
		planningError(c, "failed to optimize", err)
		return
	}

	filename := "inventory_optimization." + format
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Run-ID", resp.RunID)

	if format == "xlsx" {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = ingest.WriteWorkbook(c.Writer, *resp.Result)
	} else {
		c.Header("Content-Type", "text/csv")
		err = ingest.WriteInventoryCSV(c.Writer, *resp.Result)
	}
	if err != nil {
		log.Error().Err(err).Str("run_id", resp.RunID).Msg("failed to write export")
		c.Status(http.StatusInternalServerError)
	}
}

func (h *PlannerHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := h.service.ListRuns(c.Request.Context(), c.Query("dataset"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": runs,
		"total": len(runs),
	})
}

// planningError maps rejected input to 400 and everything else to 500.
func planningError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrDuplicateSKU) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": msg, "details": err.Error()})
}
