package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/supplyplan/internal/api/handlers"
	"github.com/andresuchdata/supplyplan/internal/api/middleware"
	"github.com/andresuchdata/supplyplan/internal/service"
)

type Services struct {
	Planner *service.PlannerService
}

type Options struct {
	AllowedOrigins []string
	MaxUploadMB    int
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Run-ID", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", health)

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", health)

	datasetHandler := handlers.NewDatasetHandler(opts.MaxUploadMB)
	apiGroup.POST("/datasets/parse", datasetHandler.ParseUpload)
	apiGroup.POST("/datasets/edit", datasetHandler.EditStore)

	if services != nil && services.Planner != nil {
		plannerHandler := handlers.NewPlannerHandler(services.Planner)
		apiGroup.POST("/analyze", plannerHandler.Analyze)
		apiGroup.POST("/festival-plan", plannerHandler.PlanFestival)
		apiGroup.POST("/optimize", plannerHandler.Optimize)
		apiGroup.POST("/optimize/export", plannerHandler.ExportOptimization)
		apiGroup.GET("/runs", plannerHandler.ListRuns)
	}

	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
