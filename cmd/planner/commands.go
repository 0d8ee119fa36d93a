package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyplan/internal/api"
	"github.com/andresuchdata/supplyplan/internal/bootstrap"
	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/ingest"
	"github.com/andresuchdata/supplyplan/internal/pipeline"
	"github.com/andresuchdata/supplyplan/internal/service"
	"github.com/andresuchdata/supplyplan/internal/storage"
)

func newApp(c *cli.Context) (*bootstrap.App, error) {
	return bootstrap.New(c.Context, config.Load())
}

func multiplier(c *cli.Context) any {
	if !c.IsSet("multiplier") {
		return nil
	}
	return c.String("multiplier")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runAnalyze(c *cli.Context) error {
	app, err := newApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	store, err := ingest.LoadDataset(c.String("dataset"))
	if err != nil {
		return err
	}

	report, err := app.Planner.Analyze(c.Context, store)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, report)
}

func runFestival(c *cli.Context) error {
	app, err := newApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	store, err := ingest.LoadDataset(c.String("dataset"))
	if err != nil {
		return err
	}

	plan, err := app.Planner.PlanFestival(c.Context, store, multiplier(c))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, plan)
}

func runOptimize(c *cli.Context) error {
	app, err := newApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	dir := c.String("dataset")
	store, err := ingest.LoadDataset(dir)
	if err != nil {
		return err
	}

	resp, err := app.Planner.Optimize(c.Context, service.OptimizeRequest{
		DatasetName:  filepath.Base(filepath.Clean(dir)),
		Store:        store,
		FestivalMode: c.Bool("festival"),
		Multiplier:   multiplier(c),
	})
	if err != nil {
		return err
	}

	out := c.String("output")
	if out == "" {
		return printJSON(c.App.Writer, resp)
	}

	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	csvPath := filepath.Join(out, "inventory_optimization.csv")
	if err := writeExport(csvPath, func(w io.Writer) error { return ingest.WriteInventoryCSV(w, *resp.Result) }); err != nil {
		return err
	}
	xlsxPath := filepath.Join(out, "inventory_optimization.xlsx")
	if err := writeExport(xlsxPath, func(w io.Writer) error { return ingest.WriteWorkbook(w, *resp.Result) }); err != nil {
		return err
	}

	log.Info().Str("run_id", resp.RunID).Str("csv", csvPath).Str("xlsx", xlsxPath).Msg("exports written")
	return nil
}

func writeExport(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func runBatch(c *cli.Context) error {
	app, err := newApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.Config
	input := firstNonEmpty(c.String("input"), cfg.Pipeline.InputDir)
	pcfg := pipeline.DefaultConfig()
	pcfg.OutputDir = firstNonEmpty(c.String("output"), cfg.Pipeline.OutputDir, pcfg.OutputDir)
	pcfg.Workers = cfg.Pipeline.Workers
	if c.IsSet("workers") {
		pcfg.Workers = c.Int("workers")
	}
	pcfg.FestivalMode = c.Bool("festival")
	pcfg.Multiplier = multiplier(c)
	pcfg.ExportPrefix = cfg.Storage.ExportPrefix

	var objects storage.ObjectStorage
	if c.Bool("upload") {
		objects, err = app.ObjectStorage()
		if err != nil {
			return err
		}
		if objects == nil {
			return fmt.Errorf("upload requested but no storage bucket is configured")
		}
	}

	if c.Bool("refresh") {
		if err := app.Planner.InvalidateCache(c.Context); err != nil {
			return err
		}
	}

	jobs, err := pipeline.DiscoverJobs(input)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		log.Warn().Str("input", input).Msg("no datasets found")
		return nil
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, _, err := pipeline.NewOrchestrator(app.Planner, pcfg, objects).Run(ctx, jobs)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "datasets: %d completed, %d failed; summary: %s\n",
		summary.Completed, summary.Failed, summary.SummaryPath)
	if summary.Failed > 0 {
		return cli.Exit("some datasets failed", 1)
	}
	return nil
}

func runServe(c *cli.Context) error {
	app, err := newApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	return serve(c.Context, app)
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(parent context.Context, app *bootstrap.App) error {
	cfg := app.Config
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(&api.Services{Planner: app.Planner}, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadMB:    cfg.Server.MaxUploadMB,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return api.Serve(ctx, cfg.Server, router)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
