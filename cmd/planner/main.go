package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/pkg/logger"
)

func datasetFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "dataset",
		Aliases:  []string{"d"},
		Usage:    "Dataset directory holding skus, factories and suppliers files",
		Required: true,
	}
}

func multiplierFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "multiplier",
		Usage: "Festival surge multiplier (1 to 3); invalid values use the configured default",
	}
}

func festivalFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "festival",
		Usage: "Generate a festival plan and feed it into the optimization",
		Value: true,
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "planner",
		Usage: "Plan inventory, production and procurement for supply chain datasets",
		Before: func(c *cli.Context) error {
			cfg := config.Load()
			logger.Configure(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Print the diagnostic report for a dataset",
				Flags:  []cli.Flag{datasetFlag()},
				Action: runAnalyze,
			},
			{
				Name:   "festival",
				Usage:  "Print the festival demand plan for a dataset",
				Flags:  []cli.Flag{datasetFlag(), multiplierFlag()},
				Action: runFestival,
			},
			{
				Name:  "optimize",
				Usage: "Optimize a dataset and write its exports",
				Flags: []cli.Flag{
					datasetFlag(),
					festivalFlag(),
					multiplierFlag(),
					&cli.StringFlag{
						Name:  "output",
						Usage: "Directory for the exports; prints JSON to stdout when empty",
					},
				},
				Action: runOptimize,
			},
			{
				Name:  "batch",
				Usage: "Optimize every dataset directory under the input directory in parallel",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Usage:   "Root directory of datasets",
						EnvVars: []string{"PIPELINE_INPUT_DIR"},
					},
					&cli.StringFlag{
						Name:    "output",
						Usage:   "Directory for exports and the batch summary",
						EnvVars: []string{"PIPELINE_OUTPUT_DIR"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Number of datasets planned concurrently",
						EnvVars: []string{"PIPELINE_WORKERS"},
					},
					festivalFlag(),
					multiplierFlag(),
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Upload exports to the configured bucket",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Drop cached planning results before the run",
					},
				},
				Action: runBatch,
			},
			{
				Name:  "fetch",
				Usage: "Download datasets from object storage or Google Drive",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Dataset source: minio or drive",
						Value: "minio",
					},
					&cli.StringFlag{
						Name:    "dest",
						Usage:   "Local directory for downloaded datasets",
						EnvVars: []string{"PIPELINE_INPUT_DIR"},
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix (minio)",
					},
					&cli.StringFlag{
						Name:  "object",
						Usage: "Download a single object key instead of the whole prefix (minio)",
					},
					&cli.StringFlag{
						Name:  "folder-path",
						Usage: "Slash separated Drive folder path (drive)",
					},
					&cli.StringFlag{
						Name:  "folder-id",
						Usage: "Drive folder id; takes precedence over folder-path (drive)",
					},
				},
				Action: runFetch,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("planner failed")
	}
}
