package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/drive"
	"github.com/andresuchdata/supplyplan/internal/storage"
)

func runFetch(c *cli.Context) error {
	cfg := config.Load()
	dest := firstNonEmpty(c.String("dest"), cfg.Pipeline.InputDir)

	var (
		paths []string
		err   error
	)
	switch source := strings.ToLower(c.String("source")); source {
	case "minio", "s3":
		paths, err = fetchFromBucket(c, cfg, dest)
	case "drive":
		paths, err = fetchFromDrive(c, cfg, dest)
	default:
		return fmt.Errorf("unknown source %q (want minio or drive)", source)
	}
	if err != nil {
		return err
	}

	for _, p := range paths {
		log.Info().Str("path", p).Msg("downloaded")
	}
	fmt.Fprintf(c.App.Writer, "downloaded %d files into %s\n", len(paths), dest)
	return nil
}

func fetchFromBucket(c *cli.Context, cfg *config.Config, dest string) ([]string, error) {
	sc := cfg.Storage
	client, err := storage.NewMinioClient(storage.Config{
		Endpoint:  sc.Endpoint,
		AccessKey: sc.AccessKey,
		SecretKey: sc.SecretKey,
		Bucket:    sc.Bucket,
		Region:    sc.Region,
		UseSSL:    sc.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	prefix := firstNonEmpty(c.String("prefix"), sc.DatasetPrefix)
	return storage.DownloadDatasets(c.Context, client, prefix, c.String("object"), dest)
}

func fetchFromDrive(c *cli.Context, cfg *config.Config, dest string) ([]string, error) {
	if cfg.Drive.CredentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS must point at a service account key")
	}
	svc, err := drive.NewServiceFromFile(c.Context, cfg.Drive.CredentialsFile)
	if err != nil {
		return nil, err
	}

	folderID := c.String("folder-id")
	if folderID == "" {
		folderID, err = svc.FindFolderByPath(c.Context, firstNonEmpty(c.String("folder-path"), cfg.Drive.FolderPath))
		if err != nil {
			return nil, err
		}
	}

	return drive.NewDownloader(svc).DownloadDatasets(c.Context, drive.DownloadOptions{
		FolderID:    folderID,
		DownloadDir: dest,
	})
}
