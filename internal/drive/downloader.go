package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is the subset of the Drive API the downloader needs.
type Source interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, file *File, w io.Writer) error
}

// DownloadOptions controls how files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader mirrors dataset folders from Drive to local disk.
type Downloader struct {
	source Source
}

// NewDownloader creates a new Downloader.
func NewDownloader(s Source) *Downloader {
	return &Downloader{source: s}
}

// DownloadDatasets downloads the CSV, XLSX and Google Sheets files of the
// folder into DownloadDir and each direct subfolder into a directory of the
// same name, so every subfolder becomes one dataset. Google Sheets are saved
// as .xlsx. Local paths are returned sorted.
func (d *Downloader) DownloadDatasets(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, errors.New("download dir is required")
	}

	files, err := d.source.ListFiles(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if !f.IsFolder() {
			continue
		}
		children, err := d.source.ListFiles(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		paths, err := d.downloadAll(ctx, children, filepath.Join(opts.DownloadDir, safeName(f.Name)))
		if err != nil {
			return nil, err
		}
		localPaths = append(localPaths, paths...)
	}

	paths, err := d.downloadAll(ctx, files, opts.DownloadDir)
	if err != nil {
		return nil, err
	}
	localPaths = append(localPaths, paths...)

	sort.Strings(localPaths)
	return localPaths, nil
}

func (d *Downloader) downloadAll(ctx context.Context, files []*File, dir string) ([]string, error) {
	var localPaths []string
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name, ok := localName(f)
		if !ok {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create download dir: %w", err)
		}

		localPath := filepath.Join(dir, name)
		if err := d.downloadTo(ctx, f, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}
	return localPaths, nil
}

func (d *Downloader) downloadTo(ctx context.Context, f *File, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer out.Close()

	if err := d.source.DownloadFile(ctx, f, out); err != nil {
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return nil
}

// localName returns the file name to store f under, and false for files
// that are not datasets.
func localName(f *File) (string, bool) {
	if f.IsFolder() {
		return "", false
	}
	name := safeName(f.Name)
	if f.MimeType == spreadsheetMimeType {
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".xlsx", true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return name, true
	default:
		return "", false
	}
}

func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "unnamed"
	}
	return name
}
