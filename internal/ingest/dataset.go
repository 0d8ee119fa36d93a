package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// ErrNoDataset is returned when a directory has no SKU file.
var ErrNoDataset = errors.New("no sku dataset found")

// Dataset file stems. Each may be stored as .csv or .xlsx.
var datasetFiles = map[Kind]string{
	KindSKUs:      "skus",
	KindFactories: "factories",
	KindSuppliers: "suppliers",
}

// DatasetFile returns the path of the file holding kind in dir, or "" when absent.
func DatasetFile(dir string, kind Kind) string {
	stem := datasetFiles[kind]
	for _, ext := range []string{".csv", ".xlsx"} {
		p := filepath.Join(dir, stem+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// IsDataset reports whether dir holds at least a SKU file.
func IsDataset(dir string) bool {
	return DatasetFile(dir, KindSKUs) != ""
}

// LoadDataset reads the skus, factories and suppliers files of a dataset
// directory. Factories and suppliers are optional.
func LoadDataset(dir string) (domain.RecordStore, error) {
	var store domain.RecordStore
	if !IsDataset(dir) {
		return store, fmt.Errorf("%w in %s", ErrNoDataset, dir)
	}

	for _, kind := range []Kind{KindSKUs, KindFactories, KindSuppliers} {
		path := DatasetFile(dir, kind)
		if path == "" {
			continue
		}
		part, err := loadFile(path, kind)
		if err != nil {
			return store, err
		}
		store.SKUs = append(store.SKUs, part.SKUs...)
		store.Factories = append(store.Factories, part.Factories...)
		store.Suppliers = append(store.Suppliers, part.Suppliers...)
	}
	return store, nil
}

func loadFile(path string, kind Kind) (domain.RecordStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RecordStore{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	store, err := ParseUpload(filepath.Base(path), io.Reader(f), kind)
	if err != nil {
		return store, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return store, nil
}
