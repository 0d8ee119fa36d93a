package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// ReadXLSX returns the rows of the named sheet, or of the first sheet when
// sheet is empty. Trailing empty cells are padded back to the header width
// because excelize drops them.
func ReadXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySheet
		}
		sheet = sheets[0]
	}
	return sheetRows(f, sheet)
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var out [][]string
	width := 0
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		if len(out) == 0 {
			width = len(record)
		} else if len(record) > 0 && len(record) < width {
			record = append(record, make([]string, width-len(record))...)
		}
		out = append(out, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}
	return out, nil
}

// ReadWorkbook loads every collection found in a workbook whose sheets are
// named skus, factories and suppliers (case-insensitive). Missing sheets
// leave their collection empty.
func ReadWorkbook(r io.Reader) (domain.RecordStore, error) {
	var store domain.RecordStore

	f, err := excelize.OpenReader(r)
	if err != nil {
		return store, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		kind, err := ParseKind(sheet)
		if err != nil {
			continue
		}
		rows, err := sheetRows(f, sheet)
		if err != nil {
			return store, err
		}
		part, err := Rows(kind, rows)
		if err != nil {
			return store, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		store.SKUs = append(store.SKUs, part.SKUs...)
		store.Factories = append(store.Factories, part.Factories...)
		store.Suppliers = append(store.Suppliers, part.Suppliers...)
	}
	return store, nil
}

// ParseUpload reads an uploaded CSV or XLSX file of the given kind.
func ParseUpload(filename string, r io.Reader, kind Kind) (domain.RecordStore, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = ReadXLSX(r, "")
	case ".csv", ".txt", "":
		rows, err = ReadCSV(r)
	default:
		return domain.RecordStore{}, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
	if err != nil {
		return domain.RecordStore{}, err
	}
	return Rows(kind, rows)
}
