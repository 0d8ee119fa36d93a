package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/ingest"
)

type DatasetHandler struct {
	maxUploadBytes int64
}

func NewDatasetHandler(maxUploadMB int) *DatasetHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &DatasetHandler{maxUploadBytes: int64(maxUploadMB) << 20}
}

// ParseUpload converts uploaded CSV or XLSX files into records.
//
// A form field named after a record kind (skus, factories, suppliers) holds a
// single-collection file. A "workbook" field holds an XLSX file with one sheet
// per kind.
func (h *DatasetHandler) ParseUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	var (
		store domain.RecordStore
		count int
	)

	for _, file := range form.File["workbook"] {
		parsed, err := readUpload(file, func(f multipart.File) (domain.RecordStore, error) {
			return ingest.ReadWorkbook(f)
		})
		if err != nil {
			uploadError(c, file.Filename, err)
			return
		}
		merge(&store, parsed)
		count++
	}

	for _, kind := range []ingest.Kind{ingest.KindSKUs, ingest.KindFactories, ingest.KindSuppliers} {
		for _, file := range form.File[string(kind)] {
			parsed, err := readUpload(file, func(f multipart.File) (domain.RecordStore, error) {
				return ingest.ParseUpload(file.Filename, f, kind)
			})
			if err != nil {
				uploadError(c, file.Filename, err)
				return
			}
			merge(&store, parsed)
			count++
		}
	}

	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
		"files": count,
	})
}

// EditRequest carries a record store and the edits to apply to it in order.
type EditRequest struct {
	Store domain.RecordStore `json:"store"`
	Edits []domain.StoreEdit `json:"edits"`
}

// EditStore applies the posted edits to a posted record store and
// returns the edited store. No edit is applied when any of them fails.
func (h *DatasetHandler) EditStore(c *gin.Context) {
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	store, err := req.Store.ApplyEdits(req.Edits)
	if err != nil {
		c.JSON(editStatus(err), gin.H{"error": "failed to edit records", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

func editStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownSKU), errors.Is(err, domain.ErrUnknownFactory), errors.Is(err, domain.ErrUnknownSupplier):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSKU):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLastRecord):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func readUpload(fh *multipart.FileHeader, parse func(multipart.File) (domain.RecordStore, error)) (domain.RecordStore, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.RecordStore{}, err
	}
	defer f.Close()
	return parse(f)
}

func uploadError(c *gin.Context, filename string, err error) {
	log.Warn().Err(err).Str("filename", filename).Msg("failed to parse uploaded file")
	status := http.StatusBadRequest
	if errors.Is(err, ingest.ErrEmptySheet) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": "failed to parse " + filename, "details": err.Error()})
}

func merge(dst *domain.RecordStore, src domain.RecordStore) {
	dst.SKUs = append(dst.SKUs, src.SKUs...)
	dst.Factories = append(dst.Factories, src.Factories...)
	dst.Suppliers = append(dst.Suppliers, src.Suppliers...)
}
