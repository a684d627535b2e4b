package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/render"

	apierrors "craneview/internal/errors"
	"craneview/internal/ingest"
	"craneview/internal/normalize"
	"craneview/internal/services"
	"craneview/pkg/contracts/domain"
)

// maxUploadBytes bounds a single dataset upload.
const maxUploadBytes = 64 << 20

// uploadRequest is the JSON body of a rows upload.
type uploadRequest struct {
	Rows   []map[string]any `json:"rows"`
	Source string           `json:"source,omitempty"`
}

// datasetSummary is the response after a successful load and the body of
// GET /api/workorders.
type datasetSummary struct {
	WorkOrders int       `json:"work_orders"`
	Sources    []string  `json:"sources"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// DataHandler accepts dataset uploads and reports dataset state.
type DataHandler struct {
	service      AnalysisService
	store        *services.DatasetStore
	reader       *ingest.Reader
	broadcaster  Broadcaster
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates the dataset upload handler.
func NewDataHandler(service AnalysisService, store *services.DatasetStore, broadcaster Broadcaster, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		store:        store,
		reader:       ingest.NewReader(logger),
		broadcaster:  broadcaster,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// GetDataset handles GET /api/workorders: a summary of the loaded dataset.
func (h *DataHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds := h.store.Get()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}
	render.JSON(w, r, summaryOf(ds))
}

// Upload handles POST /api/workorders. Multipart uploads carry workbook or
// CSV files under the "files" field; a JSON body carries raw rows directly.
// The new dataset replaces the previous one wholesale.
func (h *DataHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var rows []normalize.Row
	var err error

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		rows, err = h.rowsFromMultipart(r)
	} else {
		rows, err = h.rowsFromJSON(r)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ds, err := h.service.Load(r.Context(), rows)
	if err != nil {
		if errors.Is(err, normalize.ErrNoData) || errors.Is(err, normalize.ErrNoValidRows) {
			h.errorHandler.HandleError(w, r, apierrors.EmptyDatasetError(err))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.store.Set(ds)

	summary := summaryOf(ds)
	if h.broadcaster != nil {
		h.broadcaster.BroadcastDataUpdate(summary)
	}

	h.logger.InfoContext(r.Context(), "dataset replaced",
		slog.Int("work_orders", summary.WorkOrders),
		slog.Any("sources", summary.Sources))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, summary)
}

func (h *DataHandler) rowsFromJSON(r *http.Request) ([]normalize.Row, error) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	rows := make([]normalize.Row, 0, len(req.Rows))
	for i, fields := range req.Rows {
		rows = append(rows, normalize.Row{
			Fields: fields,
			Index:  i,
			Source: req.Source,
		})
	}
	return rows, nil
}

// rowsFromMultipart spools the uploaded files to a temp directory so the
// workbook reader can open them, then removes them.
func (h *DataHandler) rowsFromMultipart(r *http.Request) ([]normalize.Row, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return nil, apierrors.ErrValidation("files", "at least one file is required")
	}

	tmpDir, err := os.MkdirTemp("", "craneview-upload-*")
	if err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	paths := make([]string, 0, len(files))
	for _, header := range files {
		src, err := header.Open()
		if err != nil {
			return nil, apierrors.InvalidRequestWithError(err)
		}

		dstPath := filepath.Join(tmpDir, filepath.Base(header.Filename))
		dst, err := os.Create(dstPath)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("spool upload: %w", err)
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return nil, fmt.Errorf("spool upload: %w", err)
		}
		paths = append(paths, dstPath)
	}

	return h.reader.ReadAll(r.Context(), paths)
}

func summaryOf(ds *domain.Dataset) datasetSummary {
	return datasetSummary{
		WorkOrders: ds.Len(),
		Sources:    ds.Sources,
		LoadedAt:   ds.LoadedAt,
	}
}
