// Package ingest reads work order workbooks and CSV extracts into the raw
// row form the normalizer accepts. It discovers the data sheet and header
// row by content rather than fixed positions, since exported maintenance
// reports shift layout between CMMS versions.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	apperrors "craneview/internal/errors"
	"craneview/internal/normalize"
)

// headerHints are column names recognized from CMMS work order exports.
// A row counting at least two hits is taken as the header row.
var headerHints = map[string]struct{}{
	"wo_key":         {},
	"key":            {},
	"wo_name":        {},
	"name":           {},
	"description":    {},
	"wo_description": {},
	"mo_key":         {},
	"equipement":     {},
	"equipment":      {},
	"jobtype":        {},
	"job_type":       {},
	"cost_purpose":   {},
	"cost_purpose_key": {},
	"etatjob":        {},
	"status":         {},
	"order_date":     {},
	"orderdate":      {},
	"jobexec_dt":     {},
	"execution_date": {},
}

const minHeaderHits = 2

// Reader loads raw work order rows from files on disk.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a workbook reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With(slog.String("component", "ingest"))}
}

// ReadAll reads every given file concurrently and concatenates the rows in
// the input path order. Row indexes are assigned over the combined
// sequence, so synthetic work order keys stay unique across files.
func (r *Reader) ReadAll(ctx context.Context, paths []string) ([]normalize.Row, error) {
	if len(paths) == 0 {
		return nil, apperrors.NewIngestError("no input files", nil)
	}

	perFile := make([][]normalize.Row, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			rows, err := r.ReadFile(ctx, path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			mu.Lock()
			perFile[i] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []normalize.Row
	for _, rows := range perFile {
		out = append(out, rows...)
	}
	for i := range out {
		out[i].Index = i
	}
	return out, nil
}

// ReadFile reads one workbook or CSV file into raw rows. The source tag of
// each row reflects whether it came from the active or history side.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]normalize.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.readCSV(path)
	case ".xlsx", ".xlsm":
		return r.readWorkbook(path)
	default:
		return nil, apperrors.NewIngestError(
			fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)), nil)
	}
}

func (r *Reader) readWorkbook(path string) ([]normalize.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewIngestError("failed to open workbook", err)
	}
	defer f.Close()

	var out []normalize.Row
	sheets := f.GetSheetList()
	sort.SliceStable(sheets, func(i, j int) bool {
		// Active sheets sort before history so combined indexes follow the
		// operational ordering of the export.
		return !isHistorySheet(sheets[i]) && isHistorySheet(sheets[j])
	})

	parsed := 0
	for _, sheet := range sheets {
		cells, err := f.GetRows(sheet)
		if err != nil {
			r.logger.Warn("skipping unreadable sheet",
				slog.String("sheet", sheet), slog.String("error", err.Error()))
			continue
		}

		rows, ok := r.parseSheet(cells, sourceFor(path, sheet))
		if !ok {
			continue
		}
		parsed++
		out = append(out, rows...)
		r.logger.Info("parsed sheet",
			slog.String("file", filepath.Base(path)),
			slog.String("sheet", sheet),
			slog.Int("rows", len(rows)))
	}

	if parsed == 0 {
		return nil, apperrors.NewIngestError("no work order sheet found", nil).
			WithContext("file", filepath.Base(path))
	}
	return out, nil
}

func (r *Reader) readCSV(path string) ([]normalize.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIngestError("failed to open csv", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var cells [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewIngestError("failed to read csv", err)
		}
		cells = append(cells, record)
	}

	rows, ok := r.parseSheet(cells, sourceFor(path, ""))
	if !ok {
		return nil, apperrors.NewIngestError("no work order header found", nil).
			WithContext("file", filepath.Base(path))
	}
	return rows, nil
}

// parseSheet locates the header row, maps columns by name and converts the
// remaining rows to field maps. It reports false when no header row is
// recognizable, which marks the sheet as not containing work order data.
func (r *Reader) parseSheet(cells [][]string, source string) ([]normalize.Row, bool) {
	headerRow, columns := findHeader(cells)
	if headerRow < 0 {
		return nil, false
	}

	var rows []normalize.Row
	for i := headerRow + 1; i < len(cells); i++ {
		fields := rowFields(cells[i], columns)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, normalize.Row{
			Fields: fields,
			Index:  len(rows),
			Source: source,
		})
	}
	return rows, true
}

// findHeader scans the leading rows for one whose cells match enough known
// column names, and returns its index with the column name mapping.
func findHeader(cells [][]string) (int, map[int]string) {
	limit := len(cells)
	if limit > 20 {
		limit = 20
	}

	for i := 0; i < limit; i++ {
		hits := 0
		columns := make(map[int]string)
		for j, cell := range cells[i] {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name == "" {
				continue
			}
			columns[j] = name
			if _, known := headerHints[name]; known {
				hits++
			}
		}
		if hits >= minHeaderHits {
			return i, columns
		}
	}
	return -1, nil
}

func rowFields(row []string, columns map[int]string) map[string]any {
	fields := make(map[string]any, len(columns))
	empty := true
	for j, name := range columns {
		if j >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[j])
		if value == "" {
			continue
		}
		empty = false
		fields[name] = value
	}
	if empty {
		return nil
	}
	return fields
}

// sourceFor decides the active/history tag from the sheet name, falling
// back to the file name for CSVs and single-sheet workbooks.
func sourceFor(path, sheet string) string {
	if sheet != "" && isHistorySheet(sheet) {
		return normalize.SourceHistory
	}
	if sheet == "" && isHistorySheet(filepath.Base(path)) {
		return normalize.SourceHistory
	}
	return normalize.SourceActive
}

func isHistorySheet(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "hist") || strings.Contains(lower, "closed") ||
		strings.Contains(lower, "archive")
}
