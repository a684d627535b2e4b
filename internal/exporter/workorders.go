package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"craneview/internal/dates"
	"craneview/pkg/contracts/domain"
)

// workOrderHeaders is the column order of every work order export.
var workOrderHeaders = []string{
	"Key", "Name", "Description", "Equipment", "EquipmentType",
	"FaultLocation", "JobType", "CostPurpose", "Status", "FailureCause",
	"OrderDate", "ExecutionDate", "ProcessingDays", "Source",
}

// WorkOrderExporter renders work orders and KPI summaries to CSV and JSON.
type WorkOrderExporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewWorkOrderExporter creates an exporter writing files under baseDir.
func NewWorkOrderExporter(baseDir string, logger *slog.Logger) *WorkOrderExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &WorkOrderExporter{
		csv:    NewCSVWriter(baseDir, logger),
		logger: logger,
	}
}

// WriteCSV streams the work order population as CSV to w, BOM included,
// suitable for direct use as an HTTP response body.
func (e *WorkOrderExporter) WriteCSV(w io.Writer, orders []domain.WorkOrder) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(workOrderHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i := range orders {
		if err := writer.Write(workOrderRecord(&orders[i])); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON streams the full analysis result as indented JSON to w.
func (e *WorkOrderExporter) WriteJSON(w io.Writer, result *domain.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}
	return nil
}

// ExportWorkOrders writes the population to a CSV file under the export
// directory. Records are streamed one at a time so a full history export
// never materializes a record slice in memory.
func (e *WorkOrderExporter) ExportWorkOrders(fileName string, orders []domain.WorkOrder) error {
	stream, err := e.csv.CreateStreamWriter(fileName, workOrderHeaders)
	if err != nil {
		return err
	}

	for i := range orders {
		if err := stream.WriteRecord(workOrderRecord(&orders[i])); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return err
	}

	e.logger.Info("exported work orders",
		slog.String("file", fileName),
		slog.Int("count", len(orders)))
	return nil
}

// ExportSummary writes the KPI block to a two-column CSV file.
func (e *WorkOrderExporter) ExportSummary(fileName string, kpis domain.Kpis) error {
	records := [][]string{
		{"Total Work Orders", strconv.Itoa(kpis.Total)},
		{"Closed", strconv.Itoa(kpis.ClosedCount)},
		{"Pending", strconv.Itoa(kpis.PendingCount)},
		{"Avg Processing Days", formatFloat(kpis.AvgProcessingDays)},
		{"Top Job Type", kpis.TopJobType.Label},
		{"Top Status", kpis.TopStatus.Label},
	}
	if kpis.TopFailure != "" {
		records = append(records,
			[]string{"MTTR Days", formatFloat(kpis.MeanTimeToRepairDays)},
			[]string{"Top Failure", kpis.TopFailure},
			[]string{"Top Location", kpis.TopLocation},
		)
	}
	if kpis.MostAffected != "" {
		records = append(records,
			[]string{"Mean Downtime Hours", formatFloat(kpis.MeanDowntimeHours)},
			[]string{"Most Affected Equipment", kpis.MostAffected},
		)
	}

	return e.csv.WriteSimpleCSV(fileName, []string{"Metric", "Value"}, records)
}

func workOrderRecord(wo *domain.WorkOrder) []string {
	processing := ""
	if days, ok := wo.ProcessingDays(); ok {
		processing = formatFloat(days)
	}
	return []string{
		wo.Key,
		wo.Name,
		wo.Description,
		wo.EquipmentName,
		string(wo.EquipmentType),
		string(wo.FaultLocation),
		domain.JobTypeLabel(wo.JobTypeCode),
		wo.CostPurpose,
		domain.StatusLabel(wo.StatusCode),
		wo.FailureCause,
		formatDate(wo.OrderDate),
		formatDate(wo.ExecutionDate),
		processing,
		wo.Source,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dates.FormatDisplay(*t)
}
