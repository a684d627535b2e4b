package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"craneview/internal/dates"
	"craneview/internal/exporter"
	"craneview/internal/filter"
	"craneview/internal/ingest"
	"craneview/internal/services"
	"craneview/internal/views"
)

// craneview-report runs the work order pipeline once against one or more
// spreadsheet exports and writes the analysis to disk, without starting the
// server.
func main() {
	outputDir := flag.String("out", "reports", "output directory for the generated report files")
	viewName := flag.String("view", "general", "analysis view: general, corrective or breakdown")
	format := flag.String("format", "csv", "output format: csv or json")
	orderFrom := flag.String("order-from", "", "only include orders created on or after this date (DD/MM/YYYY)")
	orderTo := flag.String("order-to", "", "only include orders created on or before this date (DD/MM/YYYY)")
	jobTypes := flag.String("job-types", "", "comma separated job type codes to include")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: craneview-report [flags] <workorders.xlsx|csv> ...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	view, err := views.Parse(*viewName)
	if err != nil {
		slog.Error("Invalid view", "error", err)
		os.Exit(1)
	}

	criteria, err := buildCriteria(*orderFrom, *orderTo, *jobTypes)
	if err != nil {
		slog.Error("Invalid filter", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger := slog.Default()

	reader := ingest.NewReader(logger)
	rows, err := reader.ReadAll(ctx, flag.Args())
	if err != nil {
		slog.Error("Failed to read input files", "error", err)
		os.Exit(1)
	}
	slog.Info("Read input rows", "rows", len(rows), "files", flag.NArg())

	service := services.NewAnalysisService(logger, nil)
	ds, err := service.Load(ctx, rows)
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	result, err := service.Analyze(ctx, ds, criteria, view)
	if err != nil {
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Analysis complete",
		"view", result.View,
		"work_orders", result.Kpis.Total,
		"closed", result.Kpis.ClosedCount,
		"pending", result.Kpis.PendingCount)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		slog.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}

	ex := exporter.NewWorkOrderExporter(*outputDir, logger)
	stamp := time.Now().Format("20060102_150405")

	switch *format {
	case "csv":
		dataFile := fmt.Sprintf("workorders_%s_%s.csv", result.View, stamp)
		if err := ex.ExportWorkOrders(dataFile, result.Data); err != nil {
			slog.Error("Failed to write work order report", "error", err)
			os.Exit(1)
		}
		summaryFile := fmt.Sprintf("summary_%s_%s.csv", result.View, stamp)
		if err := ex.ExportSummary(summaryFile, result.Kpis); err != nil {
			slog.Error("Failed to write summary report", "error", err)
			os.Exit(1)
		}
		slog.Info("Report written",
			"data", filepath.Join(*outputDir, dataFile),
			"summary", filepath.Join(*outputDir, summaryFile))
	case "json":
		jsonFile := filepath.Join(*outputDir, fmt.Sprintf("analysis_%s_%s.json", result.View, stamp))
		f, err := os.Create(jsonFile)
		if err != nil {
			slog.Error("Failed to create report file", "error", err)
			os.Exit(1)
		}
		if err := ex.WriteJSON(f, result); err != nil {
			f.Close()
			slog.Error("Failed to write report", "error", err)
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			slog.Error("Failed to close report file", "error", err)
			os.Exit(1)
		}
		slog.Info("Report written", "path", jsonFile)
	default:
		slog.Error("Unsupported format", "format", *format)
		os.Exit(1)
	}
}

func buildCriteria(orderFrom, orderTo, jobTypes string) (filter.Criteria, error) {
	var c filter.Criteria

	if orderFrom != "" {
		t, err := dates.Parse(orderFrom)
		if err != nil {
			return c, fmt.Errorf("order-from: %w", err)
		}
		c.OrderDateFrom = &t
	}
	if orderTo != "" {
		t, err := dates.Parse(orderTo)
		if err != nil {
			return c, fmt.Errorf("order-to: %w", err)
		}
		c.OrderDateTo = &t
	}
	for _, raw := range strings.Split(jobTypes, ",") {
		if v := strings.TrimSpace(raw); v != "" {
			c.JobTypes = append(c.JobTypes, v)
		}
	}
	return c, nil
}
