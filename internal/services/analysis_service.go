// Package services wires the normalization, classification, filtering and
// aggregation stages into the operations the transport layer exposes.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"craneview/internal/analytics"
	"craneview/internal/filter"
	"craneview/internal/infrastructure"
	"craneview/internal/normalize"
	"craneview/internal/views"
	"craneview/pkg/contracts/domain"
)

// AnalysisService runs the work order pipeline: raw rows in, immutable
// dataset out, then KPI/chart recomputation for any filter and view
// combination. The service holds no mutable per-dataset state of its own;
// every Analyze call recomputes from the dataset it is handed.
type AnalysisService struct {
	logger     *slog.Logger
	normalizer *normalize.Normalizer
	aggregator *analytics.Aggregator
	metrics    *infrastructure.PipelineMetrics
}

// NewAnalysisService creates the pipeline service. metrics may be nil when
// observability is disabled.
func NewAnalysisService(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:     logger.With(slog.String("component", "analysis_service")),
		normalizer: normalize.NewNormalizer(logger),
		aggregator: analytics.NewAggregator(logger),
		metrics:    metrics,
	}
}

// Load normalizes and classifies a raw row sequence into a fresh dataset.
// The returned dataset fully replaces any prior one; it is never patched
// incrementally. Load fails on empty input or when no valid rows survive
// normalization, so callers can distinguish "no data" from "filtered to
// zero".
func (s *AnalysisService) Load(ctx context.Context, rows []normalize.Row) (*domain.Dataset, error) {
	start := time.Now()

	orders, err := s.normalizer.Normalize(rows)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	sources := map[string]bool{}
	for i := range orders {
		sources[orders[i].Source] = true
	}
	var sourceList []string
	for src := range sources {
		sourceList = append(sourceList, src)
	}

	ds := &domain.Dataset{
		Orders:   orders,
		LoadedAt: time.Now().UTC(),
		Sources:  sourceList,
	}

	s.metrics.RecordLoad(ctx, len(rows), len(orders), time.Since(start))
	s.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("rows_in", len(rows)),
		slog.Int("work_orders", len(orders)),
		slog.Duration("elapsed", time.Since(start)))

	return ds, nil
}

// Analyze narrows the dataset with the filter criteria, projects the
// requested view's sub-population and recomputes KPIs, charts and insights.
// A dataset filtered down to zero orders is a valid result; only a missing
// or empty dataset is an error.
func (s *AnalysisService) Analyze(ctx context.Context, ds *domain.Dataset, criteria filter.Criteria, view views.View) (*domain.AnalysisResult, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("analyze: %w", normalize.ErrNoData)
	}
	start := time.Now()

	filtered := filter.Apply(ds.Orders, criteria)
	kpis, charts, population := views.Project(ctx, s.aggregator, filtered, view)

	result := &domain.AnalysisResult{
		Data:     population,
		Kpis:     kpis,
		Charts:   charts,
		Insights: analytics.BuildInsights(kpis, charts),
		View:     string(view),
	}

	s.metrics.RecordAnalyze(ctx, string(view), len(population), time.Since(start))
	s.logger.InfoContext(ctx, "analysis recomputed",
		slog.String("view", string(view)),
		slog.Int("filtered", len(filtered)),
		slog.Int("population", len(population)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// FilterOptions lists the distinct values observed per filterable category,
// for populating dashboard dropdowns.
type FilterOptions struct {
	JobTypes       []string `json:"job_types"`
	Statuses       []string `json:"statuses"`
	FaultLocations []string `json:"fault_locations"`
	EquipmentTypes []string `json:"equipment_types"`
	CostPurposes   []string `json:"cost_purposes"`
	FailureCauses  []string `json:"failure_causes"`
}

// Options collects the distinct category values of a dataset in first
// occurrence order.
func (s *AnalysisService) Options(ds *domain.Dataset) FilterOptions {
	if ds == nil {
		return FilterOptions{}
	}

	var opts FilterOptions
	opts.JobTypes = distinct(ds.Orders, func(wo *domain.WorkOrder) string { return wo.JobTypeCode })
	opts.Statuses = distinct(ds.Orders, func(wo *domain.WorkOrder) string { return wo.StatusCode })
	opts.FaultLocations = distinct(ds.Orders, func(wo *domain.WorkOrder) string { return string(wo.FaultLocation) })
	opts.EquipmentTypes = distinct(ds.Orders, func(wo *domain.WorkOrder) string { return string(wo.EquipmentType) })
	opts.CostPurposes = distinct(ds.Orders, func(wo *domain.WorkOrder) string { return wo.CostPurpose })
	opts.FailureCauses = distinct(ds.Orders, func(wo *domain.WorkOrder) string { return wo.FailureCause })
	return opts
}

func distinct(orders []domain.WorkOrder, key func(*domain.WorkOrder) string) []string {
	seen := map[string]bool{}
	var out []string
	for i := range orders {
		k := key(&orders[i])
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
