// Package analytics computes the KPI scalars, category distributions and
// weekly time series a dashboard consumes from a work order collection.
// Every computation is a pure function of its input: running an aggregation
// twice over the same collection yields identical output.
package analytics

import (
	"context"
	"log/slog"
	"sort"

	"craneview/internal/dates"
	"craneview/pkg/contracts/domain"
)

// topFaultsLimit caps the failure cause chart at the ten most frequent causes.
const topFaultsLimit = 10

// Aggregator computes KPIs and distributions over work order collections.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger.With(slog.String("component", "aggregator"))}
}

// Summarize computes the KPI scalars and chart distributions for a
// collection. An empty collection is a valid input here and produces zeroed
// aggregates; rejecting empty datasets is the loading layer's concern.
func (a *Aggregator) Summarize(ctx context.Context, orders []domain.WorkOrder) (domain.Kpis, domain.Charts) {
	kpis := domain.Kpis{Total: len(orders)}

	jobTypes := newCounter()
	statuses := newCounter()
	equipmentTypes := newCounter()
	locations := newCounter()
	causes := newCounter()
	created := map[string]int{}
	closed := map[string]int{}
	createdByMonth := map[string]int{}

	var processingSum float64
	var processingN int

	for i := range orders {
		wo := &orders[i]

		if wo.Closed() {
			kpis.ClosedCount++
		} else {
			kpis.PendingCount++
		}
		if days, ok := wo.ProcessingDays(); ok && wo.Closed() {
			processingSum += days
			processingN++
		}

		jobTypes.add(orDefault(wo.JobTypeCode, domain.UnknownLabel))
		statuses.add(orDefault(wo.StatusCode, domain.UnknownLabel))
		equipmentTypes.add(orDefault(string(wo.EquipmentType), string(domain.EquipmentOther)))
		locations.add(orDefault(string(wo.FaultLocation), string(domain.LocationOther)))
		causes.add(orDefault(wo.FailureCause, domain.UnknownLabel))

		if wo.OrderDate != nil {
			created[dates.WeekBucket(*wo.OrderDate)]++
			createdByMonth[dates.MonthWeekBucket(*wo.OrderDate)]++
		}
		if wo.ExecutionDate != nil {
			closed[dates.WeekBucket(*wo.ExecutionDate)]++
		}
	}

	if processingN > 0 {
		kpis.AvgProcessingDays = processingSum / float64(processingN)
	}

	if code, count, ok := jobTypes.top(); ok {
		kpis.TopJobType = domain.TopEntry{Code: code, Label: domain.JobTypeLabel(code), Count: count}
	}
	if code, count, ok := statuses.top(); ok {
		kpis.TopStatus = domain.TopEntry{Code: code, Label: domain.StatusLabel(code), Count: count}
	}

	charts := domain.Charts{
		ByJobType:       jobTypes.sortedDesc(),
		ByStatus:        statuses.sortedDesc(),
		ByEquipmentType: equipmentTypes.asMap(),
		ByFaultLocation: locations.asMap(),
		ByFailureCause:  causes.asMap(),
		TopFaults:       truncate(causes.sortedDesc(), topFaultsLimit),
		WeeklyCreated:   series(created),
		WeeklyClosed:    series(closed),
		MonthlyCreated:  series(createdByMonth),
	}

	a.logger.DebugContext(ctx, "aggregation complete",
		slog.Int("total", kpis.Total),
		slog.Int("closed", kpis.ClosedCount),
		slog.Int("pending", kpis.PendingCount))

	return kpis, charts
}

// counter tracks occurrence counts while remembering first-occurrence order,
// which breaks ties both for the top entry and for equal-count chart rows.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top() (string, int, bool) {
	best, bestCount := "", 0
	for _, key := range c.order {
		if c.counts[key] > bestCount {
			best, bestCount = key, c.counts[key]
		}
	}
	return best, bestCount, bestCount > 0
}

func (c *counter) sortedDesc() []domain.CountEntry {
	entries := make([]domain.CountEntry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, domain.CountEntry{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func (c *counter) asMap() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

func truncate(entries []domain.CountEntry, limit int) []domain.CountEntry {
	if len(entries) <= limit {
		return entries
	}
	return entries[:limit]
}

func series(buckets map[string]int) []domain.SeriesPoint {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	points := make([]domain.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, domain.SeriesPoint{Bucket: k, Count: buckets[k]})
	}
	return points
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
