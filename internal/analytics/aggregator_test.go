package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneview/pkg/contracts/domain"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleOrders() []domain.WorkOrder {
	return []domain.WorkOrder{
		{
			Key: "1", JobTypeCode: "CM", StatusCode: "TER",
			EquipmentType: domain.EquipmentSTSCrane,
			FaultLocation: domain.LocationHoist,
			FailureCause:  "Hoist Service Brake",
			OrderDate:     datePtr(2024, time.February, 1),
			ExecutionDate: datePtr(2024, time.February, 5),
		},
		{
			Key: "2", JobTypeCode: "CM", StatusCode: "EXE",
			EquipmentType: domain.EquipmentSTSCrane,
			FaultLocation: domain.LocationHoist,
			FailureCause:  "Hoist Service Brake",
			OrderDate:     datePtr(2024, time.February, 2),
		},
		{
			Key: "3", JobTypeCode: "BDN", StatusCode: "TER",
			EquipmentType: domain.EquipmentSpreader,
			FaultLocation: domain.LocationOther,
			FailureCause:  "Twin",
			OrderDate:     datePtr(2024, time.February, 8),
			ExecutionDate: datePtr(2024, time.February, 10),
		},
	}
}

func TestSummarize_Kpis(t *testing.T) {
	agg := NewAggregator(nil)

	kpis, _ := agg.Summarize(context.Background(), sampleOrders())

	assert.Equal(t, 3, kpis.Total)
	assert.Equal(t, 2, kpis.ClosedCount)
	assert.Equal(t, 1, kpis.PendingCount)
	// Orders 1 (4 days) and 3 (2 days) are closed; order 2 has no
	// execution date and is excluded from the average.
	assert.InDelta(t, 3.0, kpis.AvgProcessingDays, 0.001)

	assert.Equal(t, "CM", kpis.TopJobType.Code)
	assert.Equal(t, "Corrective Maintenance", kpis.TopJobType.Label)
	assert.Equal(t, 2, kpis.TopJobType.Count)
	assert.Equal(t, "TER", kpis.TopStatus.Code)
	assert.Equal(t, 2, kpis.TopStatus.Count)
}

func TestSummarize_Charts(t *testing.T) {
	agg := NewAggregator(nil)

	_, charts := agg.Summarize(context.Background(), sampleOrders())

	require.Len(t, charts.ByJobType, 2)
	assert.Equal(t, domain.CountEntry{Key: "CM", Count: 2}, charts.ByJobType[0])
	assert.Equal(t, domain.CountEntry{Key: "BDN", Count: 1}, charts.ByJobType[1])

	assert.Equal(t, map[string]int{
		string(domain.EquipmentSTSCrane): 2,
		string(domain.EquipmentSpreader): 1,
	}, charts.ByEquipmentType)

	assert.Equal(t, map[string]int{
		"Hoist Service Brake": 2,
		"Twin":                1,
	}, charts.ByFailureCause)

	require.NotEmpty(t, charts.TopFaults)
	assert.Equal(t, "Hoist Service Brake", charts.TopFaults[0].Key)
}

func TestSummarize_WeeklySeries(t *testing.T) {
	agg := NewAggregator(nil)

	_, charts := agg.Summarize(context.Background(), sampleOrders())

	// Feb 1-2 2024 fall in ISO week 5, Feb 8 in week 6.
	assert.Equal(t, []domain.SeriesPoint{
		{Bucket: "2024-W05", Count: 2},
		{Bucket: "2024-W06", Count: 1},
	}, charts.WeeklyCreated)

	// Both execution dates (Feb 5 and Feb 10) fall in week 6.
	assert.Equal(t, []domain.SeriesPoint{
		{Bucket: "2024-W06", Count: 2},
	}, charts.WeeklyClosed)

	// The month-scoped series rebuckets the same creation counts under
	// year-month-week keys.
	assert.Equal(t, []domain.SeriesPoint{
		{Bucket: "2024-02-W05", Count: 2},
		{Bucket: "2024-02-W06", Count: 1},
	}, charts.MonthlyCreated)
}

func TestSummarize_EmptyCollection(t *testing.T) {
	agg := NewAggregator(nil)

	kpis, charts := agg.Summarize(context.Background(), nil)

	assert.Zero(t, kpis.Total)
	assert.Zero(t, kpis.AvgProcessingDays)
	assert.Empty(t, charts.ByJobType)
	assert.Empty(t, charts.WeeklyCreated)
	assert.Empty(t, charts.MonthlyCreated)
}

func TestSummarize_MissingValuesBucketAsUnknown(t *testing.T) {
	agg := NewAggregator(nil)

	_, charts := agg.Summarize(context.Background(), []domain.WorkOrder{
		{Key: "1", JobTypeCode: "", StatusCode: "", FailureCause: ""},
	})

	assert.Equal(t, domain.UnknownLabel, charts.ByJobType[0].Key)
	assert.Equal(t, domain.UnknownLabel, charts.ByStatus[0].Key)
	assert.Equal(t, 1, charts.ByFailureCause[domain.UnknownLabel])
	assert.Equal(t, 1, charts.ByEquipmentType[string(domain.EquipmentOther)])
}

func TestSummarize_Deterministic(t *testing.T) {
	agg := NewAggregator(nil)
	orders := sampleOrders()

	kpis1, charts1 := agg.Summarize(context.Background(), orders)
	kpis2, charts2 := agg.Summarize(context.Background(), orders)

	assert.Equal(t, kpis1, kpis2)
	assert.Equal(t, charts1, charts2)
}

func TestBuildInsights_CorrectiveRatio(t *testing.T) {
	charts := domain.Charts{ByJobType: []domain.CountEntry{
		{Key: "CM", Count: 8},
		{Key: "PM", Count: 2},
	}}

	insights := BuildInsights(domain.Kpis{Total: 10}, charts)

	require.NotEmpty(t, insights)
	assert.Equal(t, SeverityWarning, insights[0].Severity)
	assert.Equal(t, "High Corrective Maintenance Ratio", insights[0].Title)
}

func TestBuildInsights_HealthyBalance(t *testing.T) {
	charts := domain.Charts{ByJobType: []domain.CountEntry{
		{Key: "CM", Count: 2},
		{Key: "PM", Count: 8},
	}}

	insights := BuildInsights(domain.Kpis{Total: 10}, charts)

	require.NotEmpty(t, insights)
	assert.Equal(t, SeveritySuccess, insights[0].Severity)
}

func TestBuildInsights_PendingBacklog(t *testing.T) {
	insights := BuildInsights(domain.Kpis{Total: 10, PendingCount: 6, ClosedCount: 4}, domain.Charts{})

	require.Len(t, insights, 1)
	assert.Equal(t, "High Pending Backlog", insights[0].Title)
}

func TestBuildInsights_DominantCauseSkipsUnknown(t *testing.T) {
	charts := domain.Charts{TopFaults: []domain.CountEntry{{Key: domain.UnknownLabel, Count: 9}}}
	insights := BuildInsights(domain.Kpis{Total: 9}, charts)
	assert.Empty(t, insights)
}
