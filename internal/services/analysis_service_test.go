package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneview/internal/filter"
	"craneview/internal/normalize"
	"craneview/internal/views"
	"craneview/pkg/contracts/domain"
)

func sampleRows() []normalize.Row {
	return []normalize.Row{
		{Index: 0, Source: normalize.SourceActive, Fields: map[string]any{
			"wo_key": "1001", "wo_name": "Hoist brake worn", "mo_key": "STS06-MNH-01",
			"jobtype": "CM", "etatjob": "TER",
			"order_date": "01/02/2024", "jobexec_dt": "05/02/2024",
		}},
		{Index: 1, Source: normalize.SourceHistory, Fields: map[string]any{
			"wo_key": "1002", "wo_name": "Twin fault", "mo_key": "SPR214-TWL",
			"jobtype": "BDN", "etatjob": "EXE", "order_date": "10/02/2024",
		}},
		{Index: 2, Source: normalize.SourceActive, Fields: map[string]any{
			"wo_key": "1003", "wo_name": "Out of fleet", "mo_key": "RTG05",
		}},
	}
}

func TestLoad(t *testing.T) {
	svc := NewAnalysisService(nil, nil)

	ds, err := svc.Load(context.Background(), sampleRows())
	require.NoError(t, err)

	// The RTG row is out of scope and dropped.
	assert.Equal(t, 2, ds.Len())
	assert.False(t, ds.LoadedAt.IsZero())
	assert.ElementsMatch(t, []string{normalize.SourceActive, normalize.SourceHistory}, ds.Sources)
}

func TestLoad_EmptyInput(t *testing.T) {
	svc := NewAnalysisService(nil, nil)

	_, err := svc.Load(context.Background(), nil)
	assert.ErrorIs(t, err, normalize.ErrNoData)
}

func TestLoad_NothingSurvives(t *testing.T) {
	svc := NewAnalysisService(nil, nil)

	rows := []normalize.Row{{Index: 0, Fields: map[string]any{"mo_key": "RTG01"}}}
	_, err := svc.Load(context.Background(), rows)
	assert.ErrorIs(t, err, normalize.ErrNoValidRows)
}

func TestAnalyze_GeneralView(t *testing.T) {
	svc := NewAnalysisService(nil, nil)
	ds, err := svc.Load(context.Background(), sampleRows())
	require.NoError(t, err)

	result, err := svc.Analyze(context.Background(), ds, filter.Criteria{}, views.General)
	require.NoError(t, err)

	assert.Equal(t, "general", result.View)
	assert.Equal(t, 2, result.Kpis.Total)
	assert.Len(t, result.Data, 2)
	assert.NotEmpty(t, result.Charts.ByJobType)
}

func TestAnalyze_FilterThenView(t *testing.T) {
	svc := NewAnalysisService(nil, nil)
	ds, err := svc.Load(context.Background(), sampleRows())
	require.NoError(t, err)

	// The filter narrows to CM orders first, so the breakdown view's
	// population is empty even though the dataset has a BDN order.
	result, err := svc.Analyze(context.Background(), ds,
		filter.Criteria{JobTypes: []string{"CM"}}, views.Breakdown)
	require.NoError(t, err)

	assert.Zero(t, result.Kpis.Total)
	assert.Empty(t, result.Data)
}

func TestAnalyze_FilteredToZeroIsNotAnError(t *testing.T) {
	svc := NewAnalysisService(nil, nil)
	ds, err := svc.Load(context.Background(), sampleRows())
	require.NoError(t, err)

	result, err := svc.Analyze(context.Background(), ds,
		filter.Criteria{Statuses: []string{"CAN"}}, views.General)
	require.NoError(t, err)
	assert.Zero(t, result.Kpis.Total)
}

func TestAnalyze_MissingDataset(t *testing.T) {
	svc := NewAnalysisService(nil, nil)

	_, err := svc.Analyze(context.Background(), nil, filter.Criteria{}, views.General)
	assert.ErrorIs(t, err, normalize.ErrNoData)

	_, err = svc.Analyze(context.Background(), &domain.Dataset{}, filter.Criteria{}, views.General)
	assert.ErrorIs(t, err, normalize.ErrNoData)
}

func TestAnalyze_DoesNotMutateDataset(t *testing.T) {
	svc := NewAnalysisService(nil, nil)
	ds, err := svc.Load(context.Background(), sampleRows())
	require.NoError(t, err)

	before := ds.Len()
	_, err = svc.Analyze(context.Background(), ds,
		filter.Criteria{JobTypes: []string{"BDN"}}, views.Breakdown)
	require.NoError(t, err)
	assert.Equal(t, before, ds.Len())
}

func TestOptions(t *testing.T) {
	svc := NewAnalysisService(nil, nil)
	ds, err := svc.Load(context.Background(), sampleRows())
	require.NoError(t, err)

	opts := svc.Options(ds)
	assert.Equal(t, []string{"CM", "BDN"}, opts.JobTypes)
	assert.Equal(t, []string{"TER", "EXE"}, opts.Statuses)
	assert.Contains(t, opts.EquipmentTypes, string(domain.EquipmentSTSCrane))
	assert.Contains(t, opts.EquipmentTypes, string(domain.EquipmentSpreader))
	assert.Contains(t, opts.FailureCauses, "Hoist Service Brake")
}

func TestOptions_NilDataset(t *testing.T) {
	svc := NewAnalysisService(nil, nil)
	assert.Empty(t, svc.Options(nil).JobTypes)
}

func TestDatasetStore(t *testing.T) {
	store := NewDatasetStore()
	assert.False(t, store.Loaded())
	assert.Nil(t, store.Get())

	svc := NewAnalysisService(nil, nil)
	first, err := svc.Load(context.Background(), sampleRows())
	require.NoError(t, err)
	store.Set(first)
	assert.True(t, store.Loaded())
	assert.Equal(t, 2, store.Get().Len())

	// A new load replaces the dataset wholesale.
	second, err := svc.Load(context.Background(), sampleRows()[:1])
	require.NoError(t, err)
	store.Set(second)
	assert.Equal(t, 1, store.Get().Len())
	assert.Same(t, second, store.Get())
}
