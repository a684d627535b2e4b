package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneview/pkg/contracts/domain"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(nil)
}

func row(index int, fields map[string]any) Row {
	return Row{Fields: fields, Index: index, Source: SourceActive}
}

func TestNormalize_FullRow(t *testing.T) {
	n := newTestNormalizer()

	orders, err := n.Normalize([]Row{row(0, map[string]any{
		"WO_KEY":      "1001",
		"WO_NAME":     "Hoist brake worn",
		"DESCRIPTION": "replace pads",
		"MO_KEY":      "sts06-mnh-01",
		"JOBTYPE":     "CM",
		"ETATJOB":     "TER",
		"ORDER_DATE":  "01/02/2024",
		"JOBEXEC_DT":  "05/02/2024",
	})})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	wo := orders[0]
	assert.Equal(t, "1001", wo.Key)
	assert.Equal(t, "STS06-MNH-01", wo.EquipmentKey)
	assert.Equal(t, "STS06", wo.EquipmentName)
	assert.Equal(t, domain.EquipmentSTSCrane, wo.EquipmentType)
	assert.Equal(t, domain.LocationHoist, wo.FaultLocation)
	assert.Equal(t, "Hoist Service Brake", wo.FailureCause)
	assert.Equal(t, "CM", wo.JobTypeCode)
	assert.Equal(t, "TER", wo.StatusCode)
	assert.Equal(t, SourceActive, wo.Source)
	require.NotNil(t, wo.OrderDate)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *wo.OrderDate)
	require.NotNil(t, wo.ExecutionDate)

	days, ok := wo.ProcessingDays()
	require.True(t, ok)
	assert.InDelta(t, 4.0, days, 0.001)
}

func TestNormalize_SynthesizedFields(t *testing.T) {
	n := newTestNormalizer()

	orders, err := n.Normalize([]Row{row(3, map[string]any{
		"mo_key": "STS02-GAN-01",
	})})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	wo := orders[0]
	assert.Equal(t, "WO280003", wo.Key)
	assert.Equal(t, "Work Order 280003", wo.Name)
	assert.Equal(t, "Repair", wo.JobTypeCode)
	assert.Equal(t, "Corrective", wo.CostPurpose)
	assert.Nil(t, wo.OrderDate)
	assert.Nil(t, wo.ExecutionDate)
	assert.False(t, wo.Closed())
}

func TestNormalize_DropsOutOfScopeEquipment(t *testing.T) {
	n := newTestNormalizer()

	orders, err := n.Normalize([]Row{
		row(0, map[string]any{"wo_key": "1", "mo_key": "STS04-TRL"}),
		row(1, map[string]any{"wo_key": "2", "mo_key": "RTG09-ENG"}),
		row(2, map[string]any{"wo_key": "3", "mo_key": "BERTH-CONV"}),
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1", orders[0].Key)
}

func TestNormalize_SpreaderNumberBand(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		key  string
		kept bool
	}{
		{"SPR05-TWL", true},   // below the reserved band
		{"SPR099", true},      // upper edge of the low range
		{"SPR100-GEN", false}, // reserved band start
		{"SPR150", false},
		{"SPR200", false}, // reserved band end
		{"SPR201", true},
		{"SPS214-TWL", true},
		{"SPR-NODIGITS", false}, // unreadable number cannot be placed
	}

	for _, tt := range tests {
		orders, err := n.Normalize([]Row{row(0, map[string]any{"wo_key": "1", "mo_key": tt.key})})
		if tt.kept {
			require.NoError(t, err, "key %q", tt.key)
			require.Len(t, orders, 1, "key %q", tt.key)
			assert.Equal(t, domain.EquipmentSpreader, orders[0].EquipmentType)
		} else {
			assert.ErrorIs(t, err, ErrNoValidRows, "key %q", tt.key)
		}
	}
}

func TestNormalize_SpreaderPrefixLength(t *testing.T) {
	n := newTestNormalizer()

	orders, err := n.Normalize([]Row{row(0, map[string]any{"wo_key": "1", "mo_key": "SPR214-TWL02"})})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "SPR214", orders[0].EquipmentName)
}

func TestNormalize_SourceTagging(t *testing.T) {
	n := newTestNormalizer()

	orders, err := n.Normalize([]Row{
		{Fields: map[string]any{"wo_key": "1", "mo_key": "STS01"}, Index: 0, Source: "active"},
		{Fields: map[string]any{"wo_key": "2", "mo_key": "STS01"}, Index: 1, Source: "History"},
		{Fields: map[string]any{"wo_key": "3", "mo_key": "STS01"}, Index: 2, Source: ""},
	})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, SourceActive, orders[0].Source)
	assert.Equal(t, SourceHistory, orders[1].Source)
	assert.Equal(t, SourceActive, orders[2].Source)
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.Normalize(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestNormalize_NothingSurvives(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.Normalize([]Row{row(0, map[string]any{"wo_key": "1", "mo_key": "RMG07"})})
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestNormalize_AliasPrecedence(t *testing.T) {
	n := newTestNormalizer()

	// wo_key precedes the bare key alias; equipement (the legacy spelling)
	// is accepted for the equipment key.
	orders, err := n.Normalize([]Row{row(0, map[string]any{
		"wo_key":     "primary",
		"key":        "secondary",
		"equipement": "STS07-ELE",
	})})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "primary", orders[0].Key)
	assert.Equal(t, "STS07-ELE", orders[0].EquipmentKey)
}

func TestNormalize_BlankStringsFallThrough(t *testing.T) {
	n := newTestNormalizer()

	orders, err := n.Normalize([]Row{row(0, map[string]any{
		"wo_key":     "  ",
		"key":        "fallback",
		"mo_key":     "STS05",
		"order_date": "   ",
	})})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "fallback", orders[0].Key)
	assert.Nil(t, orders[0].OrderDate)
}
