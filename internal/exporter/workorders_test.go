package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneview/pkg/contracts/domain"
)

func sampleOrders() []domain.WorkOrder {
	order := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	exec := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	return []domain.WorkOrder{
		{
			Key:           "1001",
			Name:          "Hoist brake worn",
			Description:   "HOIST BRAKE pads replaced",
			EquipmentKey:  "STSG0001MNH002",
			EquipmentName: "STSG0",
			EquipmentType: domain.EquipmentSTSCrane,
			FaultLocation: domain.LocationHoist,
			JobTypeCode:   "CM",
			CostPurpose:   "Corrective",
			StatusCode:    "TER",
			FailureCause:  "Hoist Service Brake",
			OrderDate:     &order,
			ExecutionDate: &exec,
			Source:        "active",
		},
		{
			Key:           "1002",
			Name:          "Spreader twistlock",
			EquipmentName: "SPR05G",
			EquipmentType: domain.EquipmentSpreader,
			JobTypeCode:   "BDN",
			OrderDate:     &order,
			Source:        "active",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := NewWorkOrderExporter("", nil).WriteCSV(&buf, sampleOrders())
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "BOM prefix expected")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\xEF\xBB\xBF")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, workOrderHeaders, records[0])
	assert.Equal(t, "1001", records[1][0])
	assert.Equal(t, "Corrective Maintenance", records[1][6])
	assert.Equal(t, "01/02/2024", records[1][10])
	assert.Equal(t, "05/02/2024", records[1][11])
	assert.Equal(t, "4.00", records[1][12])

	// Open order has no execution date and no processing time.
	assert.Equal(t, "", records[2][11])
	assert.Equal(t, "", records[2][12])
}

func TestWriteJSON(t *testing.T) {
	result := &domain.AnalysisResult{
		Data: sampleOrders(),
		Kpis: domain.Kpis{Total: 2, ClosedCount: 1, PendingCount: 1},
		View: "general",
	}

	var buf bytes.Buffer
	require.NoError(t, NewWorkOrderExporter("", nil).WriteJSON(&buf, result))

	var decoded domain.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Kpis.Total)
	assert.Len(t, decoded.Data, 2)
}

func TestExportWorkOrders_FileOnDisk(t *testing.T) {
	dir := t.TempDir()
	e := NewWorkOrderExporter(dir, nil)

	require.NoError(t, e.ExportWorkOrders("population.csv", sampleOrders()))

	data, err := os.ReadFile(filepath.Join(dir, "population.csv"))
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "BOM prefix expected")
	assert.Contains(t, out, "Hoist Service Brake")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\xEF\xBB\xBF")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, workOrderHeaders, records[0])
}

func TestExportWorkOrders_StreamsLargeCollection(t *testing.T) {
	dir := t.TempDir()
	e := NewWorkOrderExporter(dir, nil)

	order := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]domain.WorkOrder, 500)
	for i := range orders {
		orders[i] = domain.WorkOrder{
			Key:           fmt.Sprintf("%d", 280000+i),
			Name:          "Routine check",
			EquipmentType: domain.EquipmentSTSCrane,
			JobTypeCode:   "INSP",
			StatusCode:    "TER",
			OrderDate:     &order,
		}
	}

	require.NoError(t, e.ExportWorkOrders("history.csv", orders))

	data, err := os.ReadFile(filepath.Join(dir, "history.csv"))
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 501, "header plus one row per order")
	assert.Equal(t, "280000", records[1][0])
	assert.Equal(t, "280499", records[500][0])
}

func TestExportSummary(t *testing.T) {
	dir := t.TempDir()
	e := NewWorkOrderExporter(dir, nil)

	kpis := domain.Kpis{
		Total:                10,
		ClosedCount:          7,
		PendingCount:         3,
		AvgProcessingDays:    3.5,
		TopJobType:           domain.TopEntry{Code: "CM", Label: "Corrective Maintenance", Count: 6},
		TopStatus:            domain.TopEntry{Code: "TER", Label: "Terminated", Count: 5},
		MeanTimeToRepairDays: 3.5,
		TopFailure:           "Hoist Service Brake",
		TopLocation:          "Hoist",
	}
	require.NoError(t, e.ExportSummary("summary.csv", kpis))

	data, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Total Work Orders,10")
	assert.Contains(t, out, "Avg Processing Days,3.50")
	assert.Contains(t, out, "Top Failure,Hoist Service Brake")
	assert.NotContains(t, out, "Most Affected", "breakdown figures absent when not set")
}
