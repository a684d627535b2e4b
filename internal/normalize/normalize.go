// Package normalize maps raw spreadsheet rows onto canonical work order
// records. It owns the accepted source field schema, identifier synthesis for
// incomplete rows, and the equipment scoping rules that decide whether a row
// belongs to the analyzed fleet at all.
package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"

	"craneview/internal/classify"
	"craneview/internal/dates"
	"craneview/pkg/contracts/domain"
)

// Whole-collection failures. Dropped rows and malformed fields are not
// errors; only an input that yields nothing to analyze is.
var (
	ErrNoData      = errors.New("no data provided")
	ErrNoValidRows = errors.New("no valid rows after normalization")
)

// keyBase is the synthetic identifier base for rows that arrive without a
// work order key.
const keyBase = 280000

// SourceActive and SourceHistory tag which sheet a row came from.
const (
	SourceActive  = "active"
	SourceHistory = "history"
)

// Row is one raw record: an arbitrary field-name to value mapping plus its
// position in the source and the sheet it came from.
type Row struct {
	Fields map[string]any
	Index  int
	Source string
}

// fieldAliases declares, per canonical field, the accepted source column
// names in precedence order. Lookups are case-insensitive.
var fieldAliases = map[string][]string{
	"key":            {"wo_key", "key", "id"},
	"name":           {"wo_name", "name", "title"},
	"description":    {"description", "wo_description", "desc"},
	"equipment_key":  {"mo_key", "equipement", "equipment", "equipment_key"},
	"job_type":       {"job_type", "jobtype", "type"},
	"cost_purpose":   {"cost_purpose_key", "cost_purpose", "purpose"},
	"status":         {"etatjob", "status", "statut"},
	"order_date":     {"order_date", "orderdate", "creation_date", "created"},
	"execution_date": {"jobexec_dt", "execution_date", "exec_date", "closed_date"},
}

// Normalizer converts raw rows into classified work orders.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a row normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With(slog.String("component", "normalizer"))}
}

// Normalize turns a raw row sequence into the canonical, classified work
// order collection. Rows for equipment outside the analyzed families are
// dropped silently; a single malformed row never fails the batch. It returns
// ErrNoData for an empty input and ErrNoValidRows when nothing survives.
func (n *Normalizer) Normalize(rows []Row) ([]domain.WorkOrder, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	orders := make([]domain.WorkOrder, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		wo, keep := n.normalizeRow(row)
		if !keep {
			dropped++
			continue
		}
		classify.Enrich(&wo)
		orders = append(orders, wo)
	}

	n.logger.Info("normalized raw rows",
		slog.Int("input_rows", len(rows)),
		slog.Int("work_orders", len(orders)),
		slog.Int("dropped", dropped))

	if len(orders) == 0 {
		return nil, ErrNoValidRows
	}
	return orders, nil
}

// normalizeRow maps a single raw row onto a WorkOrder. The second return is
// false when the row is out of scope and must be dropped.
func (n *Normalizer) normalizeRow(row Row) (wo domain.WorkOrder, keep bool) {
	defer func() {
		// A single malformed row must not abort the batch; fall back to
		// defaulted labels instead.
		if r := recover(); r != nil {
			n.logger.Warn("row normalization recovered",
				slog.Int("index", row.Index), slog.Any("cause", r))
			wo, keep = domain.WorkOrder{}, false
		}
	}()

	fields := lowerKeys(row.Fields)
	seq := keyBase + row.Index

	wo = domain.WorkOrder{
		Key:         stringField(fields, "key", fmt.Sprintf("WO%d", seq)),
		Name:        stringField(fields, "name", fmt.Sprintf("Work Order %d", seq)),
		Description: stringField(fields, "description", fmt.Sprintf("Description for WO %d", seq)),
		JobTypeCode: stringField(fields, "job_type", "Repair"),
		CostPurpose: stringField(fields, "cost_purpose", "Corrective"),
		StatusCode:  stringField(fields, "status", ""),
		Source:      sourceTag(row.Source),
	}

	wo.EquipmentKey = strings.ToUpper(stringField(fields, "equipment_key", placeholderEquipmentKey()))

	name, ok := equipmentName(wo.EquipmentKey)
	if !ok {
		return domain.WorkOrder{}, false
	}
	wo.EquipmentName = name

	wo.OrderDate = dates.ParseOrNil(rawField(fields, "order_date"))
	wo.ExecutionDate = dates.ParseOrNil(rawField(fields, "execution_date"))

	return wo, true
}

// equipmentName derives the fixed-length unit prefix from the equipment key.
// STS crane keys take a 5 character prefix, spreader keys a 6 character
// prefix gated by the spreader number rule. Any other key denotes equipment
// outside the analyzed fleet and the row is dropped.
func equipmentName(key string) (string, bool) {
	switch {
	case strings.Contains(key, "STS"):
		return prefix(key, 5), true
	case strings.Contains(key, "SPR"), strings.Contains(key, "SPS"):
		if !validSpreaderNumber(key) {
			return "", false
		}
		return prefix(key, 6), true
	default:
		return "", false
	}
}

// validSpreaderNumber extracts the digits immediately following the SPR/SPS
// tag. The 100-200 band is reserved for a retired fleet and excluded; a key
// without a readable number cannot be placed in or out of the band and is
// excluded as well.
func validSpreaderNumber(key string) bool {
	idx := strings.Index(key, "SPR")
	if idx < 0 {
		idx = strings.Index(key, "SPS")
	}
	if idx < 0 {
		return false
	}

	rest := key[idx+3:]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return false
	}
	num, err := strconv.Atoi(rest[:end])
	if err != nil {
		return false
	}
	return num < 100 || num > 200
}

func prefix(s string, length int) string {
	if len(s) < length {
		return s
	}
	return s[:length]
}

// placeholderEquipmentKey synthesizes an equipment key for rows that arrive
// without one, attributing them to a pseudo-random crane of the fleet.
func placeholderEquipmentKey() string {
	return fmt.Sprintf("STS%02d", rand.IntN(9)+1)
}

func sourceTag(source string) string {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceHistory:
		return SourceHistory
	default:
		return SourceActive
	}
}

func lowerKeys(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// rawField resolves a canonical field through the alias precedence list and
// returns the raw value, preserving numeric types for date parsing.
func rawField(fields map[string]any, canonical string) any {
	for _, alias := range fieldAliases[canonical] {
		if raw, ok := fields[alias]; ok && raw != nil {
			if s, isStr := raw.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return raw
		}
	}
	return nil
}

// stringField resolves a canonical field through the alias precedence list,
// falling back to def when every alias is absent or blank.
func stringField(fields map[string]any, canonical, def string) string {
	for _, alias := range fieldAliases[canonical] {
		if raw, ok := fields[alias]; ok {
			if s := strings.TrimSpace(toString(raw)); s != "" {
				return s
			}
		}
	}
	return def
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
