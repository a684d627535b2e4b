// Package views defines the three analysis views a dashboard can switch
// between. A view is a sub-population predicate plus a KPI profile; switching
// views recomputes from the currently filtered collection, there is no cached
// per-view state.
package views

import (
	"context"
	"fmt"
	"strings"

	"craneview/internal/analytics"
	"craneview/pkg/contracts/domain"
)

// View selects one of the named analysis angles.
type View string

const (
	General    View = "general"
	Corrective View = "corrective"
	Breakdown  View = "breakdown"
)

// correctiveJobTypes and breakdownJobTypes define the sub-populations of the
// non-general views by job type code.
var (
	correctiveJobTypes = map[string]bool{"C": true, "CM": true, "INSP": true}
	breakdownJobTypes  = map[string]bool{"BDN": true, "U": true}
)

// Parse resolves a view name. The empty string selects the General view;
// anything unrecognized is an error.
func Parse(name string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(name))) {
	case "", General:
		return General, nil
	case Corrective:
		return Corrective, nil
	case Breakdown:
		return Breakdown, nil
	default:
		return "", fmt.Errorf("unknown view %q", name)
	}
}

// Population returns the sub-population of orders the view analyzes. The
// General view is the identity.
func (v View) Population(orders []domain.WorkOrder) []domain.WorkOrder {
	var accept map[string]bool
	switch v {
	case Corrective:
		accept = correctiveJobTypes
	case Breakdown:
		accept = breakdownJobTypes
	default:
		return orders
	}

	sub := make([]domain.WorkOrder, 0, len(orders))
	for i := range orders {
		if accept[orders[i].JobTypeCode] {
			sub = append(sub, orders[i])
		}
	}
	return sub
}

// Project applies the view's population predicate and runs the aggregator
// over the sub-population, then fills in the view-specific figures of its
// KPI profile.
func Project(ctx context.Context, agg *analytics.Aggregator, orders []domain.WorkOrder, v View) (domain.Kpis, domain.Charts, []domain.WorkOrder) {
	population := v.Population(orders)
	kpis, charts := agg.Summarize(ctx, population)

	switch v {
	case Corrective:
		// Mean time to repair over the corrective sub-population, plus the
		// dominant failure cause and fault location.
		kpis.MeanTimeToRepairDays = kpis.AvgProcessingDays
		kpis.TopFailure = topKey(charts.TopFaults)
		kpis.TopLocation = topOfMap(charts.ByFaultLocation, population, locationKey)
	case Breakdown:
		kpis.MeanDowntimeHours = kpis.AvgProcessingDays * 24
		kpis.MostAffected = mostAffectedEquipment(population)
	}

	return kpis, charts, population
}

func topKey(entries []domain.CountEntry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Key
}

// topOfMap finds the highest-count key of a distribution, breaking ties by
// first occurrence in the population.
func topOfMap(counts map[string]int, population []domain.WorkOrder, key func(*domain.WorkOrder) string) string {
	best, bestCount := "", 0
	seen := map[string]bool{}
	for i := range population {
		k := key(&population[i])
		if seen[k] {
			continue
		}
		seen[k] = true
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

func locationKey(wo *domain.WorkOrder) string {
	return string(wo.FaultLocation)
}

// mostAffectedEquipment returns the equipment unit with the most work orders
// in the population, ties broken by first occurrence.
func mostAffectedEquipment(population []domain.WorkOrder) string {
	counts := map[string]int{}
	order := []string{}
	for i := range population {
		name := population[i].EquipmentName
		if name == "" {
			name = population[i].EquipmentKey
		}
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}

	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
