package analytics

import (
	"fmt"

	"craneview/pkg/contracts/domain"
)

// Insight severities.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
)

// BuildInsights derives threshold-driven maintenance findings from the
// aggregates. Findings are advisory text for the dashboard, not part of the
// KPI contract.
func BuildInsights(kpis domain.Kpis, charts domain.Charts) []domain.Insight {
	var insights []domain.Insight

	corrective := 0
	preventive := 0
	for _, entry := range charts.ByJobType {
		switch entry.Key {
		case "C", "CM":
			corrective += entry.Count
		case "PM", "P":
			preventive += entry.Count
		}
	}

	if preventive > 0 {
		ratio := float64(corrective) / float64(preventive)
		switch {
		case ratio > 3:
			insights = append(insights, domain.Insight{
				Severity: SeverityWarning,
				Title:    "High Corrective Maintenance Ratio",
				Message: fmt.Sprintf("Corrective to preventive ratio is %.1f:1 across %d work orders.",
					ratio, kpis.Total),
				Recommendation: "Expand preventive maintenance schedules to reduce reactive work.",
			})
		case ratio < 1:
			insights = append(insights, domain.Insight{
				Severity: SeveritySuccess,
				Title:    "Good Preventive Maintenance Balance",
				Message: fmt.Sprintf("Corrective to preventive ratio is %.1f:1.",
					ratio),
				Recommendation: "Continue the current maintenance strategy.",
			})
		}
	}

	if kpis.Total > 0 {
		pendingPct := float64(kpis.PendingCount) / float64(kpis.Total) * 100
		if pendingPct > 50 {
			insights = append(insights, domain.Insight{
				Severity: SeverityWarning,
				Title:    "High Pending Backlog",
				Message: fmt.Sprintf("%.1f%% of work orders have no execution date yet.",
					pendingPct),
				Recommendation: "Review execution scheduling and parts availability.",
			})
		}
	}

	if len(charts.TopFaults) > 0 {
		top := charts.TopFaults[0]
		if top.Key != domain.UnknownLabel && kpis.Total > 0 {
			insights = append(insights, domain.Insight{
				Severity: SeverityInfo,
				Title:    "Dominant Failure Cause",
				Message: fmt.Sprintf("%q is the most frequent failure cause (%d of %d work orders).",
					top.Key, top.Count, kpis.Total),
				Recommendation: fmt.Sprintf("Consider a focused reliability program targeting %s faults.", top.Key),
			})
		}
	}

	return insights
}
