package domain

// TopEntry is the highest-frequency value of a category distribution.
type TopEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Kpis holds the scalar indicators computed over a work order collection.
type Kpis struct {
	Total             int      `json:"total"`
	ClosedCount       int      `json:"closed_count"`
	PendingCount      int      `json:"pending_count"`
	AvgProcessingDays float64  `json:"avg_processing_days"`
	TopJobType        TopEntry `json:"top_job_type"`
	TopStatus         TopEntry `json:"top_status"`

	// View-specific figures. Populated only by the view that defines them.
	MeanTimeToRepairDays float64 `json:"mttr_days,omitempty"`
	TopFailure           string  `json:"top_failure,omitempty"`
	TopLocation          string  `json:"top_location,omitempty"`
	MeanDowntimeHours    float64 `json:"mean_downtime_hours,omitempty"`
	MostAffected         string  `json:"most_affected_equipment,omitempty"`
}

// CountEntry is one category value with its occurrence count. Distributions
// that guarantee an ordering are represented as slices of CountEntry.
type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// SeriesPoint is one bucket of a weekly time series.
type SeriesPoint struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Charts holds the categorical distributions and time series consumed by
// the presentation layer. MonthlyCreated carries the same counts as
// WeeklyCreated rebucketed under "{year}-{month}-W{week}" keys, so
// month-scoped views can group weeks by calendar month.
type Charts struct {
	ByJobType       []CountEntry   `json:"by_job_type"`
	ByStatus        []CountEntry   `json:"by_status"`
	ByEquipmentType map[string]int `json:"by_equipment_type"`
	ByFaultLocation map[string]int `json:"by_fault_location"`
	ByFailureCause  map[string]int `json:"by_failure_cause"`
	TopFaults       []CountEntry   `json:"top_faults"`
	WeeklyCreated   []SeriesPoint  `json:"weekly_created"`
	WeeklyClosed    []SeriesPoint  `json:"weekly_closed"`
	MonthlyCreated  []SeriesPoint  `json:"monthly_created"`
}

// Insight is a threshold-driven textual finding derived from the aggregates.
type Insight struct {
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
}

// AnalysisResult is the full output contract of one pipeline run: the
// classified collection plus the KPIs and chart data derived from it.
type AnalysisResult struct {
	Data     []WorkOrder `json:"data"`
	Kpis     Kpis        `json:"kpis"`
	Charts   Charts      `json:"charts"`
	Insights []Insight   `json:"insights,omitempty"`
	View     string      `json:"view"`
}
