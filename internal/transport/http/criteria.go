package http

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"craneview/internal/dates"
	"craneview/internal/filter"
)

// weekBucketRe matches week-bucket bounds such as "2024-W24".
var weekBucketRe = regexp.MustCompile(`^\d{4}-W\d{1,2}$`)

// criteriaFromQuery builds a filter criteria set from URL query parameters.
// Date bounds accept the formats the date normalizer accepts plus
// "{year}-W{week}" buckets; list parameters accept repeated keys and
// comma-separated values.
func criteriaFromQuery(q url.Values) (filter.Criteria, error) {
	var c filter.Criteria
	var err error

	if c.OrderDateFrom, err = dateParam(q, "order_date_from", false); err != nil {
		return c, err
	}
	if c.OrderDateTo, err = dateParam(q, "order_date_to", true); err != nil {
		return c, err
	}
	if c.ExecDateFrom, err = dateParam(q, "exec_date_from", false); err != nil {
		return c, err
	}
	if c.ExecDateTo, err = dateParam(q, "exec_date_to", true); err != nil {
		return c, err
	}

	c.JobTypes = listParam(q, "job_types")
	c.Statuses = listParam(q, "statuses")
	c.FaultLocations = listParam(q, "fault_locations")
	c.EquipmentTypes = listParam(q, "equipment_types")
	c.CostPurposes = listParam(q, "cost_purposes")
	c.FailureCauses = listParam(q, "failure_causes")

	return c, nil
}

// dateParam reads a single date bound. A week bucket expands to its
// calendar range: the Monday for a from-bound, the Sunday for a to-bound,
// so a range given as week buckets stays inclusive of both whole weeks.
func dateParam(q url.Values, key string, weekEnd bool) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	if weekBucketRe.MatchString(raw) {
		monday, sunday, err := dates.WeekRange(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", key, raw)
		}
		if weekEnd {
			return &sunday, nil
		}
		return &monday, nil
	}
	t, err := dates.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &t, nil
}

func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
