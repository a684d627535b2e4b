// Package filter narrows a work order collection by a criteria set. Criteria
// combine with logical AND; the values inside one multi-value category
// combine with logical OR. An empty category list means "no constraint on
// this field", which is distinct from a list that excludes all observed
// values.
package filter

import (
	"strings"
	"time"

	"craneview/pkg/contracts/domain"
)

// Criteria is one filter request. Nil date bounds are no-ops on that side of
// the range; empty category lists pass every order through.
type Criteria struct {
	OrderDateFrom *time.Time `json:"order_date_from,omitempty"`
	OrderDateTo   *time.Time `json:"order_date_to,omitempty"`
	ExecDateFrom  *time.Time `json:"exec_date_from,omitempty"`
	ExecDateTo    *time.Time `json:"exec_date_to,omitempty"`

	JobTypes       []string `json:"job_types,omitempty"`
	Statuses       []string `json:"statuses,omitempty"`
	FaultLocations []string `json:"fault_locations,omitempty"`
	EquipmentTypes []string `json:"equipment_types,omitempty"`
	CostPurposes   []string `json:"cost_purposes,omitempty"`
	FailureCauses  []string `json:"failure_causes,omitempty"`
}

// Empty reports whether no criterion is active.
func (c Criteria) Empty() bool {
	return c.OrderDateFrom == nil && c.OrderDateTo == nil &&
		c.ExecDateFrom == nil && c.ExecDateTo == nil &&
		len(c.JobTypes) == 0 && len(c.Statuses) == 0 &&
		len(c.FaultLocations) == 0 && len(c.EquipmentTypes) == 0 &&
		len(c.CostPurposes) == 0 && len(c.FailureCauses) == 0
}

// Apply returns the subsequence of orders satisfying every active criterion.
// It never errors: filtering everything out is a valid, empty result.
func Apply(orders []domain.WorkOrder, c Criteria) []domain.WorkOrder {
	if c.Empty() {
		return orders
	}

	matched := make([]domain.WorkOrder, 0, len(orders))
	for i := range orders {
		if matches(&orders[i], c) {
			matched = append(matched, orders[i])
		}
	}
	return matched
}

func matches(wo *domain.WorkOrder, c Criteria) bool {
	if !dateInRange(wo.OrderDate, c.OrderDateFrom, c.OrderDateTo) {
		return false
	}
	if !dateInRange(wo.ExecutionDate, c.ExecDateFrom, c.ExecDateTo) {
		return false
	}
	return inList(wo.JobTypeCode, c.JobTypes) &&
		inList(wo.StatusCode, c.Statuses) &&
		inList(string(wo.FaultLocation), c.FaultLocations) &&
		inList(string(wo.EquipmentType), c.EquipmentTypes) &&
		inList(wo.CostPurpose, c.CostPurposes) &&
		inList(wo.FailureCause, c.FailureCauses)
}

// dateInRange checks an inclusive calendar range. A date that failed to
// parse never satisfies an active bound, but passes when neither bound is
// set.
func dateInRange(date, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if date == nil {
		return false
	}
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && date.After(*to) {
		return false
	}
	return true
}

func inList(value string, list []string) bool {
	if len(list) == 0 {
		return true
	}
	for _, candidate := range list {
		if strings.EqualFold(value, candidate) {
			return true
		}
	}
	return false
}
