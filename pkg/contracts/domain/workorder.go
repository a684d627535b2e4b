package domain

import (
	"time"
)

// WorkOrder is the canonical maintenance work order record produced by
// normalization. equipmentType, faultLocation and failureCause are derived
// once during enrichment and never mutated afterwards.
type WorkOrder struct {
	Key           string        `json:"key"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	EquipmentKey  string        `json:"equipment_key"`
	EquipmentName string        `json:"equipment_name,omitempty"`
	EquipmentType EquipmentType `json:"equipment_type"`
	FaultLocation FaultLocation `json:"fault_location"`
	JobTypeCode   string        `json:"job_type_code"`
	CostPurpose   string        `json:"cost_purpose"`
	StatusCode    string        `json:"status_code,omitempty"`
	FailureCause  string        `json:"failure_cause,omitempty"`
	OrderDate     *time.Time    `json:"order_date,omitempty"`
	ExecutionDate *time.Time    `json:"execution_date,omitempty"`
	Source        string        `json:"source,omitempty"`
}

// Closed reports whether the work order has been executed. A work order is
// closed once it carries an execution date, pending otherwise.
func (w *WorkOrder) Closed() bool {
	return w.ExecutionDate != nil
}

// ProcessingDays returns the elapsed whole days between order and execution
// date. The second return is false when either date is missing or the span
// is negative; such orders are excluded from processing-time averages.
func (w *WorkOrder) ProcessingDays() (float64, bool) {
	if w.OrderDate == nil || w.ExecutionDate == nil {
		return 0, false
	}
	days := w.ExecutionDate.Sub(*w.OrderDate).Hours() / 24
	if days < 0 {
		return 0, false
	}
	return days, true
}

// EquipmentType identifies the equipment family a work order belongs to.
type EquipmentType string

const (
	EquipmentSTSCrane EquipmentType = "STS Crane"
	EquipmentSpreader EquipmentType = "Spreader"
	EquipmentOther    EquipmentType = "Other"
)

// FaultLocation identifies the crane subsystem a work order targets.
type FaultLocation string

const (
	LocationHoist         FaultLocation = "Hoist"
	LocationBoom          FaultLocation = "Boom"
	LocationHeadBlock     FaultLocation = "Head Block"
	LocationGantry        FaultLocation = "Gantry"
	LocationElectrical    FaultLocation = "Electrical"
	LocationTrolley       FaultLocation = "Trolley"
	LocationLighting      FaultLocation = "Lighting"
	LocationOperatorCabin FaultLocation = "Operator Cabin"
	LocationHydraulic     FaultLocation = "Hydraulic"
	LocationFestoon       FaultLocation = "Festoon"
	LocationElevator      FaultLocation = "Elevator"
	LocationTLS           FaultLocation = "TLS"
	LocationMachineRoom   FaultLocation = "Machine Room"
	LocationOther         FaultLocation = "Other"
)

// UnknownLabel is the category key used wherever a source value is absent or
// no classification rule matched.
const UnknownLabel = "Unknown"

// Dataset is an immutable, fully classified work order collection. A load
// produces a fresh Dataset; filtering and view selection only derive subsets
// and never mutate the base slice.
type Dataset struct {
	Orders   []WorkOrder `json:"orders"`
	LoadedAt time.Time   `json:"loaded_at"`
	Sources  []string    `json:"sources,omitempty"`
}

// Len returns the number of work orders in the dataset.
func (d *Dataset) Len() int {
	return len(d.Orders)
}
