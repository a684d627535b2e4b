package domain

import "fmt"

// jobTypeLabels maps short job type codes from the maintenance system to
// human readable labels.
var jobTypeLabels = map[string]string{
	"C":      "Corrective Maintenance",
	"CM":     "Corrective Maintenance",
	"PM":     "Preventive Maintenance",
	"P":      "Preventive Maintenance",
	"BDN":    "Breakdown",
	"B":      "Breakdown",
	"INSP":   "Inspection",
	"I":      "Inspection",
	"U":      "Unplanned/Urgent",
	"O":      "Operational",
	"L":      "Lubrication",
	"Repair": "General Repair",
}

// JobTypeLabel returns the human readable label for a job type code.
// Unknown codes are surfaced rather than hidden.
func JobTypeLabel(code string) string {
	if label, ok := jobTypeLabels[code]; ok {
		return label
	}
	if code == "" {
		return UnknownLabel
	}
	return fmt.Sprintf("Unknown (%s)", code)
}

// StatusInfo carries the short code and description for a work order status.
type StatusInfo struct {
	ShortCode   string `json:"short_code"`
	Description string `json:"description"`
}

// statusTable maps source status values, both the numeric codes emitted by
// the CMMS export and the legacy short codes, onto a fixed status set.
var statusTable = map[string]StatusInfo{
	"10":  {ShortCode: "INI", Description: "Initiated"},
	"20":  {ShortCode: "PLN", Description: "Planned"},
	"30":  {ShortCode: "SCH", Description: "Scheduled"},
	"40":  {ShortCode: "EXE", Description: "In Execution"},
	"50":  {ShortCode: "SUS", Description: "Suspended"},
	"60":  {ShortCode: "PRT", Description: "Partially Complete"},
	"70":  {ShortCode: "APC", Description: "Awaiting Parts/Completion"},
	"80":  {ShortCode: "TER", Description: "Terminated/Completed"},
	"90":  {ShortCode: "CLO", Description: "Closed"},
	"95":  {ShortCode: "CAN", Description: "Cancelled"},
	"INI": {ShortCode: "INI", Description: "Initiated"},
	"EXE": {ShortCode: "EXE", Description: "In Execution"},
	"TER": {ShortCode: "TER", Description: "Terminated/Completed"},
	"PRT": {ShortCode: "PRT", Description: "Partially Complete"},
	"APC": {ShortCode: "APC", Description: "Awaiting Parts/Completion"},
	"CLO": {ShortCode: "CLO", Description: "Closed"},
}

// StatusLookup resolves a raw status value to its StatusInfo. The second
// return is false for values outside the fixed table.
func StatusLookup(code string) (StatusInfo, bool) {
	info, ok := statusTable[code]
	return info, ok
}

// StatusLabel returns the status description for a raw status value, or the
// Unknown label when the value is absent from the table.
func StatusLabel(code string) string {
	if info, ok := statusTable[code]; ok {
		return info.Description
	}
	if code == "" {
		return UnknownLabel
	}
	return fmt.Sprintf("Unknown (%s)", code)
}
