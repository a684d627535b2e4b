// Package classify assigns equipment type, fault location and failure cause
// labels to work orders. All classification is stateless and deterministic:
// the labels are pure functions of the equipment key and descriptive text.
package classify

import (
	"strings"

	"craneview/pkg/contracts/domain"
)

// EquipmentTypeOf derives the equipment family from the raw equipment key.
func EquipmentTypeOf(equipmentKey string) domain.EquipmentType {
	key := strings.ToUpper(equipmentKey)
	switch {
	case strings.Contains(key, "STS"):
		return domain.EquipmentSTSCrane
	case strings.Contains(key, "SPS"), strings.Contains(key, "SPR"):
		return domain.EquipmentSpreader
	default:
		return domain.EquipmentOther
	}
}

// locationRule maps a 3-letter subsystem infix inside the equipment key to a
// fault location. Rules are checked in declaration order, first match wins.
type locationRule struct {
	infix    string
	location domain.FaultLocation
}

var locationRules = []locationRule{
	{"MNH", domain.LocationHoist},
	{"BMH", domain.LocationBoom},
	{"HDB", domain.LocationHeadBlock},
	{"GAN", domain.LocationGantry},
	{"ELE", domain.LocationElectrical},
	{"TRL", domain.LocationTrolley},
	{"LIG", domain.LocationLighting},
	{"CAB", domain.LocationOperatorCabin},
	{"HYD", domain.LocationHydraulic},
	{"FES", domain.LocationFestoon},
	{"ELV", domain.LocationElevator},
	{"TRM", domain.LocationTLS},
	{"TLS", domain.LocationTLS},
	{"SLE", domain.LocationMachineRoom},
}

// FaultLocationOf derives the fault location from the subsystem infix of the
// equipment key.
func FaultLocationOf(equipmentKey string) domain.FaultLocation {
	key := strings.ToUpper(equipmentKey)
	for _, rule := range locationRules {
		if strings.Contains(key, rule.infix) {
			return rule.location
		}
	}
	return domain.LocationOther
}

// FailureCauseOf derives the failure cause label from the work order name and
// description. It evaluates the cause rule table in declaration order against
// the uppercased concatenation of both fields; the first matching rule wins.
// An empty return means no rule matched; callers surface it as Unknown.
func FailureCauseOf(name, description string) string {
	text := strings.ToUpper(name + " " + description)
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, rule := range causeRules {
		for _, sub := range rule.substrings {
			if strings.Contains(text, sub) {
				return rule.label
			}
		}
	}
	return ""
}

// Enrich classifies a work order in place. It never fails: if anything goes
// wrong classifying a single row the affected labels fall back to
// Other/Unknown rather than aborting the batch.
func Enrich(wo *domain.WorkOrder) {
	defer func() {
		if r := recover(); r != nil {
			if wo.EquipmentType == "" {
				wo.EquipmentType = domain.EquipmentOther
			}
			if wo.FaultLocation == "" {
				wo.FaultLocation = domain.LocationOther
			}
			if wo.FailureCause == "" {
				wo.FailureCause = domain.UnknownLabel
			}
		}
	}()

	wo.EquipmentType = EquipmentTypeOf(wo.EquipmentKey)
	wo.FaultLocation = FaultLocationOf(wo.EquipmentKey)
	if cause := FailureCauseOf(wo.Name, wo.Description); cause != "" {
		wo.FailureCause = cause
	} else {
		wo.FailureCause = domain.UnknownLabel
	}
}
