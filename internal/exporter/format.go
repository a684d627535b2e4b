package exporter

import "fmt"

// formatFloat renders a float with two decimal places so values like 13.4
// appear as 13.40 in exports.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
