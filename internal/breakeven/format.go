package breakeven

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxsavvy/internal/inr"
)

// TableFormatter formats a break-even result for the console
type TableFormatter struct{}

// Format generates a plain-text summary of the result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("REGIME BREAK-EVEN\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Old regime tax:       %s\n", inr.Format(result.OldTax)))
	sb.WriteString(fmt.Sprintf("New regime tax:       %s\n", inr.Format(result.NewTax)))
	sb.WriteString(fmt.Sprintf("Unused headroom:      %s\n", inr.Format(result.AvailableHeadroom)))
	sb.WriteString("\n")

	switch result.Status {
	case StatusAlreadyOld:
		sb.WriteString("The old regime is already cheaper with your current deductions.\n")
	case StatusUnreachable:
		sb.WriteString("No amount of old-regime deductions brings the tax below the new regime.\n")
	default:
		sb.WriteString(fmt.Sprintf("Extra deduction needed: %s\n", inr.Format(result.RequiredDeduction)))
		sb.WriteString(fmt.Sprintf("Old regime tax then:    %s\n", inr.Format(result.OldTaxAtBreakEven)))
		if result.Status == StatusReachable {
			sb.WriteString("Your unused deduction headroom covers this gap.\n")
		} else {
			gap := result.RequiredDeduction.Sub(result.AvailableHeadroom)
			sb.WriteString(fmt.Sprintf("This exceeds your unused headroom by %s; the new regime stays cheaper.\n", inr.Format(gap)))
		}
	}
	return sb.String()
}
