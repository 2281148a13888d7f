package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// ReportFilename is the suggested download name for the CSV report
	ReportFilename = "tax_report.csv"
	CSVContentType = "text/csv"
)

const notApplicable = "N/A"

// CSVReport writes the deduction ledger followed by the optimization suggestions
type CSVReport struct{}

func (c CSVReport) Name() string { return "csv" }

func (c CSVReport) Format(report *domain.TaxReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	rows := [][]string{{
		"Deduction Section", "Used Amount", "Limit", "Remaining Capacity",
		"Estimated Tax Saving (Full Use)", "Tax Saved (Used Approx.)",
	}}
	for _, e := range report.Comparison.Old.Ledger.Entries() {
		rows = append(rows, []string{
			e.Section,
			e.Used.StringFixed(2),
			e.Limit.String(),
			nullAmount(e.RemainingCapacity),
			e.EstimatedSavingIfFullyUsed.StringFixed(2),
			e.TaxSavedFromUsed.StringFixed(2),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"Optimization Suggestions"},
		[]string{"Deduction", "Current Investment", "Recommended Investment", "Potential Tax Saving", "Action"},
	)
	for _, s := range report.Suggestions {
		rows = append(rows, []string{
			s.Section,
			s.CurrentInvestment.StringFixed(2),
			optionalAmount(s.Headroom),
			optionalAmount(s.PotentialSaving),
			s.Action,
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return notApplicable
	}
	return d.Decimal.StringFixed(2)
}

// narrative suggestions carry no amount
func optionalAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return notApplicable
	}
	return d.StringFixed(2)
}
