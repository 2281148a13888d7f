package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/rgehrsitz/taxsavvy/internal/inr"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the comparison, ledger and suggestions as a plain text report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	var buf bytes.Buffer
	cmp := report.Comparison

	rule := strings.Repeat("=", 78)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "INCOME TAX REGIME COMPARISON (AY %s)\n", cmp.Old.AssessmentYear)
	fmt.Fprintln(&buf, rule)
	if cmp.Old.DefaultSlabs || cmp.New.DefaultSlabs {
		fmt.Fprintf(&buf, "NOTE: requested year %q not found, built-in tables used\n", report.Profile.AssessmentYear)
	}
	fmt.Fprintf(&buf, "Gross Income: %s\n", inr.Format(cmp.Old.GrossIncome))
	fmt.Fprintf(&buf, "Age: %d\n\n", report.Profile.Age)

	writeRegimeTable(&buf, cmp)

	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Optimal old regime tax (all headroom used): %s\n", inr.Format(cmp.OptimalOldTax))
	fmt.Fprintf(&buf, "RECOMMENDED: %s (advantage %s)\n\n", strings.ToUpper(RegimeName(cmp.OptimalRegime)), inr.Format(cmp.Advantage))

	writeLedger(&buf, cmp.Old.Ledger)
	writeSuggestions(&buf, report.Suggestions)

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(&buf, "SUMMARY")
		fmt.Fprintln(&buf, strings.Repeat("-", 7))
		for _, r := range report.Recommendations {
			fmt.Fprintf(&buf, "• %s\n", r)
		}
	}
	return buf.Bytes(), nil
}

func writeRegimeTable(buf *bytes.Buffer, cmp domain.RegimeComparison) {
	row := func(label string, oldAmount, newAmount decimal.Decimal) {
		fmt.Fprintf(buf, "%-22s %18s %18s\n", label, inr.Format(oldAmount), inr.Format(newAmount))
	}
	fmt.Fprintf(buf, "%-22s %18s %18s\n", "", RegimeName(domain.OldRegime), RegimeName(domain.NewRegime))
	row("Deductions", cmp.Old.TotalDeductions, cmp.New.StandardDeduction)
	row("Taxable Income", cmp.Old.TaxableIncome, cmp.New.TaxableIncome)
	row("Basic Tax", cmp.Old.BasicTax, cmp.New.BasicTax)
	row("Surcharge", cmp.Old.Surcharge, cmp.New.Surcharge)
	row("Cess", cmp.Old.Cess, cmp.New.Cess)
	row("Total Tax", cmp.Old.Tax, cmp.New.Tax)
}

func writeLedger(buf *bytes.Buffer, ledger domain.Ledger) {
	fmt.Fprintln(buf, "DEDUCTION LEDGER (old regime)")
	fmt.Fprintln(buf, strings.Repeat("-", 29))
	if ledger.Len() == 0 {
		fmt.Fprintln(buf, "No deductions claimed")
		fmt.Fprintln(buf)
		return
	}
	fmt.Fprintf(buf, "%-22s %16s %22s %16s %14s\n", "Section", "Used", "Limit", "Remaining", "Saving if full")
	for _, e := range ledger.Entries() {
		remaining := notApplicable
		if e.RemainingCapacity.Valid {
			remaining = inr.Format(e.RemainingCapacity.Decimal)
		}
		limit := e.Limit.String()
		if e.Limit.IsFixed() {
			limit = inr.Format(e.Limit.Amount)
		}
		fmt.Fprintf(buf, "%-22s %16s %22s %16s %14s\n",
			e.Section, inr.Format(e.Used), limit, remaining, inr.Format(e.EstimatedSavingIfFullyUsed))
	}
	fmt.Fprintf(buf, "%-22s %16s\n\n", "Total", inr.Format(ledger.TotalUsed()))
}

func writeSuggestions(buf *bytes.Buffer, suggestions []domain.Suggestion) {
	fmt.Fprintln(buf, "OPTIMIZATION SUGGESTIONS")
	fmt.Fprintln(buf, strings.Repeat("-", 24))
	if len(suggestions) == 0 {
		fmt.Fprintln(buf, "Every deduction is already fully used")
		fmt.Fprintln(buf)
		return
	}
	for i, s := range suggestions {
		fmt.Fprintf(buf, "%d. [%s] %s\n", i+1, s.Section, s.Action)
	}
	fmt.Fprintln(buf)
}
