package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/rgehrsitz/taxsavvy/internal/inr"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   inr.Format,
	"pct":    inr.Percent,
	"regime": RegimeName,
	"remaining": func(n decimal.NullDecimal) string {
		if !n.Valid {
			return notApplicable
		}
		return inr.Format(n.Decimal)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.TaxReport
		Ledger []domain.LedgerEntry
	}{report, report.Comparison.Old.Ledger.Entries()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
