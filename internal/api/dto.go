package api

import (
	"time"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateTaxResponse is the body returned by POST /api/calculateTax
type CalculateTaxResponse struct {
	Status          string                 `json:"status"`
	CalculationID   string                 `json:"calculation_id"`
	GeneratedAt     time.Time              `json:"generated_at"`
	OptimalRegime   domain.Regime          `json:"optimal_regime"`
	OldRegime       domain.OldRegimeResult `json:"old_regime"`
	NewRegime       domain.NewRegimeResult `json:"new_regime"`
	OptimalOldTax   decimal.Decimal        `json:"optimal_old_regime_tax"`
	Advantage       decimal.Decimal        `json:"advantage"`
	Suggestions     []domain.Suggestion    `json:"optimization_suggestions"`
	Recommendations []string               `json:"recommendations"`
}

func newCalculateTaxResponse(report *domain.TaxReport) CalculateTaxResponse {
	suggestions := report.Suggestions
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	return CalculateTaxResponse{
		Status:          "success",
		CalculationID:   report.CalculationID,
		GeneratedAt:     report.GeneratedAt,
		OptimalRegime:   report.Comparison.OptimalRegime,
		OldRegime:       report.Comparison.Old,
		NewRegime:       report.Comparison.New,
		OptimalOldTax:   report.Comparison.OptimalOldTax,
		Advantage:       report.Comparison.Advantage,
		Suggestions:     suggestions,
		Recommendations: report.Recommendations,
	}
}

// report rebuilds the parts of a TaxReport the CSV formatter reads
func (r CalculateTaxResponse) report() *domain.TaxReport {
	return &domain.TaxReport{
		CalculationID: r.CalculationID,
		GeneratedAt:   r.GeneratedAt,
		Comparison: domain.RegimeComparison{
			OptimalRegime: r.OptimalRegime,
			Old:           r.OldRegime,
			New:           r.NewRegime,
			OptimalOldTax: r.OptimalOldTax,
			Advantage:     r.Advantage,
		},
		Suggestions:     r.Suggestions,
		Recommendations: r.Recommendations,
	}
}

// DownloadReportRequest carries either a previous calculation result or a
// profile to calculate from.
type DownloadReportRequest struct {
	TaxData *CalculateTaxResponse   `json:"tax_data,omitempty"`
	Profile *domain.TaxpayerProfile `json:"profile,omitempty"`
}

// SlabsResponse lists the tables served for one assessment year
type SlabsResponse struct {
	AssessmentYear string             `json:"assessment_year"`
	Tables         []domain.SlabTable `json:"tables"`
}

// HealthResponse reports server readiness
type HealthResponse struct {
	Status     string   `json:"status"`
	Years      []string `json:"years"`
	Generation uint64   `json:"generation"`
	Cache      string   `json:"cache,omitempty"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
