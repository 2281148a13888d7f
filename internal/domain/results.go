package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBreakdown layers the liability of one regime
type TaxBreakdown struct {
	BasicTax  decimal.Decimal `json:"basic_tax"`
	Surcharge decimal.Decimal `json:"surcharge"`
	Cess      decimal.Decimal `json:"cess"`
	Tax       decimal.Decimal `json:"tax"`
}

// OldRegimeResult is the outcome of the full deduction pipeline
type OldRegimeResult struct {
	TaxBreakdown
	GrossIncome     decimal.Decimal `json:"gross_income"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	Ledger          Ledger          `json:"deduction_breakdown"`
	AssessmentYear  string          `json:"assessment_year"`
	DefaultSlabs    bool            `json:"default_slabs"`
}

// NewRegimeResult is the outcome of the reduced new-regime pipeline
type NewRegimeResult struct {
	TaxBreakdown
	GrossIncome       decimal.Decimal `json:"gross_income"`
	StandardDeduction decimal.Decimal `json:"standard_deduction"`
	TaxableIncome     decimal.Decimal `json:"taxable_income"`
	AssessmentYear    string          `json:"assessment_year"`
	DefaultSlabs      bool            `json:"default_slabs"`
}

// RegimeComparison holds both regimes side by side.
// OptimalOldTax is the old-regime liability if every category headroom were used.
type RegimeComparison struct {
	OptimalRegime Regime          `json:"optimal_regime"`
	Old           OldRegimeResult `json:"old_regime"`
	New           NewRegimeResult `json:"new_regime"`
	OptimalOldTax decimal.Decimal `json:"optimal_old_regime_tax"`
	// Difference between the rejected and the chosen figure
	Advantage decimal.Decimal `json:"advantage"`
}

// SuggestionKind separates ledger-driven suggestions from narrative ones
type SuggestionKind string

const (
	SuggestionCapacity  SuggestionKind = "capacity"
	SuggestionNarrative SuggestionKind = "narrative"
)

// Suggestion is one actionable recommendation
type Suggestion struct {
	Kind              SuggestionKind  `json:"kind"`
	Section           string          `json:"deduction"`
	CurrentInvestment decimal.Decimal `json:"current_investment"`
	Headroom          decimal.Decimal `json:"recommended_investment"`
	PotentialSaving   decimal.Decimal `json:"potential_tax_saving"`
	Action            string          `json:"action"`
}

// TaxReport bundles a comparison and its suggestions for the outer layers.
type TaxReport struct {
	CalculationID string           `json:"calculation_id"`
	GeneratedAt   time.Time        `json:"generated_at"`
	Profile       TaxpayerProfile  `json:"profile"`
	Comparison    RegimeComparison `json:"comparison"`
	Suggestions   []Suggestion     `json:"optimization_suggestions"`

	// Plain-language summary lines derived from the comparison
	Recommendations []string `json:"recommendations"`
}
