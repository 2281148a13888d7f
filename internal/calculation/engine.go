package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine runs the per-regime tax computations.
// It holds no per-call state and is safe for concurrent use.
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates an engine that logs nowhere
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

func checkTable(table domain.SlabTable, want domain.Regime) error {
	if table.Regime != "" && table.Regime != want {
		return &domain.ConfigMalformedError{
			Year:   table.AssessmentYear,
			Reason: fmt.Sprintf("expected %s table, got %s", want, table.Regime),
		}
	}
	return table.Validate()
}

// CalculateOldRegime runs the full deduction pipeline and evaluates the old-regime slabs
func (ce *CalculationEngine) CalculateOldRegime(profile domain.TaxpayerProfile, table domain.SlabTable) (domain.OldRegimeResult, error) {
	if err := checkTable(table, domain.OldRegime); err != nil {
		return domain.OldRegimeResult{}, fmt.Errorf("old regime: %w", err)
	}
	profile = profile.Normalized()
	log := ce.logger()

	state := newRunningState(profile, table, log)
	for _, step := range oldRegimePipeline {
		before := state.income
		step.apply(state)
		log.Debugf("old regime %s: %s -> %s", step.name, before.StringFixed(2), state.income.StringFixed(2))
	}
	if state.income.IsNegative() {
		state.income = decimal.Zero
	}

	ledger := state.finalize()
	breakdown := roundBreakdown(Liability(state.income, profile.Income, table))
	log.Infof("old regime %s: taxable %s, tax %s, %d ledger entries",
		table.AssessmentYear, state.income.StringFixed(2), breakdown.Tax.StringFixed(2), ledger.Len())

	return domain.OldRegimeResult{
		TaxBreakdown:    breakdown,
		GrossIncome:     profile.Income,
		TotalDeductions: state.deducted.Round(2),
		TaxableIncome:   state.income.Round(2),
		Ledger:          ledger,
		AssessmentYear:  table.AssessmentYear,
		DefaultSlabs:    table.Default,
	}, nil
}

// CalculateNewRegime applies only the standard deduction before evaluating the new-regime slabs
func (ce *CalculationEngine) CalculateNewRegime(profile domain.TaxpayerProfile, table domain.SlabTable) (domain.NewRegimeResult, error) {
	if err := checkTable(table, domain.NewRegime); err != nil {
		return domain.NewRegimeResult{}, fmt.Errorf("new regime: %w", err)
	}
	profile = profile.Normalized()

	standard := decimal.Zero
	if profile.IsSalaried() {
		standard = decimal.Min(domain.Money(table.StandardDeduction), profile.Income)
	}
	taxable := profile.Income.Sub(standard)

	breakdown := roundBreakdown(Liability(taxable, profile.Income, table))
	ce.logger().Infof("new regime %s: taxable %s, tax %s",
		table.AssessmentYear, taxable.StringFixed(2), breakdown.Tax.StringFixed(2))

	return domain.NewRegimeResult{
		TaxBreakdown:      breakdown,
		GrossIncome:       profile.Income,
		StandardDeduction: standard,
		TaxableIncome:     taxable.Round(2),
		AssessmentYear:    table.AssessmentYear,
		DefaultSlabs:      table.Default,
	}, nil
}
