package compare

import (
	"fmt"

	"github.com/rgehrsitz/taxsavvy/internal/calculation"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
)

// CompareRegimes evaluates both regimes for one profile.
//
// The old regime is judged on its optimal liability, the tax left after every
// remaining category headroom is used. It is chosen only when that figure is
// strictly below the new-regime tax; a tie goes to the new regime.
func CompareRegimes(
	calc *calculation.CalculationEngine,
	profile domain.TaxpayerProfile,
	oldTable, newTable domain.SlabTable,
) (domain.RegimeComparison, error) {
	oldResult, err := calc.CalculateOldRegime(profile, oldTable)
	if err != nil {
		return domain.RegimeComparison{}, fmt.Errorf("failed to calculate old regime: %w", err)
	}
	newResult, err := calc.CalculateNewRegime(profile, newTable)
	if err != nil {
		return domain.RegimeComparison{}, fmt.Errorf("failed to calculate new regime: %w", err)
	}

	optimalOld := OptimalOldTax(oldResult)

	cmp := domain.RegimeComparison{
		Old:           oldResult,
		New:           newResult,
		OptimalOldTax: optimalOld,
	}
	if optimalOld.LessThan(newResult.Tax) {
		cmp.OptimalRegime = domain.OldRegime
		cmp.Advantage = newResult.Tax.Sub(optimalOld)
	} else {
		cmp.OptimalRegime = domain.NewRegime
		cmp.Advantage = optimalOld.Sub(newResult.Tax)
	}
	return cmp, nil
}

// OptimalOldTax is the old-regime tax less the savings still available in the ledger,
// floored at zero.
func OptimalOldTax(result domain.OldRegimeResult) decimal.Decimal {
	optimal := result.Tax.Sub(result.Ledger.TotalEstimatedSaving())
	if optimal.IsNegative() {
		return decimal.Zero
	}
	return optimal.Round(2)
}
