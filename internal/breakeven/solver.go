package breakeven

import (
	"context"

	"github.com/rgehrsitz/taxsavvy/internal/calculation"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver finds the extra old-regime deduction at which the old regime overtakes the new one
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve runs both regimes for the profile and binary searches whole-rupee
// deductions taken off the old-regime taxable income. Old-regime liability never
// rises as taxable income falls, so the search is exact.
func (s *Solver) Solve(ctx context.Context, profile domain.TaxpayerProfile, oldTable, newTable domain.SlabTable) (*Result, error) {
	oldResult, err := s.CalcEngine.CalculateOldRegime(profile, oldTable)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to calculate old regime", Cause: err}
	}
	newResult, err := s.CalcEngine.CalculateNewRegime(profile, newTable)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to calculate new regime", Cause: err}
	}

	result := &Result{
		OldTax:            oldResult.Tax,
		NewTax:            newResult.Tax,
		RequiredDeduction: decimal.Zero,
		OldTaxAtBreakEven: oldResult.Tax,
		AvailableHeadroom: totalHeadroom(oldResult.Ledger),
	}

	if oldResult.Tax.LessThan(newResult.Tax) {
		result.Status = StatusAlreadyOld
		return result, nil
	}

	gross := oldResult.GrossIncome
	taxable := oldResult.TaxableIncome
	// rounded like the reported taxes so a sub-paisa gap still counts as a tie
	oldTaxAfter := func(deduction int64) decimal.Decimal {
		return calculation.Liability(taxable.Sub(decimal.NewFromInt(deduction)), gross, oldTable).Tax.Round(2)
	}

	hi := taxable.Ceil().IntPart()
	if !oldTaxAfter(hi).LessThan(newResult.Tax) {
		result.Status = StatusUnreachable
		return result, nil
	}

	// smallest deduction in [lo, hi] that gets below the new-regime tax
	lo := int64(0)
	for lo < hi {
		if result.Iterations >= s.Options.MaxIterations {
			return nil, &BreakEvenError{Operation: "solve", Message: "search did not converge"}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo + (hi-lo)/2
		if oldTaxAfter(mid).LessThan(newResult.Tax) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	result.RequiredDeduction = decimal.NewFromInt(hi)
	result.OldTaxAtBreakEven = oldTaxAfter(hi)
	if result.RequiredDeduction.LessThanOrEqual(result.AvailableHeadroom) {
		result.Status = StatusReachable
	} else {
		result.Status = StatusOutOfReach
	}
	return result, nil
}

func totalHeadroom(ledger domain.Ledger) decimal.Decimal {
	total := decimal.Zero
	for _, e := range ledger.Entries() {
		total = total.Add(e.Headroom())
	}
	return total
}
