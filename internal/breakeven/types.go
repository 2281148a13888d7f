package breakeven

import (
	"github.com/shopspring/decimal"
)

// Status classifies how far the old regime is from beating the new regime
type Status string

const (
	StatusAlreadyOld  Status = "old_regime_already_cheaper" // current old-regime tax is already lower
	StatusReachable   Status = "reachable"                  // unused ledger headroom covers the gap
	StatusOutOfReach  Status = "out_of_reach"               // needs more than the unused headroom
	StatusUnreachable Status = "unreachable"                // no deduction can get below the new-regime tax
)

// Result is the outcome of a break-even search
type Result struct {
	Status Status `json:"status"`

	OldTax decimal.Decimal `json:"old_regime_tax"`
	NewTax decimal.Decimal `json:"new_regime_tax"`

	// Smallest extra old-regime deduction, in whole rupees, that makes the old
	// regime strictly cheaper. Zero unless Status is reachable or out of reach.
	RequiredDeduction decimal.Decimal `json:"required_deduction"`

	// Old-regime tax once RequiredDeduction is claimed
	OldTaxAtBreakEven decimal.Decimal `json:"old_regime_tax_at_break_even"`

	// Unused capacity across the old-regime ledger
	AvailableHeadroom decimal.Decimal `json:"available_headroom"`

	Iterations int `json:"iterations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	MaxIterations int // bisection steps; 64 covers any rupee amount
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{MaxIterations: 64}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
