package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Regime identifies one of the two parallel tax computation frameworks
type Regime string

const (
	OldRegime Regime = "old_regime"
	NewRegime Regime = "new_regime"
)

// ParseRegime accepts the short and long spellings used by callers
func ParseRegime(s string) (Regime, error) {
	switch s {
	case "old", "old_regime":
		return OldRegime, nil
	case "new", "new_regime":
		return NewRegime, nil
	default:
		return "", fmt.Errorf("unknown regime %q", s)
	}
}

// AgeBand selects the slab schedule within a regime
type AgeBand string

const (
	AgeBandGeneral     AgeBand = "general"
	AgeBandSenior      AgeBand = "senior_citizen"
	AgeBandSuperSenior AgeBand = "super_senior_citizen"
)

// AgeBandFor returns the slab age band for an age under the given regime.
// The new regime has a single age-independent table.
func AgeBandFor(regime Regime, age int) AgeBand {
	if regime == NewRegime {
		return AgeBandGeneral
	}
	switch {
	case age > 80:
		return AgeBandSuperSenior
	case age >= 60:
		return AgeBandSenior
	default:
		return AgeBandGeneral
	}
}

// Slab is one progressive bracket. An invalid UpperLimit marks the unbounded top slab.
type Slab struct {
	UpperLimit decimal.NullDecimal `json:"limit"`
	Rate       decimal.Decimal     `json:"rate"`
}

// Unbounded reports whether the slab has no upper limit
func (s Slab) Unbounded() bool {
	return !s.UpperLimit.Valid
}

// Rebate is the Section 87A rule: taxpayers at or under IncomeCeiling get up to MaxAmount off.
type Rebate struct {
	IncomeCeiling decimal.Decimal `json:"income_limit"`
	MaxAmount     decimal.Decimal `json:"max_rebate"`
}

// SurchargeBracket applies Rate when gross income exceeds Threshold
type SurchargeBracket struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

// HealthInsuranceLimits is the Section 80D cap pair for one age band
type HealthInsuranceLimits struct {
	Self    decimal.Decimal `json:"self"`
	Parents decimal.Decimal `json:"parents"`
}

// SlabTable is the read-only reference data for one (year, regime, age band) calculation.
type SlabTable struct {
	AssessmentYear    string             `json:"assessment_year"`
	Regime            Regime             `json:"regime"`
	AgeBand           AgeBand            `json:"age_band"`
	Slabs             []Slab             `json:"slabs"`
	Rebate            Rebate             `json:"rebate_87a"`
	Surcharge         []SurchargeBracket `json:"surcharge"` // ascending by threshold
	CessRate          decimal.Decimal    `json:"cess_rate"`
	StandardDeduction decimal.Decimal    `json:"standard_deduction"`

	// 80D limits; nil when the source document does not define them
	HealthInsuranceGeneral *HealthInsuranceLimits `json:"section_80d_general,omitempty"`
	HealthInsuranceSenior  *HealthInsuranceLimits `json:"section_80d_senior,omitempty"`

	// Default is set when the table came from the built-in fallback set
	Default bool `json:"default"`
}

// HealthInsuranceLimitsFor returns the 80D limits for an age, or false when undefined
func (t SlabTable) HealthInsuranceLimitsFor(age int) (HealthInsuranceLimits, bool) {
	band := t.HealthInsuranceGeneral
	if age >= 60 {
		band = t.HealthInsuranceSenior
	}
	if band == nil {
		return HealthInsuranceLimits{}, false
	}
	return *band, true
}

// SurchargeRateFor returns the rate of the highest threshold that gross income exceeds
func (t SlabTable) SurchargeRateFor(grossIncome decimal.Decimal) decimal.Decimal {
	for i := len(t.Surcharge) - 1; i >= 0; i-- {
		if grossIncome.GreaterThan(t.Surcharge[i].Threshold) {
			return t.Surcharge[i].Rate
		}
	}
	return decimal.Zero
}

// Validate checks the structural invariants every evaluator relies on.
func (t SlabTable) Validate() error {
	if len(t.Slabs) == 0 {
		return &ConfigMalformedError{Year: t.AssessmentYear, Reason: fmt.Sprintf("%s/%s has no slabs", t.Regime, t.AgeBand)}
	}
	last := decimal.Zero
	for i, s := range t.Slabs {
		if s.Rate.IsNegative() || s.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return &ConfigMalformedError{Year: t.AssessmentYear, Reason: fmt.Sprintf("%s/%s slab %d rate %s outside [0,1)", t.Regime, t.AgeBand, i, s.Rate)}
		}
		if s.Unbounded() {
			if i != len(t.Slabs)-1 {
				return &ConfigMalformedError{Year: t.AssessmentYear, Reason: fmt.Sprintf("%s/%s slab %d is unbounded but not last", t.Regime, t.AgeBand, i)}
			}
			continue
		}
		if !s.UpperLimit.Decimal.GreaterThan(last) {
			return &ConfigMalformedError{Year: t.AssessmentYear, Reason: fmt.Sprintf("%s/%s slab %d limit %s not above %s", t.Regime, t.AgeBand, i, s.UpperLimit.Decimal, last)}
		}
		last = s.UpperLimit.Decimal
	}
	if !t.Slabs[len(t.Slabs)-1].Unbounded() {
		return &ConfigMalformedError{Year: t.AssessmentYear, Reason: fmt.Sprintf("%s/%s final slab must be unbounded", t.Regime, t.AgeBand)}
	}
	for i := 1; i < len(t.Surcharge); i++ {
		if !t.Surcharge[i].Threshold.GreaterThan(t.Surcharge[i-1].Threshold) {
			return &ConfigMalformedError{Year: t.AssessmentYear, Reason: "surcharge thresholds must be strictly ascending"}
		}
	}
	return nil
}

// BoundedSlab builds a slab with an upper limit
func BoundedSlab(limit int64, rate string) Slab {
	return Slab{
		UpperLimit: decimal.NewNullDecimal(decimal.NewFromInt(limit)),
		Rate:       decimal.RequireFromString(rate),
	}
}

// TopSlab builds the unbounded final slab
func TopSlab(rate string) Slab {
	return Slab{Rate: decimal.RequireFromString(rate)}
}
