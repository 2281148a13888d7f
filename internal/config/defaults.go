package config

import (
	"github.com/shopspring/decimal"
)

// DefaultAssessmentYear is served when a profile names no year or an unknown one
const DefaultAssessmentYear = "2023-24"

func amt(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func slab(limit int64, rate string) SlabEntry {
	return SlabEntry{Limit: amt(limit), Rate: pct(rate)}
}

func top(rate string) SlabEntry {
	return SlabEntry{Rate: pct(rate)}
}

// DefaultSlabDocument returns the built-in tables used when no slab file is configured
// and as the fallback for unknown years.
func DefaultSlabDocument() SlabDocument {
	return SlabDocument{
		DefaultAssessmentYear: {
			OldRegime: RegimeDocument{
				General: []SlabEntry{
					slab(250000, "0"),
					slab(500000, "0.05"),
					slab(1000000, "0.20"),
					top("0.30"),
				},
				Senior: []SlabEntry{
					slab(300000, "0"),
					slab(500000, "0.05"),
					slab(1000000, "0.20"),
					top("0.30"),
				},
				SuperSenior: []SlabEntry{
					slab(500000, "0"),
					slab(1000000, "0.20"),
					top("0.30"),
				},
				Rebate: &RebateDocument{MaxRebate: decimal.NewFromInt(12500), IncomeLimit: decimal.NewFromInt(500000)},
			},
			NewRegime: RegimeDocument{
				General: []SlabEntry{
					slab(300000, "0"),
					slab(600000, "0.05"),
					slab(900000, "0.10"),
					slab(1200000, "0.15"),
					slab(1500000, "0.20"),
					top("0.30"),
				},
				Rebate: &RebateDocument{MaxRebate: decimal.NewFromInt(25000), IncomeLimit: decimal.NewFromInt(700000)},
			},
			Surcharge: map[string]decimal.Decimal{
				"5000000":  decimal.RequireFromString("0.10"),
				"10000000": decimal.RequireFromString("0.15"),
				"20000000": decimal.RequireFromString("0.25"),
				"50000000": decimal.RequireFromString("0.37"),
			},
			StandardDeduction: amt(50000),
			CessRate:          pct("0.04"),
			Section80D: map[string]LimitPair{
				"general":        {Self: amt(25000), Parents: amt(25000)},
				"senior_citizen": {Self: amt(50000), Parents: amt(50000)},
			},
		},
	}
}
