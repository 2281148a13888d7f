package calculation

import (
	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX LAYERING:
//
// 1. Slab tax: each slab taxes only the income between the previous limit and its own
//    upper limit. The final slab is unbounded.
// 2. Section 87A rebate: when taxable income is at or below the rebate ceiling, up to the
//    maximum rebate is taken off the slab tax. The result is the basic tax.
// 3. Surcharge: one rate, picked by the highest threshold that GROSS income exceeds, applied
//    to the whole basic tax.
// 4. Health and education cess on basic tax plus surcharge.
//
// Amounts are never rounded here; callers round when they return a final figure.

// DefaultCessRate is applied when a table does not carry its own
var DefaultCessRate = decimal.NewFromFloat(0.04)

// SlabTax returns the progressive tax before rebate
func SlabTax(taxableIncome decimal.Decimal, table domain.SlabTable) decimal.Decimal {
	if !taxableIncome.IsPositive() {
		return decimal.Zero
	}

	total := decimal.Zero
	last := decimal.Zero
	for _, slab := range table.Slabs {
		upper := taxableIncome
		if !slab.Unbounded() {
			upper = decimal.Min(taxableIncome, slab.UpperLimit.Decimal)
		}
		inSlab := upper.Sub(last)
		if inSlab.IsPositive() {
			total = total.Add(inSlab.Mul(slab.Rate))
		}
		if slab.Unbounded() || taxableIncome.LessThanOrEqual(slab.UpperLimit.Decimal) {
			break
		}
		last = slab.UpperLimit.Decimal
	}
	return total
}

// TaxForIncome returns the rebate-adjusted basic tax for a taxable income
func TaxForIncome(taxableIncome decimal.Decimal, table domain.SlabTable) decimal.Decimal {
	tax := SlabTax(taxableIncome, table)
	if taxableIncome.LessThanOrEqual(table.Rebate.IncomeCeiling) {
		tax = tax.Sub(decimal.Min(tax, table.Rebate.MaxAmount))
	}
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// Liability layers surcharge and cess over the basic tax.
// grossIncome selects the surcharge bracket; taxableIncome drives the slabs.
func Liability(taxableIncome, grossIncome decimal.Decimal, table domain.SlabTable) domain.TaxBreakdown {
	basic := TaxForIncome(taxableIncome, table)
	surcharge := basic.Mul(table.SurchargeRateFor(grossIncome))

	cessRate := table.CessRate
	if cessRate.IsZero() {
		cessRate = DefaultCessRate
	}
	cess := basic.Add(surcharge).Mul(cessRate)

	return domain.TaxBreakdown{
		BasicTax:  basic,
		Surcharge: surcharge,
		Cess:      cess,
		Tax:       basic.Add(surcharge).Add(cess),
	}
}

func roundBreakdown(b domain.TaxBreakdown) domain.TaxBreakdown {
	return domain.TaxBreakdown{
		BasicTax:  b.BasicTax.Round(2),
		Surcharge: b.Surcharge.Round(2),
		Cess:      b.Cess.Round(2),
		Tax:       b.Tax.Round(2),
	}
}
