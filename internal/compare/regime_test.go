package compare

import (
	"testing"

	"github.com/rgehrsitz/taxsavvy/internal/calculation"
	"github.com/rgehrsitz/taxsavvy/internal/config"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tablesFor(t *testing.T, profile domain.TaxpayerProfile) (domain.SlabTable, domain.SlabTable) {
	t.Helper()
	repo, err := config.NewSlabRepository("", nil)
	require.NoError(t, err)
	oldTable, newTable, err := repo.Tables(profile)
	require.NoError(t, err)
	return oldTable, newTable
}

func compareProfile(t *testing.T, profile domain.TaxpayerProfile) domain.RegimeComparison {
	t.Helper()
	oldTable, newTable := tablesFor(t, profile)
	cmp, err := CompareRegimes(calculation.NewCalculationEngine(), profile, oldTable, newTable)
	require.NoError(t, err)
	return cmp
}

func TestCompareRegimes_NewRegimeWithoutInvestments(t *testing.T) {
	cmp := compareProfile(t, domain.TaxpayerProfile{
		Income:         dec("1000000"),
		Age:            30,
		AssessmentYear: "2023-24",
	})

	assert.True(t, cmp.Old.Tax.Equal(dec("117000")))
	assert.True(t, cmp.New.Tax.Equal(dec("62400")))
	// 80C, 80D and 80CCD(1B) headroom at a 20% marginal rate plus cess
	assert.True(t, cmp.OptimalOldTax.Equal(dec("70200")), "got %s", cmp.OptimalOldTax)
	assert.Equal(t, domain.NewRegime, cmp.OptimalRegime)
	assert.True(t, cmp.Advantage.Equal(dec("7800")))
}

func TestCompareRegimes_OldRegimeWithFullDeductions(t *testing.T) {
	cmp := compareProfile(t, domain.TaxpayerProfile{
		Income:               dec("1000000"),
		Age:                  30,
		AssessmentYear:       "2023-24",
		BasicSalary:          dec("600000"),
		Investments80C:       dec("150000"),
		HealthInsuranceSelf:  dec("25000"),
		NPS80CCD1B:           dec("50000"),
		HomeLoanInterest:     dec("200000"),
		PropertySelfOccupied: true,
	})

	assert.True(t, cmp.Old.TaxableIncome.Equal(dec("525000")))
	assert.True(t, cmp.Old.Tax.Equal(dec("18200")))
	assert.True(t, cmp.OptimalOldTax.Equal(cmp.Old.Tax), "no headroom left")
	assert.True(t, cmp.New.TaxableIncome.Equal(dec("950000")))
	assert.True(t, cmp.New.Tax.Equal(dec("54600")))
	assert.Equal(t, domain.OldRegime, cmp.OptimalRegime)
	assert.True(t, cmp.Advantage.Equal(dec("36400")))
}

func TestCompareRegimes_OldWinsOnlyWithHeadroom(t *testing.T) {
	cmp := compareProfile(t, domain.TaxpayerProfile{
		Income:               dec("1000000"),
		Age:                  30,
		AssessmentYear:       "2023-24",
		BasicSalary:          dec("600000"),
		Investments80C:       dec("150000"),
		HomeLoanInterest:     dec("100000"),
		PropertySelfOccupied: true,
	})

	assert.True(t, cmp.Old.Tax.Equal(dec("54600")))
	assert.True(t, cmp.New.Tax.Equal(dec("54600")))
	// unused 24(b) 100000, 80D 25000 and 80CCD(1B) 50000 save 20800 + 5200 + 10400
	assert.True(t, cmp.OptimalOldTax.Equal(dec("18200")), "got %s", cmp.OptimalOldTax)
	assert.Equal(t, domain.OldRegime, cmp.OptimalRegime)
	assert.True(t, cmp.Advantage.Equal(dec("36400")))
}

func TestCompareRegimes_TieGoesToNewRegime(t *testing.T) {
	cmp := compareProfile(t, domain.TaxpayerProfile{Income: dec("200000"), AssessmentYear: "2023-24"})
	assert.True(t, cmp.OptimalOldTax.IsZero())
	assert.True(t, cmp.New.Tax.IsZero())
	assert.Equal(t, domain.NewRegime, cmp.OptimalRegime)
	assert.True(t, cmp.Advantage.IsZero())
}

func TestCompareRegimes_SwappedTables(t *testing.T) {
	profile := domain.TaxpayerProfile{Income: dec("1000000"), AssessmentYear: "2023-24"}
	oldTable, newTable := tablesFor(t, profile)

	_, err := CompareRegimes(calculation.NewCalculationEngine(), profile, newTable, oldTable)
	require.Error(t, err)
	var malformed *domain.ConfigMalformedError
	assert.ErrorAs(t, err, &malformed)
}

func TestOptimalOldTax_FloorsAtZero(t *testing.T) {
	result := domain.OldRegimeResult{
		TaxBreakdown: domain.TaxBreakdown{Tax: dec("1000")},
		Ledger: domain.NewLedger(domain.LedgerEntry{
			Section:                    domain.Section80C,
			Limit:                      domain.FixedLimit(dec("150000")),
			RemainingCapacity:          decimal.NewNullDecimal(dec("150000")),
			EstimatedSavingIfFullyUsed: dec("31200"),
		}),
	}
	assert.True(t, OptimalOldTax(result).IsZero())
}
