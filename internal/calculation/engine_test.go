package calculation

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger records warnings for assertions
type TestLogger struct {
	warnings []string
}

func (l *TestLogger) Debugf(string, ...interface{}) {}
func (l *TestLogger) Infof(string, ...interface{})  {}
func (l *TestLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
func (l *TestLogger) Errorf(string, ...interface{}) {}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func surcharge() []domain.SurchargeBracket {
	return []domain.SurchargeBracket{
		{Threshold: dec("5000000"), Rate: dec("0.10")},
		{Threshold: dec("10000000"), Rate: dec("0.15")},
		{Threshold: dec("20000000"), Rate: dec("0.25")},
		{Threshold: dec("50000000"), Rate: dec("0.37")},
	}
}

func oldTable() domain.SlabTable {
	return domain.SlabTable{
		AssessmentYear: "2023-24",
		Regime:         domain.OldRegime,
		AgeBand:        domain.AgeBandGeneral,
		Slabs: []domain.Slab{
			domain.BoundedSlab(250000, "0"),
			domain.BoundedSlab(500000, "0.05"),
			domain.BoundedSlab(1000000, "0.20"),
			domain.TopSlab("0.30"),
		},
		Rebate:                 domain.Rebate{IncomeCeiling: dec("500000"), MaxAmount: dec("12500")},
		Surcharge:              surcharge(),
		CessRate:               dec("0.04"),
		StandardDeduction:      dec("50000"),
		HealthInsuranceGeneral: &domain.HealthInsuranceLimits{Self: dec("25000"), Parents: dec("25000")},
		HealthInsuranceSenior:  &domain.HealthInsuranceLimits{Self: dec("50000"), Parents: dec("50000")},
	}
}

func newTable() domain.SlabTable {
	return domain.SlabTable{
		AssessmentYear: "2023-24",
		Regime:         domain.NewRegime,
		AgeBand:        domain.AgeBandGeneral,
		Slabs: []domain.Slab{
			domain.BoundedSlab(300000, "0"),
			domain.BoundedSlab(600000, "0.05"),
			domain.BoundedSlab(900000, "0.10"),
			domain.BoundedSlab(1200000, "0.15"),
			domain.BoundedSlab(1500000, "0.20"),
			domain.TopSlab("0.30"),
		},
		Rebate:            domain.Rebate{IncomeCeiling: dec("700000"), MaxAmount: dec("25000")},
		Surcharge:         surcharge(),
		CessRate:          dec("0.04"),
		StandardDeduction: dec("50000"),
	}
}

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()
	assert.NotNil(t, engine)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestCalculateOldRegime_NoDeductions(t *testing.T) {
	engine := NewCalculationEngine()
	profile := domain.TaxpayerProfile{Income: dec("1000000"), Age: 30}

	result, err := engine.CalculateOldRegime(profile, oldTable())
	require.NoError(t, err)

	// 12500 + 100000 of slab tax, above the rebate ceiling
	assert.True(t, result.BasicTax.Equal(dec("112500")), "basic tax %s", result.BasicTax)
	assert.True(t, result.Surcharge.IsZero())
	assert.True(t, result.Cess.Equal(dec("4500")))
	assert.True(t, result.Tax.Equal(dec("117000")))
	assert.True(t, result.TaxableIncome.Equal(dec("1000000")))

	// headline categories are visible even when unused
	for _, section := range []string{domain.Section80C, domain.Section80D, domain.Section80CCD1B} {
		e, ok := result.Ledger.Get(section)
		require.True(t, ok, section)
		assert.True(t, e.Used.IsZero(), section)
	}
	e, _ := result.Ledger.Get(domain.Section80C)
	assert.True(t, e.EstimatedSavingIfFullyUsed.Equal(dec("31200")), "80C saving %s", e.EstimatedSavingIfFullyUsed)
	e, _ = result.Ledger.Get(domain.Section80D)
	assert.True(t, e.EstimatedSavingIfFullyUsed.Equal(dec("5200")))
	e, _ = result.Ledger.Get(domain.Section80CCD1B)
	assert.True(t, e.EstimatedSavingIfFullyUsed.Equal(dec("10400")))

	_, ok := result.Ledger.Get(domain.SectionStandardDeduction)
	assert.False(t, ok, "no basic salary means no standard deduction")
}

func TestCalculateNewRegime(t *testing.T) {
	engine := NewCalculationEngine()

	t.Run("no basic salary", func(t *testing.T) {
		result, err := engine.CalculateNewRegime(domain.TaxpayerProfile{Income: dec("1000000"), Age: 30}, newTable())
		require.NoError(t, err)
		assert.True(t, result.BasicTax.Equal(dec("60000")), "basic tax %s", result.BasicTax)
		assert.True(t, result.Tax.Equal(dec("62400")))
		assert.True(t, result.TaxableIncome.Equal(dec("1000000")))
		assert.True(t, result.StandardDeduction.IsZero())
	})

	t.Run("salaried gets standard deduction", func(t *testing.T) {
		profile := domain.TaxpayerProfile{Income: dec("750000"), BasicSalary: dec("400000"), Age: 30}
		result, err := engine.CalculateNewRegime(profile, newTable())
		require.NoError(t, err)
		assert.True(t, result.TaxableIncome.Equal(dec("700000")))
		assert.True(t, result.Tax.IsZero(), "fully rebated at the ceiling")
	})

	t.Run("rejects old table", func(t *testing.T) {
		_, err := engine.CalculateNewRegime(domain.TaxpayerProfile{Income: dec("1")}, oldTable())
		require.Error(t, err)
		var malformed *domain.ConfigMalformedError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestCalculateOldRegime_HealthInsuranceSenior(t *testing.T) {
	engine := NewCalculationEngine()
	profile := domain.TaxpayerProfile{Income: dec("1000000"), Age: 65, HealthInsuranceSelf: dec("60000")}

	result, err := engine.CalculateOldRegime(profile, oldTable())
	require.NoError(t, err)

	e, ok := result.Ledger.Get(domain.Section80D)
	require.True(t, ok)
	assert.True(t, e.Used.Equal(dec("50000")))
	assert.True(t, e.Limit.Amount.Equal(dec("50000")))
	assert.True(t, e.RemainingCapacity.Valid)
	assert.True(t, e.RemainingCapacity.Decimal.IsZero())
}

func TestCalculateOldRegime_SavingsInterestBelowSixty(t *testing.T) {
	engine := NewCalculationEngine()
	profile := domain.TaxpayerProfile{
		Income:               dec("800000"),
		Age:                  45,
		SavingsInterest80TTA: dec("15000"),
		InterestIncome80TTB:  dec("40000"),
	}

	result, err := engine.CalculateOldRegime(profile, oldTable())
	require.NoError(t, err)

	e, ok := result.Ledger.Get(domain.Section80TTA)
	require.True(t, ok)
	assert.True(t, e.Used.Equal(dec("10000")))
	assert.True(t, e.RemainingCapacity.Decimal.IsZero())

	_, ok = result.Ledger.Get(domain.Section80TTB)
	assert.False(t, ok, "80TTB never applies below sixty")
}

func TestCalculateOldRegime_SavingsInterestSenior(t *testing.T) {
	engine := NewCalculationEngine()
	profile := domain.TaxpayerProfile{
		Income:               dec("800000"),
		Age:                  62,
		SavingsInterest80TTA: dec("15000"),
		InterestIncome80TTB:  dec("60000"),
	}

	result, err := engine.CalculateOldRegime(profile, oldTable())
	require.NoError(t, err)

	_, ok := result.Ledger.Get(domain.Section80TTA)
	assert.False(t, ok)
	e, ok := result.Ledger.Get(domain.Section80TTB)
	require.True(t, ok)
	assert.True(t, e.Used.Equal(dec("50000")))
}

func TestCalculateOldRegime_Surcharge(t *testing.T) {
	engine := NewCalculationEngine()
	result, err := engine.CalculateOldRegime(domain.TaxpayerProfile{Income: dec("6000000"), Age: 30}, oldTable())
	require.NoError(t, err)

	assert.True(t, result.BasicTax.Equal(dec("1612500")))
	assert.True(t, result.Surcharge.Equal(dec("161250")))
	assert.True(t, result.Cess.Equal(dec("70950")))
	assert.True(t, result.Tax.Equal(dec("1844700")))
}

func TestCalculateOldRegime_TaxSavedFromUsed(t *testing.T) {
	engine := NewCalculationEngine()
	profile := domain.TaxpayerProfile{Income: dec("1000000"), Age: 30, Investments80C: dec("100000")}

	result, err := engine.CalculateOldRegime(profile, oldTable())
	require.NoError(t, err)

	e, ok := result.Ledger.Get(domain.Section80C)
	require.True(t, ok)
	assert.True(t, e.Used.Equal(dec("100000")))
	assert.True(t, e.RemainingCapacity.Decimal.Equal(dec("50000")))
	// 117000 at 1,000,000 against 96200 at 900,000
	assert.True(t, e.TaxSavedFromUsed.Equal(dec("20800")), "saved %s", e.TaxSavedFromUsed)
	assert.True(t, e.IncomeBefore.Equal(dec("1000000")))
	assert.True(t, e.IncomeAfter.Equal(dec("900000")))
}

func TestCalculateOldRegime_DegradesMissingHealthLimits(t *testing.T) {
	engine := NewCalculationEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	table := oldTable()
	table.HealthInsuranceGeneral = nil
	table.HealthInsuranceSenior = nil

	profile := domain.TaxpayerProfile{
		Income:                 dec("900000"),
		Age:                    40,
		HealthInsuranceSelf:    dec("20000"),
		HealthInsuranceParents: dec("10000"),
		NPS80CCD1B:             dec("50000"),
	}
	result, err := engine.CalculateOldRegime(profile, table)
	require.NoError(t, err, "a missing category limit is not fatal")

	e, ok := result.Ledger.Get(domain.Section80D)
	require.True(t, ok)
	assert.Equal(t, domain.LimitIndeterminate, e.Limit.Kind)
	assert.False(t, e.RemainingCapacity.Valid)
	assert.True(t, e.EstimatedSavingIfFullyUsed.IsZero())

	e, ok = result.Ledger.Get(domain.Section80CCD1B)
	require.True(t, ok, "later categories still run")
	assert.True(t, e.Used.Equal(dec("50000")))
	assert.True(t, result.TaxableIncome.Equal(dec("850000")))
	assert.Len(t, logger.warnings, 2)
}

func TestCalculateOldRegime_RejectsMalformedTable(t *testing.T) {
	engine := NewCalculationEngine()
	table := oldTable()
	table.Slabs = table.Slabs[:2]

	_, err := engine.CalculateOldRegime(domain.TaxpayerProfile{Income: dec("100")}, table)
	require.Error(t, err)
	var malformed *domain.ConfigMalformedError
	assert.ErrorAs(t, err, &malformed)
}

// richProfile touches every pipeline step
func richProfile() domain.TaxpayerProfile {
	return domain.TaxpayerProfile{
		Income:                    dec("2500000.37"),
		Age:                       42,
		City:                      domain.CityNonMetro,
		BasicSalary:               dec("1200000.55"),
		HasHRA:                    true,
		HRAReceived:               dec("300000"),
		Rent:                      dec("360000"),
		HomeLoanInterest:          dec("250000"),
		HomeLoanPrincipal:         dec("40000"),
		PropertySelfOccupied:      true,
		FirstTimeHomeBuyer:        true,
		Investments80C:            dec("70000.10"),
		NPS80CCD1:                 dec("20000"),
		NPS80CCD1B:                dec("30000"),
		EmployerNPS80CCD2:         dec("200000"),
		HealthInsuranceSelf:       dec("18000"),
		HealthInsuranceParents:    dec("45000"),
		ParentsSeniorCitizen:      true,
		MedicalTreatment80DDB:     dec("55000"),
		SelfDisability:            true,
		DependentDisability:       true,
		DependentDisabilitySevere: true,
		StudentLoanInterest:       dec("35000"),
		Donations80G:              dec("10000.03"),
		SavingsInterest80TTA:      dec("4000"),
		RoyaltyIncome80RRB:        dec("10000"),
		StartupInvestment80IAC:    dec("5000"),
		CooperativeIncome80P:      dec("5000"),
		NewEmployeeWages80JJAA:    dec("33333.33"),
		ScientificResearch80GGA:   dec("1000"),
	}
}

func TestCalculateOldRegime_FixedLimitsBalanceExactly(t *testing.T) {
	engine := NewCalculationEngine()
	result, err := engine.CalculateOldRegime(richProfile(), oldTable())
	require.NoError(t, err)
	require.Greater(t, result.Ledger.Len(), 15)

	for _, e := range result.Ledger.Entries() {
		if !e.Limit.IsFixed() {
			assert.False(t, e.RemainingCapacity.Valid, e.Section)
			continue
		}
		require.True(t, e.RemainingCapacity.Valid, e.Section)
		assert.True(t, e.Used.Add(e.RemainingCapacity.Decimal).Equal(e.Limit.Amount),
			"%s: used %s + remaining %s != limit %s", e.Section, e.Used, e.RemainingCapacity.Decimal, e.Limit.Amount)
	}
}

func TestCalculateOldRegime_LedgerFollowsPipelineOrder(t *testing.T) {
	engine := NewCalculationEngine()
	result, err := engine.CalculateOldRegime(richProfile(), oldTable())
	require.NoError(t, err)

	var sections []string
	for _, e := range result.Ledger.Entries() {
		sections = append(sections, e.Section)
	}
	assert.Equal(t, []string{
		domain.SectionStandardDeduction, domain.Section80C, domain.Section24B, domain.Section80EEA,
		domain.Section80D, domain.Section80DParents, domain.SectionHRA, domain.Section80E,
		domain.Section80G, domain.Section80DDB, domain.Section80CCD1B, domain.Section80CCD1,
		domain.Section80CCD2, domain.Section80TTA, domain.Section80U, domain.Section80DD,
		domain.Section80RRB, domain.Section80IAC, domain.Section80P, domain.Section80JJAA,
		domain.Section80GGA,
	}, sections)

	// each step starts where the previous one ended
	entries := result.Ledger.Entries()
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].IncomeBefore.Equal(entries[i-1].IncomeAfter), entries[i].Section)
	}
}

func TestCalculateOldRegime_Idempotent(t *testing.T) {
	engine := NewCalculationEngine()
	profile := richProfile()
	table := oldTable()

	first, err := engine.CalculateOldRegime(profile, table)
	require.NoError(t, err)
	second, err := engine.CalculateOldRegime(profile, table)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestCalculateOldRegime_TaxableIncomeNeverNegative(t *testing.T) {
	engine := NewCalculationEngine()
	for _, income := range []string{"0", "1", "49999.99", "120000", "700000"} {
		t.Run(income, func(t *testing.T) {
			profile := richProfile()
			profile.Income = dec(income)

			result, err := engine.CalculateOldRegime(profile, oldTable())
			require.NoError(t, err)
			assert.False(t, result.TaxableIncome.IsNegative())
			assert.False(t, result.Tax.IsNegative())
			for _, e := range result.Ledger.Entries() {
				assert.False(t, e.IncomeAfter.IsNegative(), e.Section)
			}
			if income == "120000" {
				assert.True(t, result.TaxableIncome.IsZero())
				assert.True(t, result.TotalDeductions.Equal(dec("120000")))
			}
		})
	}
}
