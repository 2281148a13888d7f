package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateFor(profile domain.TaxpayerProfile) *runningState {
	return newRunningState(profile.Normalized(), oldTable(), NopLogger{})
}

func onlyEntry(t *testing.T, s *runningState) domain.LedgerEntry {
	t.Helper()
	require.Len(t, s.entries, 1)
	return s.entries[0]
}

func TestApplyHouseRent_HRAExemption(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:      dec("600000"),
		BasicSalary: dec("300000"),
		City:        domain.CityMetro,
		Rent:        dec("120000"),
		HRAReceived: dec("150000"),
		HasHRA:      true,
	})

	applyHouseRent(s)

	// least of 150000 received, 150000 metro limit and 120000 - 30000 excess rent
	e := onlyEntry(t, s)
	assert.Equal(t, domain.SectionHRA, e.Section)
	assert.True(t, e.Used.Equal(dec("90000")))
	assert.True(t, s.income.Equal(dec("510000")))
	assert.True(t, e.IncomeBefore.Equal(dec("600000")))
	assert.True(t, e.IncomeAfter.Equal(dec("510000")))
}

func TestApplyHouseRent_NonMetroLimit(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:      dec("900000"),
		BasicSalary: dec("400000"),
		City:        domain.CityNonMetro,
		Rent:        dec("400000"),
		HRAReceived: dec("250000"),
		HasHRA:      true,
	})

	applyHouseRent(s)

	e := onlyEntry(t, s)
	assert.True(t, e.Used.Equal(dec("160000")), "40%% of basic, got %s", e.Used)
}

func TestApplyHouseRent_RentBelowTenPercentOfBasic(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:      dec("900000"),
		BasicSalary: dec("400000"),
		Rent:        dec("30000"),
		HRAReceived: dec("100000"),
		HasHRA:      true,
	})

	applyHouseRent(s)

	assert.Empty(t, s.entries)
	assert.True(t, s.income.Equal(dec("900000")))
}

func TestApplyHouseRent_80GG(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:            dec("600000"),
		Rent:              dec("100000"),
		ExemptedUnder80GG: true,
	})

	applyHouseRent(s)

	// cap is min(60000, 25% of 600000); claim is rent less 10% of current income
	e := onlyEntry(t, s)
	assert.Equal(t, domain.Section80GG, e.Section)
	assert.True(t, e.Used.Equal(dec("40000")))
	assert.True(t, e.Limit.Amount.Equal(dec("60000")))
	assert.True(t, e.RemainingCapacity.Decimal.Equal(dec("20000")))
}

func TestApplyHouseRent_80GGRequiresFlag(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{Income: dec("600000"), Rent: dec("100000")})
	applyHouseRent(s)
	assert.Empty(t, s.entries)
}

func TestApply80C_PoolsPrincipal(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:            dec("1000000"),
		Investments80C:    dec("100000"),
		HomeLoanPrincipal: dec("80000"),
	})

	apply80C(s)

	e := onlyEntry(t, s)
	assert.True(t, e.Used.Equal(dec("150000")))
	assert.True(t, e.RemainingCapacity.Decimal.IsZero())
}

func TestApply80C_CappedByRemainingIncome(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{Income: dec("40000"), Investments80C: dec("150000")})

	apply80C(s)

	e := onlyEntry(t, s)
	assert.True(t, e.Used.Equal(dec("40000")))
	assert.True(t, e.RemainingCapacity.Decimal.Equal(dec("110000")))
	assert.True(t, s.income.IsZero())
}

func TestApplyHomeLoanInterest(t *testing.T) {
	t.Run("self occupied capped", func(t *testing.T) {
		s := stateFor(domain.TaxpayerProfile{Income: dec("1000000"), HomeLoanInterest: dec("300000"), PropertySelfOccupied: true})
		applyHomeLoanInterest(s)
		e := onlyEntry(t, s)
		assert.True(t, e.Used.Equal(dec("200000")))
		assert.True(t, e.Limit.IsFixed())
	})

	t.Run("let out unbounded", func(t *testing.T) {
		s := stateFor(domain.TaxpayerProfile{Income: dec("1000000"), HomeLoanInterest: dec("300000")})
		applyHomeLoanInterest(s)
		e := onlyEntry(t, s)
		assert.True(t, e.Used.Equal(dec("300000")))
		assert.Equal(t, domain.LimitUnbounded, e.Limit.Kind)
		assert.False(t, e.RemainingCapacity.Valid)
	})
}

func TestApply80EEA(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{Income: dec("1000000"), HomeLoanInterest: dec("180000")})
	apply80EEA(s)
	assert.Empty(t, s.entries, "only first-time buyers qualify")

	s = stateFor(domain.TaxpayerProfile{Income: dec("1000000"), HomeLoanInterest: dec("180000"), FirstTimeHomeBuyer: true})
	apply80EEA(s)
	assert.True(t, onlyEntry(t, s).Used.Equal(dec("150000")))
}

func TestApplyHealthInsurance_Parents(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:                 dec("1000000"),
		Age:                    35,
		HealthInsuranceSelf:    dec("10000"),
		HealthInsuranceParents: dec("40000"),
		ParentsSeniorCitizen:   true,
	})

	applyHealthInsurance(s)

	require.Len(t, s.entries, 2)
	assert.True(t, s.entries[0].Used.Equal(dec("10000")))
	assert.True(t, s.entries[0].RemainingCapacity.Decimal.Equal(dec("15000")))
	assert.Equal(t, domain.Section80DParents, s.entries[1].Section)
	assert.True(t, s.entries[1].Used.Equal(dec("40000")), "senior parents use the senior cap")
}

func TestApply80G_HalfOfDonation(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{Income: dec("1000000"), Donations80G: dec("30000")})
	apply80G(s)
	assert.True(t, onlyEntry(t, s).Used.Equal(dec("15000")))
}

func TestApply80DDB_AgeBanded(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{59, "40000"},
		{60, "100000"},
	}
	for _, tt := range tests {
		s := stateFor(domain.TaxpayerProfile{Income: dec("1000000"), Age: tt.age, MedicalTreatment80DDB: dec("150000")})
		apply80DDB(s)
		assert.True(t, onlyEntry(t, s).Used.Equal(dec(tt.want)), "age %d", tt.age)
	}
}

func TestApplyNPS(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:            dec("2000000"),
		BasicSalary:       dec("800000"),
		NPS80CCD1B:        dec("70000"),
		NPS80CCD1:         dec("200000"),
		EmployerNPS80CCD2: dec("100000"),
	})

	apply80CCD1B(s)
	apply80CCD1(s)
	apply80CCD2(s)

	require.Len(t, s.entries, 3)
	assert.True(t, s.entries[0].Used.Equal(dec("50000")))
	assert.True(t, s.entries[1].Used.Equal(dec("150000")))
	assert.True(t, s.entries[2].Used.Equal(dec("80000")), "10%% of basic")
	assert.True(t, s.income.Equal(dec("1720000")))
}

func TestApplyDisability(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:                    dec("150000"),
		SelfDisability:            true,
		SelfDisabilitySevere:      true,
		DependentDisability:       true,
		DependentDisabilitySevere: false,
	})

	applyDisability(s)

	require.Len(t, s.entries, 2)
	assert.True(t, s.entries[0].Used.Equal(dec("125000")))
	// dependent claim is capped by what the self claim left
	assert.True(t, s.entries[1].Used.Equal(dec("25000")))
	assert.True(t, s.entries[1].RemainingCapacity.Decimal.Equal(dec("50000")))
	assert.True(t, s.income.IsZero())
}

func TestApplyMinorCategories(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{
		Income:                  dec("1000000"),
		RoyaltyIncome80RRB:      dec("400000"),
		NewEmployeeWages80JJAA:  dec("100000"),
		ScientificResearch80GGA: dec("20000"),
	})

	applyMinorCategories(s)

	require.Len(t, s.entries, 3)
	assert.True(t, s.entries[0].Used.Equal(dec("300000")))
	assert.Equal(t, domain.Section80JJAA, s.entries[1].Section)
	assert.True(t, s.entries[1].Used.Equal(dec("30000")))
	assert.True(t, s.entries[2].Used.Equal(dec("20000")))
	assert.True(t, s.income.Equal(dec("650000")))
}

func TestApplyStandardDeduction_OnlyWhenSalaried(t *testing.T) {
	s := stateFor(domain.TaxpayerProfile{Income: dec("1000000")})
	applyStandardDeduction(s)
	assert.Empty(t, s.entries)

	s = stateFor(domain.TaxpayerProfile{Income: dec("30000"), BasicSalary: dec("30000")})
	applyStandardDeduction(s)
	e := onlyEntry(t, s)
	assert.True(t, e.Used.Equal(dec("30000")))
	assert.True(t, e.RemainingCapacity.Decimal.Equal(dec("20000")))
}
