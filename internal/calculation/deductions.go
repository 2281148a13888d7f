package calculation

import (
	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
)

// Statutory caps used by the old-regime pipeline
var (
	limit80C           = decimal.NewFromInt(150000)
	limit24BSelfOcc    = decimal.NewFromInt(200000)
	limit80EEA         = decimal.NewFromInt(150000)
	limit80GG          = decimal.NewFromInt(60000)
	limit80DDB         = decimal.NewFromInt(40000)
	limit80DDBSenior   = decimal.NewFromInt(100000)
	limit80CCD1B       = decimal.NewFromInt(50000)
	limit80CCD1        = decimal.NewFromInt(150000)
	limit80TTA         = decimal.NewFromInt(10000)
	limit80TTB         = decimal.NewFromInt(50000)
	limitDisability    = decimal.NewFromInt(75000)
	limitDisabilitySev = decimal.NewFromInt(125000)
	limit80RRB         = decimal.NewFromInt(300000)

	rateHRAMetro    = decimal.NewFromFloat(0.50)
	rateHRANonMetro = decimal.NewFromFloat(0.40)
	rateTenPercent  = decimal.NewFromFloat(0.10)
	rate80GGIncome  = decimal.NewFromFloat(0.25)
	rate80G         = decimal.NewFromFloat(0.50)
	rate80JJAA      = decimal.NewFromFloat(0.30)
)

// runningState is the accumulator threaded through one pipeline run.
// Income never increases and never drops below zero.
type runningState struct {
	profile domain.TaxpayerProfile
	table   domain.SlabTable
	logger  Logger

	income   decimal.Decimal
	deducted decimal.Decimal
	entries  []domain.LedgerEntry
}

func newRunningState(profile domain.TaxpayerProfile, table domain.SlabTable, logger Logger) *runningState {
	return &runningState{
		profile:  profile,
		table:    table,
		logger:   logger,
		income:   profile.Income,
		deducted: decimal.Zero,
	}
}

// liability is the full tax at a taxable income for this taxpayer
func (s *runningState) liability(taxable decimal.Decimal) decimal.Decimal {
	return Liability(taxable, s.profile.Income, s.table).Tax
}

// claim absorbs up to eligible from the remaining income and records the entry.
// eligible must already be capped by the limit. Zero claims are recorded only when
// always is set. Returns the amount used.
func (s *runningState) claim(section, label string, eligible decimal.Decimal, limit domain.Limit, always bool) decimal.Decimal {
	used := decimal.Min(eligible, s.income)
	if used.IsNegative() {
		used = decimal.Zero
	}
	if used.IsZero() && !always {
		return used
	}

	before := s.income
	s.income = s.income.Sub(used)
	s.deducted = s.deducted.Add(used)

	entry := domain.LedgerEntry{
		Section:          section,
		Label:            label,
		Used:             used,
		Limit:            limit,
		TaxSavedFromUsed: s.liability(before).Sub(s.liability(s.income)).Round(2),
		IncomeBefore:     before,
		IncomeAfter:      s.income,
	}
	if limit.IsFixed() {
		remaining := limit.Amount.Sub(used)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		entry.RemainingCapacity = decimal.NewNullDecimal(remaining)
	}
	s.entries = append(s.entries, entry)
	return used
}

// degrade records a category whose limit could not be resolved
func (s *runningState) degrade(section, label, reason string) {
	s.logger.Warnf("%s: %s", section, reason)
	s.entries = append(s.entries, domain.LedgerEntry{
		Section:      section,
		Label:        label,
		Used:         decimal.Zero,
		Limit:        domain.IndeterminateLimit(reason),
		IncomeBefore: s.income,
		IncomeAfter:  s.income,
	})
}

// deductionStep is one stage of the old-regime pipeline
type deductionStep struct {
	name  string
	apply func(*runningState)
}

// oldRegimePipeline is the fixed application order. Each step sees only the income
// left over by the steps before it.
var oldRegimePipeline = []deductionStep{
	{"standard deduction", applyStandardDeduction},
	{"80C", apply80C},
	{"24(b)", applyHomeLoanInterest},
	{"80EEA", apply80EEA},
	{"80D", applyHealthInsurance},
	{"HRA/80GG", applyHouseRent},
	{"80E", apply80E},
	{"80G", apply80G},
	{"80DDB", apply80DDB},
	{"80CCD(1B)", apply80CCD1B},
	{"80CCD(1)", apply80CCD1},
	{"80CCD(2)", apply80CCD2},
	{"80TTA/80TTB", applyInterestIncome},
	{"80U/80DD", applyDisability},
	{"minor categories", applyMinorCategories},
}

func applyStandardDeduction(s *runningState) {
	if !s.profile.IsSalaried() {
		return
	}
	amount := domain.Money(s.table.StandardDeduction)
	s.claim(domain.SectionStandardDeduction, "Standard Deduction", amount, domain.FixedLimit(amount), false)
}

// 80C pools regular investments with home loan principal under one cap
func apply80C(s *runningState) {
	eligible := decimal.Min(limit80C, s.profile.Investments80C.Add(s.profile.HomeLoanPrincipal))
	s.claim(domain.Section80C, "80C (including Home Loan Principal)", eligible, domain.FixedLimit(limit80C), true)
}

func applyHomeLoanInterest(s *runningState) {
	interest := s.profile.HomeLoanInterest
	if s.profile.PropertySelfOccupied {
		s.claim(domain.Section24B, "24(b) Home Loan Interest", decimal.Min(interest, limit24BSelfOcc), domain.FixedLimit(limit24BSelfOcc), false)
		return
	}
	s.claim(domain.Section24B, "24(b) Home Loan Interest", interest, domain.UnboundedLimit("let-out property"), false)
}

func apply80EEA(s *runningState) {
	if !s.profile.FirstTimeHomeBuyer {
		return
	}
	s.claim(domain.Section80EEA, "80EEA First-Time Buyer Interest", decimal.Min(s.profile.HomeLoanInterest, limit80EEA), domain.FixedLimit(limit80EEA), false)
}

// applyHealthInsurance handles the self premium (always recorded) and the parents premium.
// Missing limits degrade the category instead of failing the run.
func applyHealthInsurance(s *runningState) {
	limits, ok := s.table.HealthInsuranceLimitsFor(s.profile.Age)
	if !ok {
		s.degrade(domain.Section80D, "80D Health Insurance", "80D limits missing for "+s.table.AssessmentYear)
	} else {
		eligible := decimal.Min(s.profile.HealthInsuranceSelf, limits.Self)
		s.claim(domain.Section80D, "80D Health Insurance", eligible, domain.FixedLimit(limits.Self), true)
	}

	if !s.profile.HealthInsuranceParents.IsPositive() {
		return
	}
	parentAge := 0
	if s.profile.ParentsSeniorCitizen {
		parentAge = 60
	}
	parentLimits, ok := s.table.HealthInsuranceLimitsFor(parentAge)
	if !ok {
		s.degrade(domain.Section80DParents, "80D Parents Health Insurance", "80D parents limit missing for "+s.table.AssessmentYear)
		return
	}
	eligible := decimal.Min(s.profile.HealthInsuranceParents, parentLimits.Parents)
	s.claim(domain.Section80DParents, "80D Parents Health Insurance", eligible, domain.FixedLimit(parentLimits.Parents), false)
}

// applyHouseRent applies the HRA exemption or, for renters without HRA, 80GG
func applyHouseRent(s *runningState) {
	p := s.profile
	if p.HasHRA && p.IsSalaried() && p.HRAReceived.IsPositive() && p.Rent.IsPositive() {
		exemption := hraExemption(p)
		s.claim(domain.SectionHRA, "HRA Exemption", exemption, domain.FixedLimit(exemption), false)
		return
	}
	if !p.HasHRA && p.Rent.IsPositive() && p.ExemptedUnder80GG {
		ggCap := decimal.Min(limit80GG, s.income.Mul(rate80GGIncome)).Round(2)
		eligible := decimal.Min(ggCap, p.Rent.Sub(s.income.Mul(rateTenPercent)).Round(2))
		s.claim(domain.Section80GG, "80GG Rent Paid", eligible, domain.FixedLimit(ggCap), false)
	}
}

// hraExemption is the least of HRA received, the location limit and rent above 10% of basic
func hraExemption(p domain.TaxpayerProfile) decimal.Decimal {
	rate := rateHRANonMetro
	if p.IsMetro() {
		rate = rateHRAMetro
	}
	locationLimit := p.BasicSalary.Mul(rate)
	rentExcess := p.Rent.Sub(p.BasicSalary.Mul(rateTenPercent))
	exemption := decimal.Min(p.HRAReceived, locationLimit, rentExcess)
	if exemption.IsNegative() {
		return decimal.Zero
	}
	return exemption.Round(2)
}

func apply80E(s *runningState) {
	s.claim(domain.Section80E, "80E Education Loan Interest", s.profile.StudentLoanInterest, domain.UnboundedLimit("full interest"), false)
}

func apply80G(s *runningState) {
	eligible := s.profile.Donations80G.Mul(rate80G).Round(2)
	s.claim(domain.Section80G, "80G Donations", eligible, domain.UnboundedLimit("50% of donation"), false)
}

func apply80DDB(s *runningState) {
	limit := limit80DDB
	if s.profile.IsSenior() {
		limit = limit80DDBSenior
	}
	s.claim(domain.Section80DDB, "80DDB Critical Illness", decimal.Min(s.profile.MedicalTreatment80DDB, limit), domain.FixedLimit(limit), false)
}

func apply80CCD1B(s *runningState) {
	s.claim(domain.Section80CCD1B, "80CCD(1B) Additional NPS", decimal.Min(s.profile.NPS80CCD1B, limit80CCD1B), domain.FixedLimit(limit80CCD1B), true)
}

func apply80CCD1(s *runningState) {
	s.claim(domain.Section80CCD1, "80CCD(1) NPS", decimal.Min(s.profile.NPS80CCD1, limit80CCD1), domain.FixedLimit(limit80CCD1), false)
}

func apply80CCD2(s *runningState) {
	limit := s.profile.BasicSalary.Mul(rateTenPercent).Round(2)
	s.claim(domain.Section80CCD2, "80CCD(2) Employer NPS", decimal.Min(s.profile.EmployerNPS80CCD2, limit), domain.FixedLimit(limit), false)
}

// applyInterestIncome picks 80TTA below 60 and 80TTB from 60, never both
func applyInterestIncome(s *runningState) {
	if s.profile.IsSenior() {
		s.claim(domain.Section80TTB, "80TTB Senior Interest", decimal.Min(s.profile.InterestIncome80TTB, limit80TTB), domain.FixedLimit(limit80TTB), false)
		return
	}
	s.claim(domain.Section80TTA, "80TTA Savings Interest", decimal.Min(s.profile.SavingsInterest80TTA, limit80TTA), domain.FixedLimit(limit80TTA), false)
}

// applyDisability claims 80U for the taxpayer and 80DD for a dependent independently
func applyDisability(s *runningState) {
	if s.profile.SelfDisability {
		limit := disabilityAmount(s.profile.SelfDisabilitySevere)
		s.claim(domain.Section80U, "80U Self Disability", limit, domain.FixedLimit(limit), false)
	}
	if s.profile.DependentDisability {
		limit := disabilityAmount(s.profile.DependentDisabilitySevere)
		s.claim(domain.Section80DD, "80DD Dependent Disability", limit, domain.FixedLimit(limit), false)
	}
}

func disabilityAmount(severe bool) decimal.Decimal {
	if severe {
		return limitDisabilitySev
	}
	return limitDisability
}

// applyMinorCategories handles the categories that do not interact with each other
func applyMinorCategories(s *runningState) {
	p := s.profile
	s.claim(domain.Section80RRB, "80RRB Royalty Income", decimal.Min(p.RoyaltyIncome80RRB, limit80RRB), domain.FixedLimit(limit80RRB), false)
	s.claim(domain.Section80IAC, "80IAC Startup Investment", p.StartupInvestment80IAC, domain.UnboundedLimit("eligible startup profits"), false)
	s.claim(domain.Section80P, "80P Cooperative Income", p.CooperativeIncome80P, domain.UnboundedLimit("cooperative income"), false)

	jjaa := p.NewEmployeeWages80JJAA.Mul(rate80JJAA).Round(2)
	s.claim(domain.Section80JJAA, "80JJAA New Employee Wages", jjaa, domain.FixedLimit(jjaa), false)
	s.claim(domain.Section80GGA, "80GGA Scientific Research", p.ScientificResearch80GGA, domain.UnboundedLimit("full donation"), false)
}

// finalize computes each entry's saving if its remaining capacity were also used
func (s *runningState) finalize() domain.Ledger {
	final := s.liability(s.income)
	for i := range s.entries {
		e := &s.entries[i]
		headroom := e.Headroom()
		if !headroom.IsPositive() {
			e.EstimatedSavingIfFullyUsed = decimal.Zero
			continue
		}
		lowered := s.income.Sub(headroom)
		if lowered.IsNegative() {
			lowered = decimal.Zero
		}
		e.EstimatedSavingIfFullyUsed = final.Sub(s.liability(lowered)).Round(2)
	}
	return domain.NewLedger(s.entries...)
}
