package domain

import (
	"github.com/shopspring/decimal"
)

// City classifications used for the HRA location limit
const (
	CityMetro    = "metro"
	CityNonMetro = "non-metro"
)

// TaxpayerProfile is the validated input to every calculation.
// All amounts are annual rupee figures.
type TaxpayerProfile struct {
	Income         decimal.Decimal `yaml:"income" json:"income"`
	Age            int             `yaml:"age" json:"age"`
	Gender         string          `yaml:"gender" json:"gender"`
	City           string          `yaml:"city" json:"city"`
	AssessmentYear string          `yaml:"assessment_year" json:"assessment_year"`

	// Salary and housing
	BasicSalary          decimal.Decimal `yaml:"basic_salary" json:"basic_salary"`
	HasHRA               bool            `yaml:"has_hra" json:"has_hra"`
	HRAReceived          decimal.Decimal `yaml:"hra_received" json:"hra_received"`
	Rent                 decimal.Decimal `yaml:"rent" json:"rent"`
	ExemptedUnder80GG    bool            `yaml:"is_exempted_under_80gg" json:"is_exempted_under_80gg"`
	HomeLoanInterest     decimal.Decimal `yaml:"home_loan_interest" json:"home_loan_interest"`
	HomeLoanPrincipal    decimal.Decimal `yaml:"home_loan_principal_80c" json:"home_loan_principal_80c"`
	PropertySelfOccupied bool            `yaml:"property_self_occupied" json:"property_self_occupied"`
	FirstTimeHomeBuyer   bool            `yaml:"first_time_home_buyer" json:"first_time_home_buyer"`

	// Investments and contributions
	Investments80C    decimal.Decimal `yaml:"total_80c_investments" json:"total_80c_investments"`
	NPS80CCD1         decimal.Decimal `yaml:"nps_80ccd1" json:"nps_80ccd1"`
	NPS80CCD1B        decimal.Decimal `yaml:"nps_80ccd1b" json:"nps_80ccd1b"`
	EmployerNPS80CCD2 decimal.Decimal `yaml:"employer_nps_80ccd2" json:"employer_nps_80ccd2"`

	// Health
	HealthInsuranceSelf       decimal.Decimal `yaml:"health_insurance_self_parents" json:"health_insurance_self_parents"`
	HealthInsuranceParents    decimal.Decimal `yaml:"health_insurance_parents" json:"health_insurance_parents"`
	ParentsSeniorCitizen      bool            `yaml:"parents_senior_citizen" json:"parents_senior_citizen"`
	MedicalTreatment80DDB     decimal.Decimal `yaml:"medical_treatment_80ddb" json:"medical_treatment_80ddb"`
	SelfDisability            bool            `yaml:"self_disability" json:"self_disability"`
	SelfDisabilitySevere      bool            `yaml:"self_disability_severe" json:"self_disability_severe"`
	DependentDisability       bool            `yaml:"dependent_disability" json:"dependent_disability"`
	DependentDisabilitySevere bool            `yaml:"dependent_disability_severe" json:"dependent_disability_severe"`

	// Loans, donations and interest
	StudentLoanInterest  decimal.Decimal `yaml:"student_loan_interest" json:"student_loan_interest"`
	Donations80G         decimal.Decimal `yaml:"donations_80g" json:"donations_80g"`
	SavingsInterest80TTA decimal.Decimal `yaml:"savings_interest_80tta" json:"savings_interest_80tta"`
	InterestIncome80TTB  decimal.Decimal `yaml:"interest_income_80ttb" json:"interest_income_80ttb"`

	// Minor categories
	RoyaltyIncome80RRB      decimal.Decimal `yaml:"royalty_income_80rrb" json:"royalty_income_80rrb"`
	StartupInvestment80IAC  decimal.Decimal `yaml:"startup_investment_80iac" json:"startup_investment_80iac"`
	CooperativeIncome80P    decimal.Decimal `yaml:"cooperative_income_80p" json:"cooperative_income_80p"`
	NewEmployeeWages80JJAA  decimal.Decimal `yaml:"new_employee_wages_80jjaa" json:"new_employee_wages_80jjaa"`
	ScientificResearch80GGA decimal.Decimal `yaml:"scientific_research_80gga" json:"scientific_research_80gga"`
}

// IsSalaried reports whether the standard deduction applies
func (p TaxpayerProfile) IsSalaried() bool {
	return p.BasicSalary.GreaterThan(decimal.Zero)
}

// IsMetro reports whether the taxpayer lives in a metro city
func (p TaxpayerProfile) IsMetro() bool {
	return p.City == CityMetro
}

// IsSenior reports whether the taxpayer is 60 or older
func (p TaxpayerProfile) IsSenior() bool {
	return p.Age >= 60
}

// Normalized returns a copy with every amount rounded to paise and negatives clamped to zero.
func (p TaxpayerProfile) Normalized() TaxpayerProfile {
	for _, amt := range p.amounts() {
		*amt = Money(*amt)
	}
	return p
}

// amounts lists pointers to every monetary field of the receiver
func (p *TaxpayerProfile) amounts() []*decimal.Decimal {
	return []*decimal.Decimal{
		&p.Income, &p.BasicSalary, &p.HRAReceived, &p.Rent,
		&p.HomeLoanInterest, &p.HomeLoanPrincipal,
		&p.Investments80C, &p.NPS80CCD1, &p.NPS80CCD1B, &p.EmployerNPS80CCD2,
		&p.HealthInsuranceSelf, &p.HealthInsuranceParents, &p.MedicalTreatment80DDB,
		&p.StudentLoanInterest, &p.Donations80G, &p.SavingsInterest80TTA, &p.InterestIncome80TTB,
		&p.RoyaltyIncome80RRB, &p.StartupInvestment80IAC, &p.CooperativeIncome80P,
		&p.NewEmployeeWages80JJAA, &p.ScientificResearch80GGA,
	}
}

// AmountFields returns each monetary field keyed by its yaml name, for validation.
func (p TaxpayerProfile) AmountFields() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"income":                        p.Income,
		"basic_salary":                  p.BasicSalary,
		"hra_received":                  p.HRAReceived,
		"rent":                          p.Rent,
		"home_loan_interest":            p.HomeLoanInterest,
		"home_loan_principal_80c":       p.HomeLoanPrincipal,
		"total_80c_investments":         p.Investments80C,
		"nps_80ccd1":                    p.NPS80CCD1,
		"nps_80ccd1b":                   p.NPS80CCD1B,
		"employer_nps_80ccd2":           p.EmployerNPS80CCD2,
		"health_insurance_self_parents": p.HealthInsuranceSelf,
		"health_insurance_parents":      p.HealthInsuranceParents,
		"medical_treatment_80ddb":       p.MedicalTreatment80DDB,
		"student_loan_interest":         p.StudentLoanInterest,
		"donations_80g":                 p.Donations80G,
		"savings_interest_80tta":        p.SavingsInterest80TTA,
		"interest_income_80ttb":         p.InterestIncome80TTB,
		"royalty_income_80rrb":          p.RoyaltyIncome80RRB,
		"startup_investment_80iac":      p.StartupInvestment80IAC,
		"cooperative_income_80p":        p.CooperativeIncome80P,
		"new_employee_wages_80jjaa":     p.NewEmployeeWages80JJAA,
		"scientific_research_80gga":     p.ScientificResearch80GGA,
	}
}

// Money rounds an amount to two decimal places and clamps it at zero
func Money(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}
