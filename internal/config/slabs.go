package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SlabDocument is the slab configuration keyed by assessment year.
// JSON documents parse too, since YAML is a superset.
type SlabDocument map[string]YearDocument

// YearDocument holds the reference data of one assessment year.
// Regime-level rebate, surcharge and standard deduction override the year-level values.
type YearDocument struct {
	OldRegime         RegimeDocument             `yaml:"old_regime"`
	NewRegime         RegimeDocument             `yaml:"new_regime"`
	Surcharge         map[string]decimal.Decimal `yaml:"surcharge"`
	Rebate            *RebateDocument            `yaml:"rebate_87A"`
	StandardDeduction *decimal.Decimal           `yaml:"standard_deduction"`
	CessRate          *decimal.Decimal           `yaml:"cess_rate"`
	Section80D        map[string]LimitPair       `yaml:"section_80d_limits"`
}

// RegimeDocument holds the age-banded slab lists of one regime
type RegimeDocument struct {
	General           []SlabEntry                `yaml:"general"`
	Senior            []SlabEntry                `yaml:"senior_citizen"`
	SuperSenior       []SlabEntry                `yaml:"super_senior_citizen"`
	Surcharge         map[string]decimal.Decimal `yaml:"surcharge"`
	Rebate            *RebateDocument            `yaml:"rebate_87A"`
	StandardDeduction *decimal.Decimal           `yaml:"standard_deduction"`
}

// SlabEntry is one slab; a null limit marks the top slab
type SlabEntry struct {
	Limit *decimal.Decimal `yaml:"limit"`
	Rate  *decimal.Decimal `yaml:"rate"`
}

// RebateDocument is the Section 87A rule
type RebateDocument struct {
	MaxRebate   decimal.Decimal `yaml:"max_rebate"`
	IncomeLimit decimal.Decimal `yaml:"income_limit"`
}

// LimitPair is a Section 80D self/parents cap pair
type LimitPair struct {
	Self    *decimal.Decimal `yaml:"self"`
	Parents *decimal.Decimal `yaml:"parents"`
}

var (
	lakh  = decimal.NewFromInt(100000)
	crore = decimal.NewFromInt(10000000)
)

// LoadSlabDocument reads and validates a slab document from disk
func LoadSlabDocument(filename string) (SlabDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &domain.ConfigNotFoundError{Path: filename, Err: err}
	}
	return ParseSlabDocument(data)
}

// ParseSlabDocument parses a slab document and validates every table it defines
func ParseSlabDocument(data []byte) (SlabDocument, error) {
	var doc SlabDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.ConfigMalformedError{Reason: "failed to parse slab document", Err: err}
	}
	if len(doc) == 0 {
		return nil, &domain.ConfigMalformedError{Reason: "no assessment years defined"}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate builds every table in the document and checks it
func (doc SlabDocument) Validate() error {
	for _, year := range doc.Years() {
		y := doc[year]
		if len(y.OldRegime.General) == 0 {
			return &domain.ConfigMalformedError{Year: year, Reason: "old_regime.general slabs are required"}
		}
		if len(y.NewRegime.General) == 0 {
			return &domain.ConfigMalformedError{Year: year, Reason: "new_regime.general slabs are required"}
		}
		for _, band := range []domain.AgeBand{domain.AgeBandGeneral, domain.AgeBandSenior, domain.AgeBandSuperSenior} {
			if _, err := y.Table(year, domain.OldRegime, band); err != nil {
				return err
			}
		}
		if _, err := y.Table(year, domain.NewRegime, domain.AgeBandGeneral); err != nil {
			return err
		}
	}
	return nil
}

// Years returns the assessment years in ascending order
func (doc SlabDocument) Years() []string {
	years := make([]string, 0, len(doc))
	for y := range doc {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

func (r RegimeDocument) slabs(band domain.AgeBand) []SlabEntry {
	switch band {
	case domain.AgeBandSuperSenior:
		if len(r.SuperSenior) > 0 {
			return r.SuperSenior
		}
		if len(r.Senior) > 0 {
			return r.Senior
		}
	case domain.AgeBandSenior:
		if len(r.Senior) > 0 {
			return r.Senior
		}
	}
	return r.General
}

// Table assembles the slab table for one regime and age band of this year
func (y YearDocument) Table(year string, regime domain.Regime, band domain.AgeBand) (domain.SlabTable, error) {
	rd := y.OldRegime
	if regime == domain.NewRegime {
		rd = y.NewRegime
		band = domain.AgeBandGeneral
	}

	table := domain.SlabTable{
		AssessmentYear: year,
		Regime:         regime,
		AgeBand:        band,
		CessRate:       decimal.NewFromFloat(0.04),
	}

	for i, e := range rd.slabs(band) {
		if e.Rate == nil {
			return domain.SlabTable{}, &domain.ConfigMalformedError{Year: year, Reason: fmt.Sprintf("%s/%s slab %d is missing a rate", regime, band, i)}
		}
		slab := domain.Slab{Rate: *e.Rate}
		if e.Limit != nil {
			slab.UpperLimit = decimal.NewNullDecimal(*e.Limit)
		}
		table.Slabs = append(table.Slabs, slab)
	}

	surcharge := y.Surcharge
	if len(rd.Surcharge) > 0 {
		surcharge = rd.Surcharge
	}
	brackets, err := parseSurcharge(surcharge)
	if err != nil {
		return domain.SlabTable{}, &domain.ConfigMalformedError{Year: year, Reason: err.Error()}
	}
	table.Surcharge = brackets

	rebate := y.Rebate
	if rd.Rebate != nil {
		rebate = rd.Rebate
	}
	if rebate != nil {
		if rebate.MaxRebate.IsNegative() || rebate.IncomeLimit.IsNegative() {
			return domain.SlabTable{}, &domain.ConfigMalformedError{Year: year, Reason: "rebate_87A amounts must not be negative"}
		}
		table.Rebate = domain.Rebate{IncomeCeiling: rebate.IncomeLimit, MaxAmount: rebate.MaxRebate}
	}

	standard := y.StandardDeduction
	if rd.StandardDeduction != nil {
		standard = rd.StandardDeduction
	}
	if standard != nil {
		if standard.IsNegative() {
			return domain.SlabTable{}, &domain.ConfigMalformedError{Year: year, Reason: "standard_deduction must not be negative"}
		}
		table.StandardDeduction = *standard
	}

	if y.CessRate != nil {
		if y.CessRate.IsNegative() || y.CessRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return domain.SlabTable{}, &domain.ConfigMalformedError{Year: year, Reason: "cess_rate outside [0,1)"}
		}
		table.CessRate = *y.CessRate
	}

	if regime == domain.OldRegime {
		if table.HealthInsuranceGeneral, err = y.limitPair("general"); err != nil {
			return domain.SlabTable{}, &domain.ConfigMalformedError{Year: year, Reason: err.Error()}
		}
		if table.HealthInsuranceSenior, err = y.limitPair("senior_citizen"); err != nil {
			return domain.SlabTable{}, &domain.ConfigMalformedError{Year: year, Reason: err.Error()}
		}
	}

	if err := table.Validate(); err != nil {
		return domain.SlabTable{}, err
	}
	return table, nil
}

// limitPair returns nil when the band is absent so the engine can degrade the category
func (y YearDocument) limitPair(band string) (*domain.HealthInsuranceLimits, error) {
	pair, ok := y.Section80D[band]
	if !ok || pair.Self == nil {
		return nil, nil
	}
	limits := &domain.HealthInsuranceLimits{Self: *pair.Self, Parents: *pair.Self}
	if pair.Parents != nil {
		limits.Parents = *pair.Parents
	}
	if limits.Self.IsNegative() || limits.Parents.IsNegative() {
		return nil, fmt.Errorf("section_80d_limits.%s must not be negative", band)
	}
	return limits, nil
}

// parseSurcharge turns threshold keys such as "5000000", "50L" or "1Cr" into ascending brackets
func parseSurcharge(rates map[string]decimal.Decimal) ([]domain.SurchargeBracket, error) {
	brackets := make([]domain.SurchargeBracket, 0, len(rates))
	for key, rate := range rates {
		threshold, err := parseThreshold(key)
		if err != nil {
			return nil, err
		}
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("surcharge rate %s for %q outside [0,1)", rate, key)
		}
		brackets = append(brackets, domain.SurchargeBracket{Threshold: threshold, Rate: rate})
	}
	sort.Slice(brackets, func(i, j int) bool {
		return brackets[i].Threshold.LessThan(brackets[j].Threshold)
	})
	for i := 1; i < len(brackets); i++ {
		if brackets[i].Threshold.Equal(brackets[i-1].Threshold) {
			return nil, fmt.Errorf("duplicate surcharge threshold %s", brackets[i].Threshold)
		}
	}
	return brackets, nil
}

func parseThreshold(key string) (decimal.Decimal, error) {
	s := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(key, ",", "")))
	unit := decimal.NewFromInt(1)
	switch {
	case strings.HasSuffix(s, "cr"):
		s, unit = strings.TrimSuffix(s, "cr"), crore
	case strings.HasSuffix(s, "l"):
		s, unit = strings.TrimSuffix(s, "l"), lakh
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || v.IsNegative() {
		return decimal.Zero, fmt.Errorf("unparseable surcharge threshold %q", key)
	}
	return v.Mul(unit), nil
}
