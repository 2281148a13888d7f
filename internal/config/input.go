package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"gopkg.in/yaml.v3"
)

var assessmentYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// InputParser handles parsing of taxpayer profile files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadProfile loads a taxpayer profile from a YAML or JSON file
func (ip *InputParser) LoadProfile(filename string) (*domain.TaxpayerProfile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseProfile(data)
}

// ParseProfile parses and validates a profile document
func (ip *InputParser) ParseProfile(data []byte) (*domain.TaxpayerProfile, error) {
	var profile domain.TaxpayerProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &profile, nil
}

// ValidateProfile checks the profile and canonicalizes gender and city in place.
// An empty city defaults to metro.
func (ip *InputParser) ValidateProfile(p *domain.TaxpayerProfile) error {
	if p.Age < 0 || p.Age > 120 {
		return &domain.InvalidProfileError{Field: "age", Reason: "must be between 0 and 120"}
	}

	gender := strings.ToLower(strings.TrimSpace(p.Gender))
	if !validGenders[gender] {
		return &domain.InvalidProfileError{Field: "gender", Reason: "must be one of: male, female, other"}
	}
	p.Gender = gender

	city := strings.ToLower(strings.TrimSpace(p.City))
	if city == "" {
		city = domain.CityMetro
	}
	if city != domain.CityMetro && city != domain.CityNonMetro {
		return &domain.InvalidProfileError{Field: "city", Reason: "must be either metro or non-metro"}
	}
	p.City = city

	fields := p.AmountFields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if fields[name].IsNegative() {
			return &domain.InvalidProfileError{Field: name, Reason: "cannot be negative"}
		}
	}

	if p.AssessmentYear != "" {
		if err := validateAssessmentYear(p.AssessmentYear); err != nil {
			return err
		}
	}
	return nil
}

// validateAssessmentYear enforces YYYY-YY with consecutive years
func validateAssessmentYear(year string) error {
	if !assessmentYearPattern.MatchString(year) {
		return &domain.InvalidProfileError{Field: "assessment_year", Reason: "must be in format YYYY-YY"}
	}
	start, _ := strconv.Atoi(year[:4])
	end, _ := strconv.Atoi(year[5:])
	if (start+1)%100 != end {
		return &domain.InvalidProfileError{Field: "assessment_year", Reason: fmt.Sprintf("%s does not span consecutive years", year)}
	}
	return nil
}
