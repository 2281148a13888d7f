package compare

import (
	"fmt"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/rgehrsitz/taxsavvy/internal/inr"
	"github.com/rgehrsitz/taxsavvy/internal/output"
)

// GenerateRecommendations summarizes a comparison in plain language
func GenerateRecommendations(cmp domain.RegimeComparison) []string {
	recommendations := []string{}

	chosen := output.RegimeName(cmp.OptimalRegime)
	if cmp.Advantage.IsZero() {
		recommendations = append(recommendations,
			"Both regimes produce the same liability of "+inr.Format(cmp.New.Tax)+"; "+chosen+" keeps filing simpler")
	} else {
		recommendations = append(recommendations,
			fmt.Sprintf("Optimal regime: %s saves %s", chosen, inr.Format(cmp.Advantage)))
	}

	// the old regime only wins once the remaining headroom is invested
	if cmp.OptimalRegime == domain.OldRegime && cmp.Old.Tax.GreaterThanOrEqual(cmp.New.Tax) {
		recommendations = append(recommendations,
			fmt.Sprintf("At current investments the old regime costs %s against %s; it wins only if you use the suggested deductions",
				inr.Format(cmp.Old.Tax), inr.Format(cmp.New.Tax)))
	}

	if saving := cmp.Old.Tax.Sub(cmp.OptimalOldTax); saving.IsPositive() {
		recommendations = append(recommendations,
			"Unused deduction headroom is worth up to "+inr.Format(saving)+" under the old regime")
	}

	if cmp.Old.DefaultSlabs || cmp.New.DefaultSlabs {
		recommendations = append(recommendations,
			fmt.Sprintf("Slab tables for the requested year were unavailable; figures use the built-in %s tables", cmp.Old.AssessmentYear))
	}

	return recommendations
}
