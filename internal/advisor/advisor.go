package advisor

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/rgehrsitz/taxsavvy/internal/inr"
	"github.com/shopspring/decimal"
)

// Suggestions derive from the ledger only. Savings are taken from each entry as computed
// by the deduction pipeline and never recomputed here.

var gg80Limit = decimal.NewFromInt(60000)

// GenerateSuggestions turns unused ledger headroom into ranked suggestions.
// Capacity suggestions come first, highest saving first with ties in ledger order,
// followed by narrative suggestions.
func GenerateSuggestions(ledger domain.Ledger, profile domain.TaxpayerProfile) []domain.Suggestion {
	var capacity []domain.Suggestion
	for _, e := range ledger.Entries() {
		headroom := e.Headroom()
		if !headroom.IsPositive() {
			continue
		}
		capacity = append(capacity, domain.Suggestion{
			Kind:              domain.SuggestionCapacity,
			Section:           e.Section,
			CurrentInvestment: e.Used,
			Headroom:          headroom,
			PotentialSaving:   e.EstimatedSavingIfFullyUsed,
			Action:            capacityAction(e, headroom),
		})
	}
	sort.SliceStable(capacity, func(i, j int) bool {
		return capacity[i].PotentialSaving.GreaterThan(capacity[j].PotentialSaving)
	})

	return append(capacity, narratives(ledger, profile)...)
}

func capacityAction(e domain.LedgerEntry, headroom decimal.Decimal) string {
	amount := inr.Format(headroom)
	saving := inr.Format(e.EstimatedSavingIfFullyUsed)
	switch e.Section {
	case domain.Section80C:
		return fmt.Sprintf("Invest %s more in 80C instruments such as PPF, ELSS or life insurance to save up to %s", amount, saving)
	case domain.Section80D:
		return fmt.Sprintf("Increase health insurance cover for yourself and family by %s in premium to save up to %s", amount, saving)
	case domain.Section80DParents:
		return fmt.Sprintf("Pay up to %s more in health insurance premium for your parents to save up to %s", amount, saving)
	case domain.Section80CCD1B:
		return fmt.Sprintf("Contribute %s more to NPS Tier I under 80CCD(1B) to save up to %s", amount, saving)
	case domain.Section80CCD1:
		return fmt.Sprintf("Contribute %s more to NPS under 80CCD(1) to save up to %s", amount, saving)
	case domain.Section80CCD2:
		return fmt.Sprintf("Ask your employer to raise its NPS contribution by %s to save up to %s", amount, saving)
	case domain.Section80TTA, domain.Section80TTB:
		return fmt.Sprintf("Up to %s more interest income can be claimed under %s, saving up to %s", amount, e.Section, saving)
	default:
		return fmt.Sprintf("Claim %s more under %s to save up to %s", amount, e.Label, saving)
	}
}

// narratives adds advice the ledger headroom alone cannot express
func narratives(ledger domain.Ledger, profile domain.TaxpayerProfile) []domain.Suggestion {
	var out []domain.Suggestion
	taxableLeft := ledgerIncomeLeft(ledger, profile)

	if profile.HomeLoanInterest.IsPositive() && taxableLeft.IsPositive() {
		_, claimedEEA := ledger.Get(domain.Section80EEA)
		action := "Home loan interest is deductible under 24(b) up to ₹2,00,000 for a self-occupied property"
		if !claimedEEA {
			action += "; first-time buyers can claim a further ₹1,50,000 under 80EEA"
		}
		out = append(out, domain.Suggestion{
			Kind:              domain.SuggestionNarrative,
			Section:           domain.Section80EEA + " / " + domain.Section24B,
			CurrentInvestment: profile.HomeLoanInterest,
			Action:            action,
		})
	}

	_, claimedGG := ledger.Get(domain.Section80GG)
	if profile.Rent.IsPositive() && !profile.HasHRA && !profile.ExemptedUnder80GG && !claimedGG {
		out = append(out, domain.Suggestion{
			Kind:              domain.SuggestionNarrative,
			Section:           domain.Section80GG,
			CurrentInvestment: decimal.Zero,
			Headroom:          gg80Limit,
			Action:            fmt.Sprintf("You pay rent without HRA: claim up to %s a year under 80GG by filing Form 10BA", inr.Format(gg80Limit)),
		})
	}

	return out
}

// ledgerIncomeLeft is the taxable income after the last ledger step
func ledgerIncomeLeft(ledger domain.Ledger, profile domain.TaxpayerProfile) decimal.Decimal {
	entries := ledger.Entries()
	if len(entries) == 0 {
		return profile.Income
	}
	return entries[len(entries)-1].IncomeAfter
}
