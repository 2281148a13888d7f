package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/taxsavvy/internal/advisor"
	"github.com/rgehrsitz/taxsavvy/internal/cache"
	"github.com/rgehrsitz/taxsavvy/internal/calculation"
	"github.com/rgehrsitz/taxsavvy/internal/config"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// CompareEngine orchestrates table lookup, regime comparison and advice into one report
type CompareEngine struct {
	CalcEngine *calculation.CalculationEngine
	Slabs      *config.SlabRepository

	// Cache is optional; nil disables result caching
	Cache cache.ResultCache

	now func() time.Time
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine, slabs *config.SlabRepository) *CompareEngine {
	return &CompareEngine{
		CalcEngine: calcEngine,
		Slabs:      slabs,
		now:        time.Now,
	}
}

func (ce *CompareEngine) logger() calculation.Logger {
	if ce.CalcEngine == nil || ce.CalcEngine.Logger == nil {
		return calculation.NopLogger{}
	}
	return ce.CalcEngine.Logger
}

// Compare resolves the slab tables for the profile's year and age, compares both
// regimes and attaches optimization suggestions.
func (ce *CompareEngine) Compare(ctx context.Context, profile domain.TaxpayerProfile) (*domain.TaxReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := ce.logger()

	var key string
	if ce.Cache != nil {
		var err error
		if key, err = cache.Fingerprint(profile, ce.Slabs.Generation()); err != nil {
			return nil, err
		}
		cached, ok, err := ce.Cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warnf("result cache lookup failed: %v", err)
		case ok:
			log.Debugf("result cache hit %s", key)
			return cached, nil
		}
	}

	oldTable, newTable, err := ce.Slabs.Tables(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slab tables: %w", err)
	}

	cmp, err := CompareRegimes(ce.CalcEngine, profile, oldTable, newTable)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if ce.now != nil {
		now = ce.now
	}
	report := &domain.TaxReport{
		CalculationID:   uuid.NewString(),
		GeneratedAt:     now().UTC(),
		Profile:         profile,
		Comparison:      cmp,
		Suggestions:     advisor.GenerateSuggestions(cmp.Old.Ledger, profile.Normalized()),
		Recommendations: GenerateRecommendations(cmp),
	}

	if ce.Cache != nil {
		if err := ce.Cache.Set(ctx, key, report); err != nil {
			log.Warnf("result cache store failed: %v", err)
		}
	}
	return report, nil
}
