package cache

import (
	"context"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

//go:generate mockgen -source=cache.go -destination=cache_mock.go -package=cache

// ResultCache stores finished tax reports keyed by profile fingerprint.
// A miss is reported as ok=false with a nil error.
type ResultCache interface {
	Get(ctx context.Context, key string) (*domain.TaxReport, bool, error)
	Set(ctx context.Context, key string, report *domain.TaxReport) error
}
