package config

import (
	"fmt"
	"sync"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// Logger is the subset of calculation.Logger the repository needs
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// SlabRepository caches the slab document for the life of the process.
// Reload swaps the whole document under the write lock, so a lookup never
// sees a half-loaded year.
type SlabRepository struct {
	mu       sync.RWMutex
	path     string
	doc      SlabDocument
	fallback SlabDocument
	logger   Logger

	// incremented on every successful load
	generation uint64
}

// NewSlabRepository loads the document at path. An empty path serves the built-in tables.
func NewSlabRepository(path string, logger Logger) (*SlabRepository, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	r := &SlabRepository{
		path:     path,
		fallback: DefaultSlabDocument(),
		logger:   logger,
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the backing file, or "" for the built-in tables
func (r *SlabRepository) Path() string {
	return r.path
}

// Reload re-reads the backing file. On failure the previous document stays in place.
func (r *SlabRepository) Reload() error {
	doc := r.fallback
	if r.path != "" {
		loaded, err := LoadSlabDocument(r.path)
		if err != nil {
			return fmt.Errorf("failed to load slab document: %w", err)
		}
		doc = loaded
	}

	r.mu.Lock()
	r.doc = doc
	r.generation++
	r.mu.Unlock()

	r.logger.Infof("slab tables loaded for %v", doc.Years())
	return nil
}

// Generation identifies the loaded document. Result caches key on it so a
// reload invalidates earlier entries.
func (r *SlabRepository) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Years lists the assessment years the repository serves directly
func (r *SlabRepository) Years() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Years()
}

// Lookup returns the table for a year, regime and taxpayer age.
// An empty or unknown year degrades to the built-in default tables.
func (r *SlabRepository) Lookup(year string, regime domain.Regime, age int) (domain.SlabTable, error) {
	band := domain.AgeBandFor(regime, age)

	r.mu.RLock()
	yd, ok := r.doc[year]
	r.mu.RUnlock()

	if ok {
		return yd.Table(year, regime, band)
	}

	if year == "" {
		r.logger.Warnf("no assessment year given, using built-in %s tables", DefaultAssessmentYear)
	} else {
		r.logger.Warnf("no slab tables for %s, using built-in %s tables", year, DefaultAssessmentYear)
	}
	table, err := r.fallback[DefaultAssessmentYear].Table(DefaultAssessmentYear, regime, band)
	if err != nil {
		return domain.SlabTable{}, err
	}
	table.Default = true
	return table, nil
}

// Tables returns the old and new regime tables for a profile
func (r *SlabRepository) Tables(profile domain.TaxpayerProfile) (oldTable, newTable domain.SlabTable, err error) {
	if oldTable, err = r.Lookup(profile.AssessmentYear, domain.OldRegime, profile.Age); err != nil {
		return domain.SlabTable{}, domain.SlabTable{}, err
	}
	if newTable, err = r.Lookup(profile.AssessmentYear, domain.NewRegime, profile.Age); err != nil {
		return domain.SlabTable{}, domain.SlabTable{}, err
	}
	return oldTable, newTable, nil
}
