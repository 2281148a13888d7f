/*
handlers.go - HTTP handlers for the tax regime engine

ENDPOINTS:
  POST /api/calculateTax         Compare regimes for a taxpayer profile
  POST /api/tax/download-report  CSV report of the deduction ledger and suggestions
  POST /api/breakeven            Extra deduction needed for the old regime to win
  GET  /api/slabs                List loaded assessment years
  GET  /api/slabs/{year}         Slab tables for a year (?regime=old|new&age=N)
  GET  /healthz                  Readiness

ERROR HANDLING:
  Errors are JSON {"kind", "message"}:
  - 400: malformed body, invalid profile
  - 404: unknown assessment year
  - 500: malformed slab configuration, internal errors
  - 503: slab document or result cache unavailable
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/taxsavvy/internal/breakeven"
	"github.com/rgehrsitz/taxsavvy/internal/compare"
	"github.com/rgehrsitz/taxsavvy/internal/config"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/rgehrsitz/taxsavvy/internal/output"
)

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 1 << 20

// Pinger is implemented by result caches that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *compare.CompareEngine
	Solver *breakeven.Solver
	Slabs  *config.SlabRepository
	Parser *config.InputParser
}

// NewHandler creates a handler around a comparison engine
func NewHandler(engine *compare.CompareEngine) *Handler {
	return &Handler{
		Engine: engine,
		Solver: breakeven.NewDefaultSolver(engine.CalcEngine),
		Slabs:  engine.Slabs,
		Parser: config.NewInputParser(),
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, KindBadRequest, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, KindBadRequest, "failed to read request body")
		return nil, false
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, KindBadRequest, "request body is empty")
		return nil, false
	}
	return body, true
}

// readProfile parses and validates a profile body, writing the error response on failure
func (h *Handler) readProfile(w http.ResponseWriter, r *http.Request) (*domain.TaxpayerProfile, bool) {
	body, ok := readBody(w, r)
	if !ok {
		return nil, false
	}

	profile, err := h.Parser.ParseProfile(body)
	if err != nil {
		var invalid *domain.InvalidProfileError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, KindInvalidProfile, invalid.Error())
			return nil, false
		}
		writeError(w, http.StatusBadRequest, KindBadRequest, err.Error())
		return nil, false
	}
	return profile, true
}

// CalculateTax compares both regimes for the posted profile
func (h *Handler) CalculateTax(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.readProfile(w, r)
	if !ok {
		return
	}

	report, err := h.Engine.Compare(r.Context(), *profile)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCalculateTaxResponse(report))
}

// DownloadReport renders a CSV report from a previous result or a fresh calculation
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req DownloadReportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request data")
		return
	}

	var report *domain.TaxReport
	switch {
	case req.TaxData != nil:
		report = req.TaxData.report()
	case req.Profile != nil:
		if err := h.Parser.ValidateProfile(req.Profile); err != nil {
			writeError(w, http.StatusBadRequest, KindInvalidProfile, err.Error())
			return
		}
		var err error
		if report, err = h.Engine.Compare(r.Context(), *req.Profile); err != nil {
			writeEngineError(w, err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, KindBadRequest, "tax_data or profile is required")
		return
	}

	data, err := output.CSVReport{}.Format(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, KindInternal, fmt.Sprintf("failed to generate report: %v", err))
		return
	}
	w.Header().Set("Content-Type", output.CSVContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+output.ReportFilename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// BreakEven reports the extra old-regime deduction at which the old regime becomes cheaper
func (h *Handler) BreakEven(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.readProfile(w, r)
	if !ok {
		return
	}

	oldTable, newTable, err := h.Slabs.Tables(*profile)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	result, err := h.Solver.Solve(r.Context(), *profile, oldTable, newTable)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListYears returns the assessment years loaded from the slab document
func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"years": h.Slabs.Years()})
}

// GetSlabs returns the resolved tables for one year. Unlike calculations, an
// unknown year is a 404 rather than a fallback to the built-in tables.
func (h *Handler) GetSlabs(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	if !h.hasYear(year) {
		writeError(w, http.StatusNotFound, KindNotFound, fmt.Sprintf("no slab tables for assessment year %s", year))
		return
	}

	age := 0
	if raw := r.URL.Query().Get("age"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 120 {
			writeError(w, http.StatusBadRequest, KindBadRequest, "age must be an integer between 0 and 120")
			return
		}
		age = n
	}

	regimes := []domain.Regime{domain.OldRegime, domain.NewRegime}
	if raw := r.URL.Query().Get("regime"); raw != "" {
		regime, err := domain.ParseRegime(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, KindBadRequest, err.Error())
			return
		}
		regimes = []domain.Regime{regime}
	}

	resp := SlabsResponse{AssessmentYear: year}
	for _, regime := range regimes {
		table, err := h.Slabs.Lookup(year, regime, age)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		resp.Tables = append(resp.Tables, table)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) hasYear(year string) bool {
	for _, y := range h.Slabs.Years() {
		if y == year {
			return true
		}
	}
	return false
}

// Health reports the loaded slab years and, when the cache supports it, cache connectivity
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     "ok",
		Years:      h.Slabs.Years(),
		Generation: h.Slabs.Generation(),
	}

	if pinger, ok := h.Engine.Cache.(Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Cache = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Cache = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}
