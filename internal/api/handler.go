package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"campaign-validator/internal/observability"
	"campaign-validator/internal/storage"
	"campaign-validator/internal/validation"
)

// Recorder persists validation outcomes.
type Recorder interface {
	Record(ctx context.Context, recs ...storage.AuditRecord) error
}

type ValidationHandler struct {
	V        *validation.Validator
	Recorder Recorder
	MaxBatch int
	Workers  int
}

func NewValidationHandler(v *validation.Validator, rec Recorder, maxBatch, workers int) *ValidationHandler {
	return &ValidationHandler{V: v, Recorder: rec, MaxBatch: maxBatch, Workers: workers}
}

var vld = validator.New(validator.WithRequiredStructEnabled())

type batchRequest struct {
	Items []validation.Request `json:"items" validate:"required,min=1,dive"`
}

type batchResponse struct {
	BatchID uuid.UUID           `json:"batchId"`
	Results []validation.Result `json:"results"`
}

type bidCapRequest struct {
	Bid     float64 `json:"bid" validate:"gte=0"`
	Ceiling float64 `json:"ceiling"`
}

type budgetRequest struct {
	Allocation  float64 `json:"allocation"`
	TotalBudget float64 `json:"totalBudget"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, kind string, err error) {
	observability.RequestErrors.WithLabelValues(kind).Inc()
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// decode reads a JSON body into dst and runs struct-tag validation.
func decode(r *http.Request, dst any) (string, error) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return "decode", fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := vld.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			return "request", fmt.Errorf("invalid field %s: failed %q", ves[0].Namespace(), ves[0].Tag())
		}
		return "request", err
	}
	return "", nil
}

func (h *ValidationHandler) observe(ctx context.Context, batchID uuid.UUID, reqs []validation.Request, results []validation.Result) {
	recs := make([]storage.AuditRecord, len(results))
	for i, res := range results {
		c := reqs[i].Context
		family := validation.Classify(c.CampaignType).String()
		observability.ObserveValidation(family, res.IsValid, string(res.Kind))
		if !res.IsValid {
			log.Debug().Str("campaign_type", c.CampaignType).Str("kind", string(res.Kind)).Str("error", res.Error).Msg("campaign rejected")
		}
		recs[i] = storage.NewAuditRecord(batchID, c, res)
	}
	if h.Recorder == nil {
		return
	}
	if err := h.Recorder.Record(ctx, recs...); err != nil {
		log.Error().Err(err).Int("records", len(recs)).Msg("record validation audit")
	}
}

func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validation.Request
	if kind, err := decode(r, &req); err != nil {
		badRequest(w, kind, err)
		return
	}

	res := h.V.Validate(req.Context, req.BrandName)
	h.observe(r.Context(), uuid.Nil, []validation.Request{req}, []validation.Result{res})
	writeJSON(w, http.StatusOK, res)
}

func (h *ValidationHandler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if kind, err := decode(r, &req); err != nil {
		badRequest(w, kind, err)
		return
	}
	if h.MaxBatch > 0 && len(req.Items) > h.MaxBatch {
		badRequest(w, "batch_size", fmt.Errorf("batch of %d items exceeds limit of %d", len(req.Items), h.MaxBatch))
		return
	}

	results, err := h.V.ValidateBatch(r.Context(), req.Items, h.Workers)
	if err != nil {
		observability.RequestErrors.WithLabelValues("cancelled").Inc()
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	batchID := uuid.New()
	h.observe(r.Context(), batchID, req.Items, results)
	writeJSON(w, http.StatusOK, batchResponse{BatchID: batchID, Results: results})
}

func (h *ValidationHandler) BidCap(w http.ResponseWriter, r *http.Request) {
	var req bidCapRequest
	if kind, err := decode(r, &req); err != nil {
		badRequest(w, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, validation.ValidateBidCap(req.Bid, req.Ceiling))
}

func (h *ValidationHandler) BudgetAllocation(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if kind, err := decode(r, &req); err != nil {
		badRequest(w, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, validation.ValidateBudgetAllocation(req.Allocation, req.TotalBudget))
}

func (h *ValidationHandler) Archetypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, validation.Catalog())
}

type policyEntry struct {
	Family string `json:"family"`
	validation.Policy
}

func (h *ValidationHandler) Policies(w http.ResponseWriter, _ *http.Request) {
	p := h.V.Policies()
	out := make([]policyEntry, 0, len(p))
	for f := validation.FamilyUnknown + 1; f <= validation.FamilySDProductTargeting; f++ {
		out = append(out, policyEntry{Family: f.String(), Policy: p[f]})
	}
	writeJSON(w, http.StatusOK, out)
}
