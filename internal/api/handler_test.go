package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-validator/internal/storage"
	"campaign-validator/internal/validation"
)

type failingRecorder struct{ calls int }

func (f *failingRecorder) Record(ctx context.Context, recs ...storage.AuditRecord) error {
	f.calls++
	return errors.New("db down")
}

func newTestRouter(rec Recorder) http.Handler {
	return Router(NewValidationHandler(validation.NewValidator(), rec, 3, 2))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestValidate_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantValid  bool
		wantErr    string
	}{
		{
			name:       "auto research with broad match",
			body:       `{"context":{"campaignType":"SP_AUTO_RESEARCH","match":"BROAD"}}`,
			wantStatus: http.StatusOK,
			wantErr:    "Auto targeting",
		},
		{
			name:       "skag with one keyword",
			body:       `{"context":{"campaignType":"SP_EXACT_SKAG","type":"SP","match":"EXACT","tosModifier":30,"keywords":[{"text":"kw","matchType":"EXACT"}]}}`,
			wantStatus: http.StatusOK,
			wantValid:  true,
		},
		{
			name:       "branded keyword missing brand",
			body:       `{"context":{"campaignType":"SP_BRANDED_UMBRELLA","keywords":[{"text":"running shoes","matchType":"EXACT"}]},"brandName":"Acme"}`,
			wantStatus: http.StatusOK,
			wantErr:    "brand name",
		},
		{
			name:       "unknown type passes",
			body:       `{"context":{"campaignType":"UNKNOWN_TYPE","type":"SP","match":"EXACT","theme":"CUSTOM"}}`,
			wantStatus: http.StatusOK,
			wantValid:  true,
		},
		{
			name:       "missing campaign type",
			body:       `{"context":{"type":"SP"}}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "CampaignType",
		},
		{
			name:       "bad channel",
			body:       `{"context":{"campaignType":"SP_EXACT_COMP","type":"TV"}}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "oneof",
		},
		{
			name:       "negative bid",
			body:       `{"context":{"campaignType":"SP_AUTO_RESEARCH","match":"AUTO","defaultBid":-1}}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "gt",
		},
		{
			name:       "malformed json",
			body:       `{"context":`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid JSON",
		},
		{
			name:       "unknown field",
			body:       `{"context":{"campaignType":"SP_AUTO_RESEARCH"},"extra":1}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestRouter(storage.NewMemoryAudit(10)), http.MethodPost, "/v1/validate", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus != http.StatusOK {
				var er errorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
				assert.Contains(t, er.Error, tt.wantErr)
				return
			}

			var res validation.Result
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, tt.wantValid, res.IsValid)
			if tt.wantErr != "" {
				assert.Contains(t, res.Error, tt.wantErr)
			}
		})
	}
}

func TestValidate_RecordsAudit(t *testing.T) {
	mem := storage.NewMemoryAudit(10)
	h := newTestRouter(mem)

	w := do(t, h, http.MethodPost, "/v1/validate", `{"context":{"campaignType":"SB_VIDEO_COMP","match":"EXACT"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	recs := mem.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "SB_VIDEO_COMP", recs[0].CampaignType)
	assert.Equal(t, "sb_video", recs[0].Family)
	assert.False(t, recs[0].IsValid)
	assert.Equal(t, uuid.Nil, recs[0].BatchID)
}

func TestValidate_RecorderFailureIsNotSurfaced(t *testing.T) {
	rec := &failingRecorder{}
	w := do(t, newTestRouter(rec), http.MethodPost, "/v1/validate", `{"context":{"campaignType":"SP_EXACT_COMP","match":"EXACT"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, rec.calls)
}

func TestValidateBatch(t *testing.T) {
	mem := storage.NewMemoryAudit(10)
	h := newTestRouter(mem)

	body := `{"items":[
		{"context":{"campaignType":"SP_PT_COMP_ASIN","match":"PT","productTargets":["B0ABC123DE","B0XYZ789FG"]}},
		{"context":{"campaignType":"SD_REMARKETING_VIEWS","type":"SP","match":"PT","theme":"REMARKETING"}},
		{"context":{"campaignType":"UNKNOWN_TYPE"}}
	]}`
	w := do(t, h, http.MethodPost, "/v1/validate/batch", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp batchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.BatchID)
	require.Len(t, resp.Results, 3)
	assert.True(t, resp.Results[0].IsValid)
	assert.False(t, resp.Results[1].IsValid)
	assert.True(t, resp.Results[2].IsValid)

	recs := mem.Records()
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.Equal(t, resp.BatchID, r.BatchID)
	}
}

func TestValidateBatch_Limits(t *testing.T) {
	h := newTestRouter(nil)

	item := `{"context":{"campaignType":"X"}}`
	w := do(t, h, http.MethodPost, "/v1/validate/batch", `{"items":[`+strings.Repeat(item+",", 3)+item+`]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds limit of 3")

	w = do(t, h, http.MethodPost, "/v1/validate/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuardrails(t *testing.T) {
	h := newTestRouter(nil)

	w := do(t, h, http.MethodPost, "/v1/guardrails/bid", `{"bid":2.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res validation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "max CPC ceiling")

	w = do(t, h, http.MethodPost, "/v1/guardrails/bid", `{"bid":2.5,"ceiling":3}`)
	res = validation.Result{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.IsValid)

	w = do(t, h, http.MethodPost, "/v1/guardrails/budget", `{"allocation":120,"totalBudget":5000}`)
	res = validation.Result{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.IsValid)
}

func TestCatalogAndPolicies(t *testing.T) {
	h := newTestRouter(nil)

	w := do(t, h, http.MethodGet, "/v1/archetypes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []validation.CatalogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Equal(t, validation.Catalog(), entries)

	w = do(t, h, http.MethodGet, "/v1/policies", "")
	require.Equal(t, http.StatusOK, w.Code)
	var policies []struct {
		Family      string  `json:"family"`
		BidRatio    float64 `json:"bidRatio"`
		MaxKeywords int     `json:"maxKeywords"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &policies))
	require.Len(t, policies, 14)
	assert.Equal(t, "auto_research", policies[0].Family)
	assert.Equal(t, 0.70, policies[0].BidRatio)
	assert.Equal(t, 50, policies[1].MaxKeywords)
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
