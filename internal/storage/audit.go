package storage

import (
	"time"

	"github.com/google/uuid"

	"campaign-validator/internal/validation"
)

// AuditRecord is one validation outcome as stored in validation_audit.
type AuditRecord struct {
	ID           uuid.UUID `json:"id"`
	BatchID      uuid.UUID `json:"batchId"`
	CampaignType string    `json:"campaignType"`
	Family       string    `json:"family"`
	IsValid      bool      `json:"isValid"`
	Error        string    `json:"error,omitempty"`
	Kind         string    `json:"kind,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewAuditRecord builds a record for a result. batchID is uuid.Nil for single
// validations.
func NewAuditRecord(batchID uuid.UUID, c validation.Context, r validation.Result) AuditRecord {
	return AuditRecord{
		ID:           uuid.New(),
		BatchID:      batchID,
		CampaignType: c.CampaignType,
		Family:       validation.Classify(c.CampaignType).String(),
		IsValid:      r.IsValid,
		Error:        r.Error,
		Kind:         string(r.Kind),
		CreatedAt:    time.Now().UTC(),
	}
}
