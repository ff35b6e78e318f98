package storage

import (
	"context"
	"sync"
)

// MemoryAudit keeps the most recent audit records in memory. It is used when
// Postgres is disabled.
type MemoryAudit struct {
	mu      sync.RWMutex
	limit   int
	records []AuditRecord
}

// NewMemoryAudit keeps at most limit records; limit <= 0 keeps 1000.
func NewMemoryAudit(limit int) *MemoryAudit {
	if limit <= 0 {
		limit = 1000
	}
	return &MemoryAudit{limit: limit}
}

func (m *MemoryAudit) Record(_ context.Context, recs ...AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recs...)
	if over := len(m.records) - m.limit; over > 0 {
		m.records = append([]AuditRecord(nil), m.records[over:]...)
	}
	return nil
}

// Records returns a copy of the stored records, oldest first.
func (m *MemoryAudit) Records() []AuditRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]AuditRecord(nil), m.records...)
}
