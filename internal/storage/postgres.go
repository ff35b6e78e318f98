package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"campaign-validator/internal/config"
	"campaign-validator/internal/validation"
)

type Store struct {
	pool    *pgxpool.Pool
	channel string
}

// PolicyRow is one row of archetype_policies. NULL columns keep the default.
type PolicyRow struct {
	Family         string
	BidRatio       sql.NullFloat64
	MaxKeywords    sql.NullInt32
	MinTOSModifier sql.NullFloat64
	MaxBudgetShare sql.NullFloat64
}

func New(ctx context.Context, cfg config.Config) (*Store, error) {
	dsn := cfg.DSN()
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Postgres.MaxIdleConns)
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	return &Store{pool: pool, channel: cfg.Listener.Channel}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LoadPolicyOverrides reads threshold overrides for every family.
func (s *Store) LoadPolicyOverrides(ctx context.Context) ([]validation.PolicyOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT family, bid_ratio, max_keywords, min_tos_modifier, max_budget_share
		FROM archetype_policies
		ORDER BY family
	`)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	var out []validation.PolicyOverride
	for rows.Next() {
		var r PolicyRow
		if err := rows.Scan(&r.Family, &r.BidRatio, &r.MaxKeywords, &r.MinTOSModifier, &r.MaxBudgetShare); err != nil {
			return nil, fmt.Errorf("scan policy row: %w", err)
		}
		o, ok := r.Override()
		if !ok {
			log.Warn().Str("family", r.Family).Msg("ignoring policy for unknown family")
			continue
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}
	return out, nil
}

// Override converts the row; ok is false for unknown family names.
func (r PolicyRow) Override() (validation.PolicyOverride, bool) {
	f, ok := validation.ParseFamily(r.Family)
	if !ok || f == validation.FamilyUnknown {
		return validation.PolicyOverride{}, false
	}
	o := validation.PolicyOverride{Family: f}
	if r.BidRatio.Valid {
		o.BidRatio = validation.Float(r.BidRatio.Float64)
	}
	if r.MaxKeywords.Valid {
		o.MaxKeywords = validation.Int(int(r.MaxKeywords.Int32))
	}
	if r.MinTOSModifier.Valid {
		o.MinTOSModifier = validation.Float(r.MinTOSModifier.Float64)
	}
	if r.MaxBudgetShare.Valid {
		o.MaxBudgetShare = validation.Float(r.MaxBudgetShare.Float64)
	}
	return o, true
}

// Record inserts audit records in one batch.
func (s *Store) Record(ctx context.Context, recs ...AuditRecord) error {
	if len(recs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	b := &pgx.Batch{}
	for _, r := range recs {
		b.Queue(`
			INSERT INTO validation_audit (id, batch_id, campaign_type, family, is_valid, error, kind, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, r.ID, r.BatchID, r.CampaignType, r.Family, r.IsValid, r.Error, r.Kind, r.CreatedAt)
	}
	if err := s.pool.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (s *Store) ListenChannel() string {
	if s.channel == "" {
		return config.DefaultPolicyChannel
	}
	return s.channel
}

func (s *Store) PgxPool() *pgxpool.Pool {
	if s.pool == nil {
		panic(errors.New("pgx pool is nil"))
	}
	return s.pool
}
