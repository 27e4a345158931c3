package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourops-pricing/internal/model"
	"github.com/nurpe/tourops-pricing/internal/pricing"
)

const maxWriteAttempts = 3

const rateColumns = `
	id,
	seq,
	tenant_id,
	offering_id,
	category,
	sub_key,
	season_from,
	season_to,
	is_active,
	payload,
	created_at,
	updated_at
`

type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

type rateRow struct {
	ID         uuid.UUID
	Seq        int64
	TenantID   uuid.UUID
	OfferingID uuid.UUID
	Category   string
	SubKey     string
	SeasonFrom time.Time
	SeasonTo   time.Time
	IsActive   bool
	Payload    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (row rateRow) toModel() (model.RateRecord, error) {
	category := model.ServiceCategory(row.Category)
	payload, err := model.DecodeRatePayload(category, []byte(row.Payload))
	if err != nil {
		return model.RateRecord{}, fmt.Errorf("decode rate %s payload: %w", row.ID, err)
	}
	return model.RateRecord{
		ID:         row.ID,
		Seq:        row.Seq,
		TenantID:   row.TenantID,
		OfferingID: row.OfferingID,
		Category:   category,
		SeasonFrom: pricing.DateOnly(row.SeasonFrom),
		SeasonTo:   pricing.DateOnly(row.SeasonTo),
		IsActive:   row.IsActive,
		Payload:    payload,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func toModels(rows []rateRow) ([]model.RateRecord, error) {
	result := make([]model.RateRecord, 0, len(rows))
	for _, row := range rows {
		rate, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, rate)
	}
	return result, nil
}

func (r *RateRepository) FindCandidates(ctx context.Context, query model.RateQuery) ([]model.RateRecord, error) {
	return findCandidates(r.db.WithContext(ctx), query)
}

func findCandidates(db *gorm.DB, query model.RateQuery) ([]model.RateRecord, error) {
	baseQuery := `SELECT` + rateColumns + `
		FROM rate_seasons
		WHERE tenant_id = ?
			AND offering_id = ?
			AND is_active
	`
	args := []interface{}{query.TenantID, query.OfferingID}
	if query.SubKey != "" {
		baseQuery += " AND sub_key = ?"
		args = append(args, query.SubKey)
	}
	if !query.AsOf.IsZero() {
		asOf := pricing.DateOnly(query.AsOf)
		baseQuery += " AND season_from <= ? AND season_to >= ?"
		args = append(args, asOf, asOf)
	}
	if query.ExcludeID != uuid.Nil {
		baseQuery += " AND id <> ?"
		args = append(args, query.ExcludeID)
	}
	baseQuery += " ORDER BY seq DESC"

	var rows []rateRow
	if err := db.Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toModels(rows)
}

func (r *RateRepository) GetRate(ctx context.Context, tenantID, id uuid.UUID) (*model.RateRecord, error) {
	var row rateRow
	if err := r.db.WithContext(ctx).Raw(`SELECT`+rateColumns+`
		FROM rate_seasons
		WHERE id = ? AND tenant_id = ?
		LIMIT 1
	`, id, tenantID).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	rate, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *RateRepository) ListRates(ctx context.Context, tenantID, offeringID uuid.UUID) ([]model.RateRecord, error) {
	var rows []rateRow
	if err := r.db.WithContext(ctx).Raw(`SELECT`+rateColumns+`
		FROM rate_seasons
		WHERE tenant_id = ? AND offering_id = ?
		ORDER BY season_from ASC, seq ASC
	`, tenantID, offeringID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toModels(rows)
}

// SaveRate runs the guard and the write in one serializable transaction that
// also holds the offering row lock, so concurrent writers of one offering
// queue up behind each other. The exclusion constraint on rate_seasons backs
// this up; its violations and serialization failures are retried so the
// guard can report the colliding season.
func (r *RateRepository) SaveRate(ctx context.Context, rate model.RateRecord, guard model.RateGuard) (*model.RateRecord, error) {
	payload, err := json.Marshal(rate.Payload)
	if err != nil {
		return nil, err
	}

	var saved rateRow
	for attempt := 1; ; attempt++ {
		saved = rateRow{}
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var lockedID uuid.UUID
			if err := tx.Raw(`
				SELECT id FROM service_offerings
				WHERE id = ? AND tenant_id = ?
				FOR UPDATE
			`, rate.OfferingID, rate.TenantID).Scan(&lockedID).Error; err != nil {
				return err
			}
			if lockedID == uuid.Nil {
				return gorm.ErrRecordNotFound
			}

			if guard != nil {
				siblings, err := findCandidates(tx, model.RateQuery{
					TenantID:   rate.TenantID,
					OfferingID: rate.OfferingID,
					ExcludeID:  rate.ID,
				})
				if err != nil {
					return err
				}
				if err := guard(siblings); err != nil {
					return err
				}
			}

			if rate.ID == uuid.Nil {
				return tx.Raw(`
					INSERT INTO rate_seasons (
						tenant_id,
						offering_id,
						category,
						sub_key,
						season_from,
						season_to,
						is_active,
						payload
					) VALUES (?, ?, ?, ?, ?, ?, ?, ?::jsonb)
					RETURNING`+rateColumns,
					rate.TenantID,
					rate.OfferingID,
					string(rate.Category),
					rate.SubKey(),
					rate.SeasonFrom,
					rate.SeasonTo,
					rate.IsActive,
					string(payload),
				).Scan(&saved).Error
			}

			if err := tx.Raw(`
				UPDATE rate_seasons
				SET
					sub_key = ?,
					season_from = ?,
					season_to = ?,
					is_active = ?,
					payload = ?::jsonb,
					updated_at = NOW()
				WHERE id = ? AND tenant_id = ?
				RETURNING`+rateColumns,
				rate.SubKey(),
				rate.SeasonFrom,
				rate.SeasonTo,
				rate.IsActive,
				string(payload),
				rate.ID,
				rate.TenantID,
			).Scan(&saved).Error; err != nil {
				return err
			}
			if saved.ID == uuid.Nil {
				return gorm.ErrRecordNotFound
			}
			return nil
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})

		outcome := classifyWriteError(err, attempt)
		if outcome == writeDone {
			break
		}
		switch outcome {
		case writeRetry:
			continue
		case writeConflict:
			return nil, r.conflictError(ctx, rate)
		default:
			return nil, err
		}
	}

	result, err := saved.toModel()
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type writeOutcome int

const (
	writeDone writeOutcome = iota
	writeRetry
	writeConflict
	writeFailed
)

// classifyWriteError decides what SaveRate does after attempt number attempt
// ended with err. Serialization failures, deadlocks and exclusion violations
// are retried until maxWriteAttempts; an exclusion violation that survives
// every attempt is a conflict.
func classifyWriteError(err error, attempt int) writeOutcome {
	switch {
	case err == nil:
		return writeDone
	case isRetryable(err) && attempt < maxWriteAttempts:
		return writeRetry
	case isExclusionViolation(err):
		return writeConflict
	default:
		return writeFailed
	}
}

// conflictError reloads the committed seasons so the caller learns which one
// won the race.
func (r *RateRepository) conflictError(ctx context.Context, rate model.RateRecord) error {
	siblings, err := findCandidates(r.db.WithContext(ctx), model.RateQuery{
		TenantID:   rate.TenantID,
		OfferingID: rate.OfferingID,
		ExcludeID:  rate.ID,
	})
	if err != nil {
		siblings = nil
	}
	return overlapConflict(rate, siblings)
}

func overlapConflict(rate model.RateRecord, siblings []model.RateRecord) error {
	err := pricing.CheckOverlap(pricing.OverlapCandidate{
		TenantID:   rate.TenantID,
		OfferingID: rate.OfferingID,
		SubKey:     rate.SubKey(),
		SeasonFrom: rate.SeasonFrom,
		SeasonTo:   rate.SeasonTo,
		ExcludeID:  rate.ID,
	}, siblings)
	if errors.Is(err, pricing.ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: rate season overlaps an existing active rate", pricing.ErrConflict)
}

func (r *RateRepository) DeactivateRate(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE rate_seasons
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = ? AND tenant_id = ?
	`, id, tenantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
