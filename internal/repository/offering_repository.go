package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/tourops-pricing/internal/model"
)

type OfferingRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

func (r *OfferingRepository) GetOffering(ctx context.Context, tenantID, id uuid.UUID) (*model.ServiceOffering, error) {
	var offering model.ServiceOffering
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.tenant_id,
			o.category,
			o.title,
			COALESCE(s.name, '') AS supplier_name,
			COALESCE(o.max_occupancy, 0) AS max_occupancy,
			COALESCE(o.max_passengers, 0) AS max_passengers,
			COALESCE(o.min_participants, 0) AS min_participants,
			COALESCE(o.max_participants, 0) AS max_participants
		FROM service_offerings o
		LEFT JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.id = ? AND o.tenant_id = ?
		LIMIT 1
	`, id, tenantID).Scan(&offering).Error; err != nil {
		return nil, err
	}
	if offering.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &offering, nil
}
