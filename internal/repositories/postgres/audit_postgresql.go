package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
)

// AuditPostgreSQL implements repositories.AuditRepository
type AuditPostgreSQL struct {
	db *gorm.DB
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &AuditPostgreSQL{db: db}
}

func (r *AuditPostgreSQL) Record(ctx context.Context, entry *models.AuditEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *AuditPostgreSQL) ListByActor(ctx context.Context, actorID uint, limit int) ([]*models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []*models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}
