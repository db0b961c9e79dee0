package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/zakat"
	"github.com/nokib-web/expensetracker/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormZakatSettingsRepository implements zakat.SettingsRepository using GORM
type GormZakatSettingsRepository struct {
	db *gorm.DB
}

// NewGormZakatSettingsRepository creates a new GormZakatSettingsRepository
func NewGormZakatSettingsRepository(db *gorm.DB) *GormZakatSettingsRepository {
	return &GormZakatSettingsRepository{db: db}
}

// FindForUser finds the user's settings row
func (r *GormZakatSettingsRepository) FindForUser(ctx context.Context, userID uuid.UUID) (*zakat.Settings, error) {
	var model models.ZakatSettingsModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates the user's settings
func (r *GormZakatSettingsRepository) Save(ctx context.Context, settings *zakat.Settings) error {
	model := models.ZakatSettingsModelFromDomain(settings)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ zakat.SettingsRepository = (*GormZakatSettingsRepository)(nil)
