package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
	"github.com/nokib-web/expensetracker/internal/domain/zakat"
	"github.com/nokib-web/expensetracker/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormZakatAssetRepository implements zakat.AssetRepository using GORM
type GormZakatAssetRepository struct {
	db *gorm.DB
}

// NewGormZakatAssetRepository creates a new GormZakatAssetRepository
func NewGormZakatAssetRepository(db *gorm.DB) *GormZakatAssetRepository {
	return &GormZakatAssetRepository{db: db}
}

// FindByIDForUser finds an asset owned by the user
func (r *GormZakatAssetRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*zakat.Asset, error) {
	var model models.ZakatAssetModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser returns all of the user's assets, newest first
func (r *GormZakatAssetRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]zakat.Asset, error) {
	var assetModels []models.ZakatAssetModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&assetModels).Error; err != nil {
		return nil, err
	}
	assets := make([]zakat.Asset, len(assetModels))
	for i, model := range assetModels {
		assets[i] = *model.ToDomain()
	}
	return assets, nil
}

// SumForUser computes the total declared asset amount in one aggregate query
func (r *GormZakatAssetRepository) SumForUser(ctx context.Context, userID uuid.UUID) (valueobject.Money, error) {
	var result struct {
		Total valueobject.Money
	}
	if err := r.db.WithContext(ctx).Model(&models.ZakatAssetModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("user_id = ?", userID).
		Scan(&result).Error; err != nil {
		return valueobject.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates an asset
func (r *GormZakatAssetRepository) Save(ctx context.Context, asset *zakat.Asset) error {
	model := models.ZakatAssetModelFromDomain(asset)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForUser deletes an asset owned by the user
func (r *GormZakatAssetRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ZakatAssetModel{}, "user_id = ? AND id = ?", userID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ zakat.AssetRepository = (*GormZakatAssetRepository)(nil)
