package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements ledger.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForUser finds a category owned by the user
func (r *GormCategoryRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Category, error) {
	var model models.CategoryModel
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

// FindAllForUser returns all of the user's categories ordered by type then name
func (r *GormCategoryRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]ledger.Category, error) {
	var categoryModels []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("type ASC, name ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	categories := make([]ledger.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// FindFallbackForUser finds the user's fallback category of the given type
func (r *GormCategoryRepository) FindFallbackForUser(ctx context.Context, userID uuid.UUID, categoryType ledger.CategoryType) (*ledger.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND name = ?", userID, categoryType, ledger.FallbackCategoryName).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *ledger.Category) error {
	model := models.CategoryModelFromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll creates the given categories in one batch
func (r *GormCategoryRepository) SaveAll(ctx context.Context, categories []*ledger.Category) error {
	if len(categories) == 0 {
		return nil
	}
	categoryModels := make([]*models.CategoryModel, len(categories))
	for i, c := range categories {
		categoryModels[i] = models.CategoryModelFromDomain(c)
	}
	return r.db.WithContext(ctx).Create(&categoryModels).Error
}

// DeleteForUser deletes a category owned by the user
func (r *GormCategoryRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "user_id = ? AND id = ?", userID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ ledger.CategoryRepository = (*GormCategoryRepository)(nil)
