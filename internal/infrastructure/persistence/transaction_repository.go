package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
	"github.com/nokib-web/expensetracker/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByIDForUser finds a transaction owned by the user
func (r *GormTransactionRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
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

// FindAllForUser returns the user's transactions with filtering, newest first
func (r *GormTransactionRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	var transactionModels []models.TransactionModel
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]ledger.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// CountForUser counts the user's transactions matching the filter
func (r *GormTransactionRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter ledger.TransactionFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("user_id = ?", userID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NetBalanceForUser computes lifetime income and expense totals in one
// grouped aggregate query.
func (r *GormTransactionRepository) NetBalanceForUser(ctx context.Context, userID uuid.UUID) (ledger.NetBalance, error) {
	var result struct {
		TotalIncome  valueobject.Money
		TotalExpense valueobject.Money
	}
	if err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_expense",
			ledger.TransactionTypeIncome, ledger.TransactionTypeExpense).
		Where("user_id = ?", userID).
		Scan(&result).Error; err != nil {
		return ledger.NetBalance{}, err
	}
	return ledger.NetBalance{
		TotalIncome:  result.TotalIncome,
		TotalExpense: result.TotalExpense,
	}, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForUser deletes a transaction owned by the user
func (r *GormTransactionRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "user_id = ? AND id = ?", userID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReassignCategory moves all of the user's transactions from one category to another
func (r *GormTransactionRepository) ReassignCategory(ctx context.Context, userID, fromCategoryID, toCategoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("user_id = ? AND category_id = ?", userID, fromCategoryID).
		Update("category_id", toCategoryID).Error
}

// CountByCategory counts the user's transactions in a category
func (r *GormTransactionRepository) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter conditions, ordering and pagination
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter ledger.TransactionFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order("date DESC, created_at DESC")

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.TransactionFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", filter.ToDate)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	return query
}

var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
