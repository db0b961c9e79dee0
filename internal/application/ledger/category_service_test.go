package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
)

func TestDeleteCategory(t *testing.T) {
	t.Run("moves transactions to the fallback before deleting", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		catRepo := new(MockCategoryRepository)
		svc := NewCategoryService(catRepo, txRepo)

		userID := uuid.New()
		category := newCategory(t, userID, "Dining", ledger.CategoryTypeExpense)
		fallback := newCategory(t, userID, ledger.FallbackCategoryName, ledger.CategoryTypeExpense)

		catRepo.On("FindByIDForUser", mock.Anything, userID, category.ID).Return(category, nil)
		txRepo.On("CountByCategory", mock.Anything, userID, category.ID).Return(int64(4), nil)
		catRepo.On("FindFallbackForUser", mock.Anything, userID, ledger.CategoryTypeExpense).Return(fallback, nil)
		txRepo.On("ReassignCategory", mock.Anything, userID, category.ID, fallback.ID).Return(nil)
		catRepo.On("DeleteForUser", mock.Anything, userID, category.ID).Return(nil)

		err := svc.DeleteCategory(context.Background(), userID, category.ID)

		require.NoError(t, err)
		txRepo.AssertCalled(t, "ReassignCategory", mock.Anything, userID, category.ID, fallback.ID)
		catRepo.AssertCalled(t, "DeleteForUser", mock.Anything, userID, category.ID)
	})

	t.Run("skips reassignment when the category is unused", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		catRepo := new(MockCategoryRepository)
		svc := NewCategoryService(catRepo, txRepo)

		userID := uuid.New()
		category := newCategory(t, userID, "Dining", ledger.CategoryTypeExpense)

		catRepo.On("FindByIDForUser", mock.Anything, userID, category.ID).Return(category, nil)
		txRepo.On("CountByCategory", mock.Anything, userID, category.ID).Return(int64(0), nil)
		catRepo.On("DeleteForUser", mock.Anything, userID, category.ID).Return(nil)

		err := svc.DeleteCategory(context.Background(), userID, category.ID)

		require.NoError(t, err)
		txRepo.AssertNotCalled(t, "ReassignCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("the fallback category cannot be deleted", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		catRepo := new(MockCategoryRepository)
		svc := NewCategoryService(catRepo, txRepo)

		userID := uuid.New()
		fallback := newCategory(t, userID, ledger.FallbackCategoryName, ledger.CategoryTypeExpense)

		catRepo.On("FindByIDForUser", mock.Anything, userID, fallback.ID).Return(fallback, nil)

		err := svc.DeleteCategory(context.Background(), userID, fallback.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		catRepo.AssertNotCalled(t, "DeleteForUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("renames a category", func(t *testing.T) {
		catRepo := new(MockCategoryRepository)
		svc := NewCategoryService(catRepo, new(MockTransactionRepository))

		userID := uuid.New()
		category := newCategory(t, userID, "Food", ledger.CategoryTypeExpense)

		catRepo.On("FindByIDForUser", mock.Anything, userID, category.ID).Return(category, nil)
		catRepo.On("Save", mock.Anything, category).Return(nil)

		resp, err := svc.UpdateCategory(context.Background(), userID, category.ID, UpdateCategoryRequest{Name: "Groceries"})

		require.NoError(t, err)
		assert.Equal(t, "Groceries", resp.Name)
	})

	t.Run("the fallback category cannot be renamed", func(t *testing.T) {
		catRepo := new(MockCategoryRepository)
		svc := NewCategoryService(catRepo, new(MockTransactionRepository))

		userID := uuid.New()
		fallback := newCategory(t, userID, ledger.FallbackCategoryName, ledger.CategoryTypeExpense)

		catRepo.On("FindByIDForUser", mock.Anything, userID, fallback.ID).Return(fallback, nil)

		resp, err := svc.UpdateCategory(context.Background(), userID, fallback.ID, UpdateCategoryRequest{Name: "Misc"})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}
