package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
)

// CategoryService provides application-level category operations
type CategoryService struct {
	categoryRepo    ledger.CategoryRepository
	transactionRepo ledger.TransactionRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo ledger.CategoryRepository,
	transactionRepo ledger.TransactionRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
	Type string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CreateCategory creates a new category for the user
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := ledger.NewCategory(userID, req.Name, ledger.CategoryType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories returns all of the user's categories
func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *toCategoryResponse(&categories[i])
	}
	return responses, nil
}

// UpdateCategory renames a category owned by the user.
// The fallback category cannot be renamed.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if category.IsFallback() {
		return nil, shared.NewDomainError("INVALID_STATE", "The fallback category cannot be renamed")
	}
	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// DeleteCategory deletes a category owned by the user. Its transactions are
// moved to the fallback category of the same type first.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if category.IsFallback() {
		return shared.NewDomainError("INVALID_STATE", "The fallback category cannot be deleted")
	}

	count, err := s.transactionRepo.CountByCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		fallback, err := s.categoryRepo.FindFallbackForUser(ctx, userID, category.Type)
		if err != nil {
			return err
		}
		if err := s.transactionRepo.ReassignCategory(ctx, userID, id, fallback.ID); err != nil {
			return err
		}
	}

	return s.categoryRepo.DeleteForUser(ctx, userID, id)
}

func toCategoryResponse(c *ledger.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
	}
}
