package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
)

// CategoryType classifies a category as income or expense
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// IsValid checks if the category type is a known value
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// FallbackCategoryName is the catch-all category every user gets per type.
// Transactions are moved here when their category is deleted.
const FallbackCategoryName = "Other"

// Category groups transactions of a single type for one user
type Category struct {
	shared.OwnedEntity
	Name string
	Type CategoryType
}

// NewCategory creates a new category for a user
func NewCategory(userID uuid.UUID, name string, categoryType CategoryType) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name is required")
	}
	if len(name) > 50 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name must be at most 50 characters")
	}
	if !categoryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category type must be INCOME or EXPENSE")
	}
	return &Category{
		OwnedEntity: shared.NewOwnedEntity(userID),
		Name:        name,
		Type:        categoryType,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Category name is required")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "Category name must be at most 50 characters")
	}
	c.Name = name
	return nil
}

// IsFallback reports whether this is the protected catch-all category
func (c *Category) IsFallback() bool {
	return c.Name == FallbackCategoryName
}

// DefaultCategories returns the categories seeded for a new user
func DefaultCategories(userID uuid.UUID) []*Category {
	defs := []struct {
		name string
		typ  CategoryType
	}{
		{"Salary", CategoryTypeIncome},
		{"Business", CategoryTypeIncome},
		{FallbackCategoryName, CategoryTypeIncome},
		{"Food", CategoryTypeExpense},
		{"Transport", CategoryTypeExpense},
		{"Housing", CategoryTypeExpense},
		{"Utilities", CategoryTypeExpense},
		{FallbackCategoryName, CategoryTypeExpense},
	}
	categories := make([]*Category, 0, len(defs))
	for _, d := range defs {
		categories = append(categories, &Category{
			OwnedEntity: shared.NewOwnedEntity(userID),
			Name:        d.name,
			Type:        d.typ,
		})
	}
	return categories
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]Category, error)
	FindFallbackForUser(ctx context.Context, userID uuid.UUID, categoryType CategoryType) (*Category, error)
	Save(ctx context.Context, category *Category) error
	SaveAll(ctx context.Context, categories []*Category) error
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}
