package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// CategoryModel is the persistence model for the Category entity.
// Uniqueness of (user_id, name, type) is enforced by the schema migration.
type CategoryModel struct {
	OwnedModel
	Name string              `gorm:"type:varchar(50);not null"`
	Type ledger.CategoryType `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity
func (m *CategoryModel) ToDomain() *ledger.Category {
	return &ledger.Category{
		OwnedEntity: m.ToDomainOwned(),
		Name:        m.Name,
		Type:        m.Type,
	}
}

// FromDomain populates the persistence model from a domain Category entity
func (m *CategoryModel) FromDomain(c *ledger.Category) {
	m.FromDomainOwnedEntity(c.OwnedEntity)
	m.Name = c.Name
	m.Type = c.Type
}

// CategoryModelFromDomain creates a new persistence model from a domain Category
func CategoryModelFromDomain(c *ledger.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// TransactionModel is the persistence model for the Transaction entity
type TransactionModel struct {
	OwnedModel
	Type        ledger.TransactionType `gorm:"type:varchar(10);not null;index"`
	Amount      valueobject.Money      `gorm:"type:decimal(18,2);not null"`
	CategoryID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	Description string                 `gorm:"type:varchar(200)"`
	Date        time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		OwnedEntity: m.ToDomainOwned(),
		Type:        m.Type,
		Amount:      m.Amount,
		CategoryID:  m.CategoryID,
		Description: m.Description,
		Date:        m.Date,
	}
}

// FromDomain populates the persistence model from a domain Transaction entity
func (m *TransactionModel) FromDomain(t *ledger.Transaction) {
	m.FromDomainOwnedEntity(t.OwnedEntity)
	m.Type = t.Type
	m.Amount = t.Amount
	m.CategoryID = t.CategoryID
	m.Description = t.Description
	m.Date = t.Date
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
