package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// TransactionType classifies a transaction as income or expense
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is a known value
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// MaxDescriptionLength bounds the free-text description field
const MaxDescriptionLength = 200

// Transaction is a single income or expense entry in a user's ledger
type Transaction struct {
	shared.OwnedEntity
	Type        TransactionType
	Amount      valueobject.Money
	CategoryID  uuid.UUID
	Description string
	Date        time.Time
}

// NewTransaction creates a new transaction after validating its fields
func NewTransaction(userID uuid.UUID, txType TransactionType, amount valueobject.Money, categoryID uuid.UUID, description string, date time.Time) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction type must be INCOME or EXPENSE")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category is required")
	}
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Description must be at most 200 characters")
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return &Transaction{
		OwnedEntity: shared.NewOwnedEntity(userID),
		Type:        txType,
		Amount:      amount,
		CategoryID:  categoryID,
		Description: description,
		Date:        date,
	}, nil
}

// Update replaces the mutable fields of the transaction
func (t *Transaction) Update(txType TransactionType, amount valueobject.Money, categoryID uuid.UUID, description string, date time.Time) error {
	if !txType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Transaction type must be INCOME or EXPENSE")
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Category is required")
	}
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLength {
		return shared.NewDomainError("INVALID_INPUT", "Description must be at most 200 characters")
	}
	if err := validateDate(date); err != nil {
		return err
	}
	t.Type = txType
	t.Amount = amount
	t.CategoryID = categoryID
	t.Description = description
	t.Date = date
	t.UpdatedAt = time.Now()
	return nil
}

func validateAmount(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Amount must be positive")
	}
	// Amounts are entered in whole cents
	if !amount.Amount().Equal(amount.Round().Amount()) {
		return shared.NewDomainError("INVALID_INPUT", "Amount must have at most 2 decimal places")
	}
	return nil
}

func validateDate(date time.Time) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Date is required")
	}
	if date.After(time.Now()) {
		return shared.NewDomainError("INVALID_INPUT", "Date cannot be in the future")
	}
	return nil
}

// TransactionFilter defines filtering options for transaction queries
type TransactionFilter struct {
	Type       *TransactionType
	CategoryID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	MinAmount  *valueobject.Money
	MaxAmount  *valueobject.Money
	Search     string
	Page       int
	PageSize   int
}

// NetBalance holds the grouped income/expense sums for a user
type NetBalance struct {
	TotalIncome  valueobject.Money
	TotalExpense valueobject.Money
}

// Net returns income minus expense; may be negative
func (b NetBalance) Net() valueobject.Money {
	return b.TotalIncome.Subtract(b.TotalExpense)
}

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]Transaction, error)
	CountForUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter) (int64, error)
	// NetBalanceForUser computes lifetime income and expense sums in a single
	// grouped aggregate query.
	NetBalanceForUser(ctx context.Context, userID uuid.UUID) (NetBalance, error)
	Save(ctx context.Context, tx *Transaction) error
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
	ReassignCategory(ctx context.Context, userID, fromCategoryID, toCategoryID uuid.UUID) error
	CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error)
}
