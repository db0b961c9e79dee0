package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// LargeTransactionNotifier is notified when a transaction crosses the
// user's configured threshold. Implemented by the notification dispatcher.
type LargeTransactionNotifier interface {
	NotifyLargeTransaction(ctx context.Context, userID uuid.UUID, amount valueobject.Money, description string)
}

// TransactionService provides application-level transaction operations
type TransactionService struct {
	transactionRepo ledger.TransactionRepository
	categoryRepo    ledger.CategoryRepository
	notifier        LargeTransactionNotifier
	logger          *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo ledger.TransactionRepository,
	categoryRepo ledger.CategoryRepository,
	notifier LargeTransactionNotifier,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uuid.UUID         `json:"id"`
	Type        string            `json:"type"`
	Amount      valueobject.Money `json:"amount"`
	CategoryID  uuid.UUID         `json:"category_id"`
	Description string            `json:"description,omitempty"`
	Date        time.Time         `json:"date"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CreateTransactionRequest represents a request to create a transaction
type CreateTransactionRequest struct {
	Type        string            `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount      valueobject.Money `json:"amount" binding:"required"`
	CategoryID  uuid.UUID         `json:"category_id" binding:"required"`
	Description string            `json:"description" binding:"max=200"`
	Date        time.Time         `json:"date" binding:"required"`
}

// UpdateTransactionRequest represents a request to update a transaction
type UpdateTransactionRequest struct {
	Type        string            `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount      valueobject.Money `json:"amount" binding:"required"`
	CategoryID  uuid.UUID         `json:"category_id" binding:"required"`
	Description string            `json:"description" binding:"max=200"`
	Date        time.Time         `json:"date" binding:"required"`
}

// TransactionListFilter defines filtering options for transaction list queries
type TransactionListFilter struct {
	Type       string     `form:"type"`
	CategoryID *uuid.UUID `form:"category_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// NetBalanceResponse represents the user's lifetime ledger balance
type NetBalanceResponse struct {
	TotalIncome  valueobject.Money `json:"total_income"`
	TotalExpense valueobject.Money `json:"total_expense"`
	NetBalance   valueobject.Money `json:"net_balance"`
}

// CreateTransaction records a new transaction. The category must belong to
// the user and match the transaction type.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	txType := ledger.TransactionType(req.Type)
	if err := s.checkCategory(ctx, userID, req.CategoryID, txType); err != nil {
		return nil, err
	}

	tx, err := ledger.NewTransaction(userID, txType, req.Amount, req.CategoryID, req.Description, req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyLargeTransaction(ctx, userID, tx.Amount, tx.Description)
	}

	return toTransactionResponse(tx), nil
}

// GetTransaction returns a transaction owned by the user
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// ListTransactions returns the user's transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := ledger.TransactionFilter{
		CategoryID: filter.CategoryID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Search:     filter.Search,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}
	if filter.Type != "" {
		txType := ledger.TransactionType(filter.Type)
		domainFilter.Type = &txType
	}

	transactions, err := s.transactionRepo.FindAllForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactionRepo.CountForUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = *toTransactionResponse(&transactions[i])
	}
	return responses, total, nil
}

// UpdateTransaction updates a transaction owned by the user
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	txType := ledger.TransactionType(req.Type)
	if err := s.checkCategory(ctx, userID, req.CategoryID, txType); err != nil {
		return nil, err
	}

	if err := tx.Update(txType, req.Amount, req.CategoryID, req.Description, req.Date); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// DeleteTransaction deletes a transaction owned by the user
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	return s.transactionRepo.DeleteForUser(ctx, userID, id)
}

// GetNetBalance returns the user's lifetime income/expense totals
func (s *TransactionService) GetNetBalance(ctx context.Context, userID uuid.UUID) (*NetBalanceResponse, error) {
	balance, err := s.transactionRepo.NetBalanceForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NetBalanceResponse{
		TotalIncome:  balance.TotalIncome,
		TotalExpense: balance.TotalExpense,
		NetBalance:   balance.Net(),
	}, nil
}

// checkCategory verifies ownership and that the category type matches the
// transaction type. A category the user does not own reads as not found.
func (s *TransactionService) checkCategory(ctx context.Context, userID, categoryID uuid.UUID, txType ledger.TransactionType) error {
	category, err := s.categoryRepo.FindByIDForUser(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if string(category.Type) != string(txType) {
		return shared.NewDomainError("INVALID_INPUT", "Category type does not match transaction type")
	}
	return nil
}

func toTransactionResponse(t *ledger.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		CategoryID:  t.CategoryID,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
