package zakat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// CalculationMethod selects which balances feed the eligible amount
type CalculationMethod string

const (
	// MethodAutomatic includes the ledger's net balance alongside declared assets.
	MethodAutomatic CalculationMethod = "AUTOMATIC"
	// MethodManual counts only explicitly declared assets.
	MethodManual CalculationMethod = "MANUAL"
)

// IsValid checks if the calculation method is a known value
func (m CalculationMethod) IsValid() bool {
	return m == MethodAutomatic || m == MethodManual
}

// Defaults seeded for every new user at registration
var (
	DefaultNisabAmount = valueobject.NewMoneyFromFloat(5000.00)
	DefaultZakatRate   = decimal.NewFromFloat(2.5)
)

// Settings holds a user's zakat calculation parameters (1:1 with the user)
type Settings struct {
	shared.OwnedEntity
	NisabAmount       valueobject.Money
	ZakatRate         decimal.Decimal
	CalculationMethod CalculationMethod
}

// NewSettings creates settings for a user after validating the parameters
func NewSettings(userID uuid.UUID, nisabAmount valueobject.Money, zakatRate decimal.Decimal, method CalculationMethod) (*Settings, error) {
	if !nisabAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Nisab amount must be positive")
	}
	if zakatRate.IsNegative() || zakatRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Zakat rate must be between 0 and 100")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Calculation method must be AUTOMATIC or MANUAL")
	}
	return &Settings{
		OwnedEntity:       shared.NewOwnedEntity(userID),
		NisabAmount:       nisabAmount,
		ZakatRate:         zakatRate,
		CalculationMethod: method,
	}, nil
}

// DefaultSettings returns the settings seeded for a new user
func DefaultSettings(userID uuid.UUID) *Settings {
	return &Settings{
		OwnedEntity:       shared.NewOwnedEntity(userID),
		NisabAmount:       DefaultNisabAmount,
		ZakatRate:         DefaultZakatRate,
		CalculationMethod: MethodAutomatic,
	}
}

// Update replaces the settings values
func (s *Settings) Update(nisabAmount valueobject.Money, zakatRate decimal.Decimal, method CalculationMethod) error {
	if !nisabAmount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Nisab amount must be positive")
	}
	if zakatRate.IsNegative() || zakatRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_INPUT", "Zakat rate must be between 0 and 100")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Calculation method must be AUTOMATIC or MANUAL")
	}
	s.NisabAmount = nisabAmount
	s.ZakatRate = zakatRate
	s.CalculationMethod = method
	s.UpdatedAt = time.Now()
	return nil
}

// SettingsRepository defines persistence operations for zakat settings
type SettingsRepository interface {
	// FindForUser returns shared.ErrNotFound when the user has no settings row.
	FindForUser(ctx context.Context, userID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}
