package zakat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// AssetSource identifies the kind of zakatable holding
type AssetSource string

const (
	AssetSourceCash       AssetSource = "CASH"
	AssetSourceSavings    AssetSource = "SAVINGS"
	AssetSourceGold       AssetSource = "GOLD"
	AssetSourceInvestment AssetSource = "INVESTMENT"
)

// IsValid checks if the asset source is a known value
func (s AssetSource) IsValid() bool {
	switch s {
	case AssetSourceCash, AssetSourceSavings, AssetSourceGold, AssetSourceInvestment:
		return true
	}
	return false
}

// AssetSources lists all valid sources in display order
func AssetSources() []AssetSource {
	return []AssetSource{AssetSourceCash, AssetSourceSavings, AssetSourceGold, AssetSourceInvestment}
}

// Asset is a standing zakatable holding declared by a user. A user may hold
// several assets of the same source.
type Asset struct {
	shared.OwnedEntity
	Source AssetSource
	Amount valueobject.Money
	Date   time.Time
}

// NewAsset creates a new asset after validating its fields
func NewAsset(userID uuid.UUID, source AssetSource, amount valueobject.Money, date time.Time) (*Asset, error) {
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset source must be one of CASH, SAVINGS, GOLD, INVESTMENT")
	}
	if err := validateAssetAmount(amount); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	if date.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset date cannot be in the future")
	}
	return &Asset{
		OwnedEntity: shared.NewOwnedEntity(userID),
		Source:      source,
		Amount:      amount,
		Date:        date,
	}, nil
}

// Update replaces the asset's fields. A nil date keeps the existing one.
func (a *Asset) Update(source AssetSource, amount valueobject.Money, date *time.Time) error {
	if !source.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Asset source must be one of CASH, SAVINGS, GOLD, INVESTMENT")
	}
	if err := validateAssetAmount(amount); err != nil {
		return err
	}
	if date != nil {
		if date.After(time.Now()) {
			return shared.NewDomainError("INVALID_INPUT", "Asset date cannot be in the future")
		}
		a.Date = *date
	}
	a.Source = source
	a.Amount = amount
	a.UpdatedAt = time.Now()
	return nil
}

func validateAssetAmount(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Asset amount must be positive")
	}
	if !amount.Amount().Equal(amount.Round().Amount()) {
		return shared.NewDomainError("INVALID_INPUT", "Asset amount must have at most 2 decimal places")
	}
	return nil
}

// AssetRepository defines persistence operations for zakat assets
type AssetRepository interface {
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Asset, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]Asset, error)
	// SumForUser returns the total declared asset amount in a single
	// aggregate query.
	SumForUser(ctx context.Context, userID uuid.UUID) (valueobject.Money, error)
	Save(ctx context.Context, asset *Asset) error
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}
