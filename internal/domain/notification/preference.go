package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// DefaultLargeTransactionLimit is the threshold seeded for new users
var DefaultLargeTransactionLimit = valueobject.NewMoneyFromFloat(1000.00)

// Preference holds a user's notification toggles (1:1 with the user)
type Preference struct {
	shared.OwnedEntity
	ZakatDueEnabled         bool
	LargeTransactionEnabled bool
	LargeTransactionLimit   valueobject.Money
}

// DefaultPreference returns the preference seeded for a new user.
// Both notification types start enabled.
func DefaultPreference(userID uuid.UUID) *Preference {
	return &Preference{
		OwnedEntity:             shared.NewOwnedEntity(userID),
		ZakatDueEnabled:         true,
		LargeTransactionEnabled: true,
		LargeTransactionLimit:   DefaultLargeTransactionLimit,
	}
}

// Update replaces the preference values
func (p *Preference) Update(zakatDue, largeTransaction bool, limit valueobject.Money) error {
	if !limit.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Large transaction limit must be positive")
	}
	p.ZakatDueEnabled = zakatDue
	p.LargeTransactionEnabled = largeTransaction
	p.LargeTransactionLimit = limit
	p.UpdatedAt = time.Now()
	return nil
}

// Allows reports whether the given notification type is enabled
func (p *Preference) Allows(notifType Type) bool {
	switch notifType {
	case TypeZakatDue:
		return p.ZakatDueEnabled
	case TypeLargeTransaction:
		return p.LargeTransactionEnabled
	}
	return false
}

// PreferenceRepository defines persistence operations for notification preferences
type PreferenceRepository interface {
	// FindForUser returns shared.ErrNotFound when the user has no preference row.
	FindForUser(ctx context.Context, userID uuid.UUID) (*Preference, error)
	Save(ctx context.Context, pref *Preference) error
}
