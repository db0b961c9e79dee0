package zakat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// MaxNotesLength bounds the free-text notes on a payment
const MaxNotesLength = 500

// Payment is an append-only record of zakat actually paid
type Payment struct {
	shared.OwnedEntity
	AmountPaid  valueobject.Money
	PaymentDate time.Time
	Notes       string
}

// NewPayment creates a new payment record. A zero date defaults to now.
func NewPayment(userID uuid.UUID, amountPaid valueobject.Money, paymentDate time.Time, notes string) (*Payment, error) {
	if !amountPaid.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	if !amountPaid.Amount().Equal(amountPaid.Round().Amount()) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount must have at most 2 decimal places")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	if paymentDate.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment date cannot be in the future")
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notes must be at most 500 characters")
	}
	return &Payment{
		OwnedEntity: shared.NewOwnedEntity(userID),
		AmountPaid:  amountPaid,
		PaymentDate: paymentDate,
		Notes:       notes,
	}, nil
}

// Year returns the calendar year the payment counts toward
func (p *Payment) Year() int {
	return p.PaymentDate.Year()
}

// YearWindow returns the half-open interval [Jan 1 year, Jan 1 year+1)
// in the server's local time zone.
func YearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(1, 0, 0)
}

// YearTotal is the aggregated payment amount for one calendar year
type YearTotal struct {
	Year  int
	Total valueobject.Money
}

// PaymentRepository defines persistence operations for zakat payments
type PaymentRepository interface {
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	// SumForYear returns the total paid inside the calendar-year window.
	SumForYear(ctx context.Context, userID uuid.UUID, year int) (valueobject.Money, error)
	// TotalsByYear returns per-year totals for the most recent years,
	// newest first.
	TotalsByYear(ctx context.Context, userID uuid.UUID, years int) ([]YearTotal, error)
	Save(ctx context.Context, payment *Payment) error
}
