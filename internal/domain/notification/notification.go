package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
)

// Type identifies the kind of event a notification reports
type Type string

const (
	// TypeZakatDue fires when a summary read finds an outstanding zakat balance.
	TypeZakatDue Type = "ZAKAT_DUE"
	// TypeLargeTransaction fires when a transaction exceeds the user's limit.
	TypeLargeTransaction Type = "LARGE_TRANSACTION"
)

// IsValid checks if the notification type is a known value
func (t Type) IsValid() bool {
	return t == TypeZakatDue || t == TypeLargeTransaction
}

// Notification is a message delivered to a user's in-app inbox
type Notification struct {
	shared.OwnedEntity
	Type    Type
	Title   string
	Message string
	Read    bool
	ReadAt  *time.Time
}

// NewNotification creates an unread notification
func NewNotification(userID uuid.UUID, notifType Type, title, message string) (*Notification, error) {
	if !notifType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown notification type")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notification title is required")
	}
	return &Notification{
		OwnedEntity: shared.NewOwnedEntity(userID),
		Type:        notifType,
		Title:       title,
		Message:     message,
	}, nil
}

// MarkRead flags the notification as read. Marking twice is a no-op.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}

// NotificationRepository defines persistence operations for notifications
type NotificationRepository interface {
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Notification, error)
	// FindAllForUser returns the user's notifications, newest first.
	FindAllForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error)
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllReadForUser(ctx context.Context, userID uuid.UUID) error
}
