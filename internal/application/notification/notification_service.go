package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nokib-web/expensetracker/internal/domain/notification"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
	"github.com/nokib-web/expensetracker/internal/infrastructure/cache"
)

// Service dispatches notifications and manages the user's inbox and
// preferences. Dispatch failures are logged, never propagated: a failed
// notification must not fail the operation that triggered it.
type Service struct {
	notifRepo   notification.NotificationRepository
	prefRepo    notification.PreferenceRepository
	throttle    cache.ReminderThrottle
	throttleTTL time.Duration
	logger      *zap.Logger
}

// NewService creates a new notification Service
func NewService(
	notifRepo notification.NotificationRepository,
	prefRepo notification.PreferenceRepository,
	throttle cache.ReminderThrottle,
	throttleTTL time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		notifRepo:   notifRepo,
		prefRepo:    prefRepo,
		throttle:    throttle,
		throttleTTL: throttleTTL,
		logger:      logger,
	}
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PreferenceResponse represents notification preferences in API responses
type PreferenceResponse struct {
	ZakatDueEnabled         bool              `json:"zakat_due_enabled"`
	LargeTransactionEnabled bool              `json:"large_transaction_enabled"`
	LargeTransactionLimit   valueobject.Money `json:"large_transaction_limit"`
}

// UpdatePreferenceRequest represents a request to update notification preferences
type UpdatePreferenceRequest struct {
	ZakatDueEnabled         bool              `json:"zakat_due_enabled"`
	LargeTransactionEnabled bool              `json:"large_transaction_enabled"`
	LargeTransactionLimit   valueobject.Money `json:"large_transaction_limit" binding:"required"`
}

// NotifyLargeTransaction creates a LARGE_TRANSACTION notification when the
// amount crosses the user's configured limit
func (s *Service) NotifyLargeTransaction(ctx context.Context, userID uuid.UUID, amount valueobject.Money, description string) {
	pref := s.preferenceOrDefault(ctx, userID)
	if !pref.Allows(notification.TypeLargeTransaction) {
		return
	}
	if !amount.GreaterThan(pref.LargeTransactionLimit) {
		return
	}

	title := "Large transaction recorded"
	message := fmt.Sprintf("A transaction of %s was recorded", amount.String())
	if description != "" {
		message = fmt.Sprintf("A transaction of %s was recorded: %s", amount.String(), description)
	}

	s.deliver(ctx, userID, notification.TypeLargeTransaction, title, message)
}

// NotifyZakatDue creates a ZAKAT_DUE reminder when an outstanding balance is
// seen. Reminders are throttled per user so repeated summary reads do not
// flood the inbox.
func (s *Service) NotifyZakatDue(ctx context.Context, userID uuid.UUID, due valueobject.Money, year int) {
	if !due.IsPositive() {
		return
	}

	pref := s.preferenceOrDefault(ctx, userID)
	if !pref.Allows(notification.TypeZakatDue) {
		return
	}

	key := fmt.Sprintf("zakat_due:%s:%d", userID, year)
	won, err := s.throttle.Acquire(ctx, key, s.throttleTTL)
	if err != nil {
		s.logger.Warn("Failed to acquire reminder throttle",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}
	if !won {
		return
	}

	title := "Zakat payment due"
	message := fmt.Sprintf("You have an outstanding zakat balance of %s for %d", due.String(), year)
	s.deliver(ctx, userID, notification.TypeZakatDue, title, message)
}

// ListNotifications returns the user's notifications, newest first
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]NotificationResponse, error) {
	notifications, err := s.notifRepo.FindAllForUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = toNotificationResponse(&notifications[i])
	}
	return responses, nil
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnreadForUser(ctx, userID)
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notifRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	n.MarkRead()
	if err := s.notifRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	resp := toNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the user as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllReadForUser(ctx, userID)
}

// GetPreferences returns the user's notification preferences
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (*PreferenceResponse, error) {
	pref := s.preferenceOrDefault(ctx, userID)
	return toPreferenceResponse(pref), nil
}

// UpdatePreferences replaces the user's notification preferences
func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferenceRequest) (*PreferenceResponse, error) {
	pref, err := s.prefRepo.FindForUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		pref = notification.DefaultPreference(userID)
	}

	if err := pref.Update(req.ZakatDueEnabled, req.LargeTransactionEnabled, req.LargeTransactionLimit); err != nil {
		return nil, err
	}
	if err := s.prefRepo.Save(ctx, pref); err != nil {
		return nil, err
	}
	return toPreferenceResponse(pref), nil
}

// preferenceOrDefault loads the user's preferences, falling back to defaults
// when no row exists yet
func (s *Service) preferenceOrDefault(ctx context.Context, userID uuid.UUID) *notification.Preference {
	pref, err := s.prefRepo.FindForUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to load notification preferences",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
		return notification.DefaultPreference(userID)
	}
	return pref
}

func (s *Service) deliver(ctx context.Context, userID uuid.UUID, notifType notification.Type, title, message string) {
	n, err := notification.NewNotification(userID, notifType, title, message)
	if err != nil {
		s.logger.Error("Failed to build notification", zap.Error(err))
		return
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		s.logger.Error("Failed to save notification",
			zap.String("user_id", userID.String()),
			zap.String("type", string(notifType)),
			zap.Error(err),
		)
	}
}

func toNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func toPreferenceResponse(p *notification.Preference) *PreferenceResponse {
	return &PreferenceResponse{
		ZakatDueEnabled:         p.ZakatDueEnabled,
		LargeTransactionEnabled: p.LargeTransactionEnabled,
		LargeTransactionLimit:   p.LargeTransactionLimit,
	}
}
