package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/notification"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByIDForUser finds a notification owned by the user
func (r *GormNotificationRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser returns the user's notifications, newest first
func (r *GormNotificationRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]notification.Notification, error) {
	var notificationModels []models.NotificationModel
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if err := query.Order("created_at DESC").Find(&notificationModels).Error; err != nil {
		return nil, err
	}
	notifications := make([]notification.Notification, len(notificationModels))
	for i, model := range notificationModels {
		notifications[i] = *model.ToDomain()
	}
	return notifications, nil
}

// CountUnreadForUser counts the user's unread notifications
func (r *GormNotificationRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	return r.db.WithContext(ctx).Save(model).Error
}

// MarkAllReadForUser marks every unread notification of the user as read
func (r *GormNotificationRepository) MarkAllReadForUser(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "read_at": now, "updated_at": now}).Error
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)

// GormNotificationPreferenceRepository implements notification.PreferenceRepository using GORM
type GormNotificationPreferenceRepository struct {
	db *gorm.DB
}

// NewGormNotificationPreferenceRepository creates a new GormNotificationPreferenceRepository
func NewGormNotificationPreferenceRepository(db *gorm.DB) *GormNotificationPreferenceRepository {
	return &GormNotificationPreferenceRepository{db: db}
}

// FindForUser finds the user's preference row
func (r *GormNotificationPreferenceRepository) FindForUser(ctx context.Context, userID uuid.UUID) (*notification.Preference, error) {
	var model models.NotificationPreferenceModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates the user's preference
func (r *GormNotificationPreferenceRepository) Save(ctx context.Context, pref *notification.Preference) error {
	model := models.NotificationPreferenceModelFromDomain(pref)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ notification.PreferenceRepository = (*GormNotificationPreferenceRepository)(nil)
