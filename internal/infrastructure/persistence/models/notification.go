package models

import (
	"time"

	"github.com/nokib-web/expensetracker/internal/domain/notification"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// NotificationModel is the persistence model for the Notification entity
type NotificationModel struct {
	OwnedModel
	Type    notification.Type `gorm:"type:varchar(30);not null;index"`
	Title   string            `gorm:"type:varchar(200);not null"`
	Message string            `gorm:"type:text"`
	Read    bool              `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		OwnedEntity: m.ToDomainOwned(),
		Type:        m.Type,
		Title:       m.Title,
		Message:     m.Message,
		Read:        m.Read,
		ReadAt:      m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Notification entity
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainOwnedEntity(n.OwnedEntity)
	m.Type = n.Type
	m.Title = n.Title
	m.Message = n.Message
	m.Read = n.Read
	m.ReadAt = n.ReadAt
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}

// NotificationPreferenceModel is the persistence model for notification
// preferences. One row per user.
type NotificationPreferenceModel struct {
	OwnedModel
	ZakatDueEnabled         bool              `gorm:"not null;default:true"`
	LargeTransactionEnabled bool              `gorm:"not null;default:true"`
	LargeTransactionLimit   valueobject.Money `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (NotificationPreferenceModel) TableName() string {
	return "notification_preferences"
}

// ToDomain converts the persistence model to a domain Preference entity
func (m *NotificationPreferenceModel) ToDomain() *notification.Preference {
	return &notification.Preference{
		OwnedEntity:             m.ToDomainOwned(),
		ZakatDueEnabled:         m.ZakatDueEnabled,
		LargeTransactionEnabled: m.LargeTransactionEnabled,
		LargeTransactionLimit:   m.LargeTransactionLimit,
	}
}

// FromDomain populates the persistence model from a domain Preference entity
func (m *NotificationPreferenceModel) FromDomain(p *notification.Preference) {
	m.FromDomainOwnedEntity(p.OwnedEntity)
	m.ZakatDueEnabled = p.ZakatDueEnabled
	m.LargeTransactionEnabled = p.LargeTransactionEnabled
	m.LargeTransactionLimit = p.LargeTransactionLimit
}

// NotificationPreferenceModelFromDomain creates a new persistence model from a domain Preference
func NotificationPreferenceModelFromDomain(p *notification.Preference) *NotificationPreferenceModel {
	m := &NotificationPreferenceModel{}
	m.FromDomain(p)
	return m
}
