package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
	"github.com/nokib-web/expensetracker/internal/domain/zakat"
)

// ZakatAssetModel is the persistence model for the zakat Asset entity
type ZakatAssetModel struct {
	OwnedModel
	Source zakat.AssetSource `gorm:"type:varchar(20);not null;index"`
	Amount valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Date   time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ZakatAssetModel) TableName() string {
	return "zakat_assets"
}

// ToDomain converts the persistence model to a domain Asset entity
func (m *ZakatAssetModel) ToDomain() *zakat.Asset {
	return &zakat.Asset{
		OwnedEntity: m.ToDomainOwned(),
		Source:      m.Source,
		Amount:      m.Amount,
		Date:        m.Date,
	}
}

// FromDomain populates the persistence model from a domain Asset entity
func (m *ZakatAssetModel) FromDomain(a *zakat.Asset) {
	m.FromDomainOwnedEntity(a.OwnedEntity)
	m.Source = a.Source
	m.Amount = a.Amount
	m.Date = a.Date
}

// ZakatAssetModelFromDomain creates a new persistence model from a domain Asset
func ZakatAssetModelFromDomain(a *zakat.Asset) *ZakatAssetModel {
	m := &ZakatAssetModel{}
	m.FromDomain(a)
	return m
}

// ZakatSettingsModel is the persistence model for the zakat Settings entity.
// One row per user.
type ZakatSettingsModel struct {
	OwnedModel
	NisabAmount       valueobject.Money       `gorm:"type:decimal(18,2);not null"`
	ZakatRate         decimal.Decimal         `gorm:"type:decimal(5,2);not null"`
	CalculationMethod zakat.CalculationMethod `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (ZakatSettingsModel) TableName() string {
	return "zakat_settings"
}

// ToDomain converts the persistence model to a domain Settings entity
func (m *ZakatSettingsModel) ToDomain() *zakat.Settings {
	return &zakat.Settings{
		OwnedEntity:       m.ToDomainOwned(),
		NisabAmount:       m.NisabAmount,
		ZakatRate:         m.ZakatRate,
		CalculationMethod: m.CalculationMethod,
	}
}

// FromDomain populates the persistence model from a domain Settings entity
func (m *ZakatSettingsModel) FromDomain(s *zakat.Settings) {
	m.FromDomainOwnedEntity(s.OwnedEntity)
	m.NisabAmount = s.NisabAmount
	m.ZakatRate = s.ZakatRate
	m.CalculationMethod = s.CalculationMethod
}

// ZakatSettingsModelFromDomain creates a new persistence model from a domain Settings
func ZakatSettingsModelFromDomain(s *zakat.Settings) *ZakatSettingsModel {
	m := &ZakatSettingsModel{}
	m.FromDomain(s)
	return m
}

// ZakatPaymentModel is the persistence model for the zakat Payment entity
type ZakatPaymentModel struct {
	OwnedModel
	AmountPaid  valueobject.Money `gorm:"type:decimal(18,2);not null"`
	PaymentDate time.Time         `gorm:"not null;index"`
	Notes       string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ZakatPaymentModel) TableName() string {
	return "zakat_payments"
}

// ToDomain converts the persistence model to a domain Payment entity
func (m *ZakatPaymentModel) ToDomain() *zakat.Payment {
	return &zakat.Payment{
		OwnedEntity: m.ToDomainOwned(),
		AmountPaid:  m.AmountPaid,
		PaymentDate: m.PaymentDate,
		Notes:       m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment entity
func (m *ZakatPaymentModel) FromDomain(p *zakat.Payment) {
	m.FromDomainOwnedEntity(p.OwnedEntity)
	m.AmountPaid = p.AmountPaid
	m.PaymentDate = p.PaymentDate
	m.Notes = p.Notes
}

// ZakatPaymentModelFromDomain creates a new persistence model from a domain Payment
func ZakatPaymentModelFromDomain(p *zakat.Payment) *ZakatPaymentModel {
	m := &ZakatPaymentModel{}
	m.FromDomain(p)
	return m
}
