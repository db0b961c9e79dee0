package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
	"github.com/nokib-web/expensetracker/internal/domain/zakat"
	"github.com/nokib-web/expensetracker/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormZakatPaymentRepository implements zakat.PaymentRepository using GORM
type GormZakatPaymentRepository struct {
	db *gorm.DB
}

// NewGormZakatPaymentRepository creates a new GormZakatPaymentRepository
func NewGormZakatPaymentRepository(db *gorm.DB) *GormZakatPaymentRepository {
	return &GormZakatPaymentRepository{db: db}
}

// FindAllForUser returns all of the user's payments, newest first
func (r *GormZakatPaymentRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]zakat.Payment, error) {
	var paymentModels []models.ZakatPaymentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("payment_date DESC, created_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]zakat.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// SumForYear computes the total paid inside the calendar-year window
func (r *GormZakatPaymentRepository) SumForYear(ctx context.Context, userID uuid.UUID, year int) (valueobject.Money, error) {
	start, end := zakat.YearWindow(year)

	var result struct {
		Total valueobject.Money
	}
	if err := r.db.WithContext(ctx).Model(&models.ZakatPaymentModel{}).
		Select("COALESCE(SUM(amount_paid), 0) as total").
		Where("user_id = ? AND payment_date >= ? AND payment_date < ?", userID, start, end).
		Scan(&result).Error; err != nil {
		return valueobject.Zero, err
	}
	return result.Total, nil
}

// TotalsByYear returns per-year payment totals for the most recent years,
// newest first. Years without payments are filled in as zero.
func (r *GormZakatPaymentRepository) TotalsByYear(ctx context.Context, userID uuid.UUID, years int) ([]zakat.YearTotal, error) {
	currentYear := time.Now().Year()
	oldest, _ := zakat.YearWindow(currentYear - years + 1)
	_, end := zakat.YearWindow(currentYear)

	var rows []struct {
		Year  int
		Total valueobject.Money
	}
	if err := r.db.WithContext(ctx).Model(&models.ZakatPaymentModel{}).
		Select("EXTRACT(YEAR FROM payment_date)::int as year, COALESCE(SUM(amount_paid), 0) as total").
		Where("user_id = ? AND payment_date >= ? AND payment_date < ?", userID, oldest, end).
		Group("EXTRACT(YEAR FROM payment_date)").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byYear := make(map[int]valueobject.Money, len(rows))
	for _, row := range rows {
		byYear[row.Year] = row.Total
	}

	totals := make([]zakat.YearTotal, 0, years)
	for y := currentYear; y > currentYear-years; y-- {
		total, ok := byYear[y]
		if !ok {
			total = valueobject.Zero
		}
		totals = append(totals, zakat.YearTotal{Year: y, Total: total})
	}
	return totals, nil
}

// Save creates or updates a payment
func (r *GormZakatPaymentRepository) Save(ctx context.Context, payment *zakat.Payment) error {
	model := models.ZakatPaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ zakat.PaymentRepository = (*GormZakatPaymentRepository)(nil)
