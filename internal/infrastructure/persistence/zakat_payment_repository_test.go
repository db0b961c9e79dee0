package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockZakatPaymentRepository creates a GormZakatPaymentRepository with a mocked SQL connection
func newMockZakatPaymentRepository(t *testing.T) (*GormZakatPaymentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormZakatPaymentRepository(gormDB), mock, mockDB
}

func TestGormZakatPaymentRepository_SumForYear(t *testing.T) {
	t.Run("sums payments inside the calendar year window", func(t *testing.T) {
		repo, mock, mockDB := newMockZakatPaymentRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		year := time.Now().Year()

		rows := sqlmock.NewRows([]string{"total"}).AddRow("150.00")

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_paid\), 0\) as total FROM "zakat_payments" WHERE user_id = \$1 AND payment_date >= \$2 AND payment_date < \$3`).
			WithArgs(userID, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		total, err := repo.SumForYear(context.Background(), userID, year)

		assert.NoError(t, err)
		assert.Equal(t, "150.00", total.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormZakatPaymentRepository_TotalsByYear(t *testing.T) {
	t.Run("fills missing years with zero, newest first", func(t *testing.T) {
		repo, mock, mockDB := newMockZakatPaymentRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		currentYear := time.Now().Year()

		// Only the current year has payments
		rows := sqlmock.NewRows([]string{"year", "total"}).
			AddRow(currentYear, "200.00")

		mock.ExpectQuery(`SELECT EXTRACT\(YEAR FROM payment_date\)::int as year, COALESCE\(SUM\(amount_paid\), 0\) as total FROM "zakat_payments" WHERE user_id = \$1 AND payment_date >= \$2 AND payment_date < \$3 GROUP BY EXTRACT\(YEAR FROM payment_date\)`).
			WithArgs(userID, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		totals, err := repo.TotalsByYear(context.Background(), userID, 3)

		require.NoError(t, err)
		require.Len(t, totals, 3)
		assert.Equal(t, currentYear, totals[0].Year)
		assert.Equal(t, "200.00", totals[0].Total.String())
		assert.Equal(t, currentYear-1, totals[1].Year)
		assert.True(t, totals[1].Total.IsZero())
		assert.Equal(t, currentYear-2, totals[2].Year)
		assert.True(t, totals[2].Total.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
