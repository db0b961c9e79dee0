package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
)

// newMockTransactionRepository creates a GormTransactionRepository with a mocked SQL connection
func newMockTransactionRepository(t *testing.T) (*GormTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormTransactionRepository(gormDB), mock, mockDB
}

func TestGormTransactionRepository_NetBalanceForUser(t *testing.T) {
	t.Run("computes income and expense in one query", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"total_income", "total_expense"}).
			AddRow("8000.00", "3000.00")

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN type = \$1 THEN amount ELSE 0 END\), 0\) as total_income, COALESCE\(SUM\(CASE WHEN type = \$2 THEN amount ELSE 0 END\), 0\) as total_expense FROM "transactions" WHERE user_id = \$3`).
			WithArgs(ledger.TransactionTypeIncome, ledger.TransactionTypeExpense, userID).
			WillReturnRows(rows)

		balance, err := repo.NetBalanceForUser(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "8000.00", balance.TotalIncome.String())
		assert.Equal(t, "3000.00", balance.TotalExpense.String())
		assert.Equal(t, "5000.00", balance.Net().String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("net may be negative", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"total_income", "total_expense"}).
			AddRow("2000.00", "5000.00")

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN type = \$1 THEN amount ELSE 0 END\), 0\) as total_income, COALESCE\(SUM\(CASE WHEN type = \$2 THEN amount ELSE 0 END\), 0\) as total_expense FROM "transactions" WHERE user_id = \$3`).
			WithArgs(ledger.TransactionTypeIncome, ledger.TransactionTypeExpense, userID).
			WillReturnRows(rows)

		balance, err := repo.NetBalanceForUser(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "-3000.00", balance.Net().String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_ReassignCategory(t *testing.T) {
	t.Run("moves transactions to fallback category", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		fromID := uuid.New()
		toID := uuid.New()

		mock.ExpectExec(`UPDATE "transactions" SET "category_id"=\$1,"updated_at"=\$2 WHERE user_id = \$3 AND category_id = \$4`).
			WithArgs(toID, sqlmock.AnyArg(), userID, fromID).
			WillReturnResult(sqlmock.NewResult(0, 3))

		err := repo.ReassignCategory(context.Background(), userID, fromID, toID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_DeleteForUser(t *testing.T) {
	t.Run("returns not found for another user's transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		txID := uuid.New()

		mock.ExpectExec(`DELETE FROM "transactions" WHERE user_id = \$1 AND id = \$2`).
			WithArgs(userID, txID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForUser(context.Background(), userID, txID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
