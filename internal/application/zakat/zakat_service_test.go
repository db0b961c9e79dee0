package zakat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
	"github.com/nokib-web/expensetracker/internal/domain/zakat"
)

// MockAssetRepository is a mock implementation of zakat.AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*zakat.Asset, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zakat.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]zakat.Asset, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]zakat.Asset), args.Error(1)
}

func (m *MockAssetRepository) SumForUser(ctx context.Context, userID uuid.UUID) (valueobject.Money, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

func (m *MockAssetRepository) Save(ctx context.Context, asset *zakat.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of zakat.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindForUser(ctx context.Context, userID uuid.UUID) (*zakat.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zakat.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *zakat.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of zakat.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]zakat.Payment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]zakat.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumForYear(ctx context.Context, userID uuid.UUID, year int) (valueobject.Money, error) {
	args := m.Called(ctx, userID, year)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

func (m *MockPaymentRepository) TotalsByYear(ctx context.Context, userID uuid.UUID, years int) ([]zakat.YearTotal, error) {
	args := m.Called(ctx, userID, years)
	return args.Get(0).([]zakat.YearTotal), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *zakat.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of ledger.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter ledger.TransactionFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) NetBalanceForUser(ctx context.Context, userID uuid.UUID) (ledger.NetBalance, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(ledger.NetBalance), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) ReassignCategory(ctx context.Context, userID, fromCategoryID, toCategoryID uuid.UUID) error {
	args := m.Called(ctx, userID, fromCategoryID, toCategoryID)
	return args.Error(0)
}

func (m *MockTransactionRepository) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDueNotifier is a mock implementation of DueNotifier
type MockDueNotifier struct {
	mock.Mock
}

func (m *MockDueNotifier) NotifyZakatDue(ctx context.Context, userID uuid.UUID, due valueobject.Money, year int) {
	m.Called(ctx, userID, due, year)
}

type serviceMocks struct {
	assetRepo    *MockAssetRepository
	settingsRepo *MockSettingsRepository
	paymentRepo  *MockPaymentRepository
	txRepo       *MockTransactionRepository
	notifier     *MockDueNotifier
}

func newTestService(t *testing.T) (*Service, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		assetRepo:    new(MockAssetRepository),
		settingsRepo: new(MockSettingsRepository),
		paymentRepo:  new(MockPaymentRepository),
		txRepo:       new(MockTransactionRepository),
		notifier:     new(MockDueNotifier),
	}
	svc := NewService(m.assetRepo, m.settingsRepo, m.paymentRepo, m.txRepo, m.notifier, 3, zap.NewNop())
	return svc, m
}

func money(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func defaultTestSettings(t *testing.T, userID uuid.UUID) *zakat.Settings {
	t.Helper()
	settings, err := zakat.NewSettings(userID, money(t, "5000"), decimal.NewFromFloat(2.5), zakat.MethodAutomatic)
	require.NoError(t, err)
	return settings
}

func moneyPtr(t *testing.T, s string) *valueobject.Money {
	t.Helper()
	m := money(t, s)
	return &m
}

func strPtr(s string) *string {
	return &s
}

func TestServiceGetSummary(t *testing.T) {
	t.Run("composes summary and history from the five sources", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		year := time.Now().Year()

		m.assetRepo.On("SumForUser", mock.Anything, userID).Return(money(t, "6000"), nil)
		m.txRepo.On("NetBalanceForUser", mock.Anything, userID).Return(ledger.NetBalance{}, nil)
		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(defaultTestSettings(t, userID), nil)
		m.paymentRepo.On("SumForYear", mock.Anything, userID, year).Return(money(t, "100"), nil)
		m.paymentRepo.On("TotalsByYear", mock.Anything, userID, 3).Return([]zakat.YearTotal{
			{Year: year, Total: money(t, "100")},
			{Year: year - 1, Total: money(t, "120")},
		}, nil)
		m.notifier.On("NotifyZakatDue", mock.Anything, userID, mock.Anything, year).Return()

		resp, err := svc.GetSummary(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, "6000.00", resp.Summary.TotalAssets.String())
		assert.True(t, resp.Summary.MeetsNisab)
		assert.Equal(t, "150.00", resp.Summary.ZakatPayable.String())
		assert.Equal(t, "50.00", resp.Summary.ZakatDue.String())
		require.Len(t, resp.History, 2)
		assert.Equal(t, year, resp.History[0].Year)
		assert.Equal(t, "100.00", resp.History[0].Total.String())
		assert.Equal(t, year-1, resp.History[1].Year)
		assert.Equal(t, "120.00", resp.History[1].Total.String())
		m.notifier.AssertCalled(t, "NotifyZakatDue", mock.Anything, userID, mock.Anything, year)
	})

	t.Run("missing settings yields a not-eligible summary", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		year := time.Now().Year()

		m.assetRepo.On("SumForUser", mock.Anything, userID).Return(money(t, "10000"), nil)
		m.txRepo.On("NetBalanceForUser", mock.Anything, userID).Return(ledger.NetBalance{}, nil)
		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(nil, shared.ErrNotFound)
		m.paymentRepo.On("SumForYear", mock.Anything, userID, year).Return(valueobject.Zero, nil)
		m.paymentRepo.On("TotalsByYear", mock.Anything, userID, 3).Return([]zakat.YearTotal{}, nil)

		resp, err := svc.GetSummary(context.Background(), userID)

		require.NoError(t, err)
		assert.False(t, resp.Summary.MeetsNisab)
		assert.True(t, resp.Summary.NisabAmount.IsZero())
		assert.True(t, resp.Summary.ZakatPayable.IsZero())
		assert.True(t, resp.Summary.ZakatDue.IsZero())
		m.notifier.AssertNotCalled(t, "NotifyZakatDue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no reminder when nothing is due", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		year := time.Now().Year()

		m.assetRepo.On("SumForUser", mock.Anything, userID).Return(money(t, "6000"), nil)
		m.txRepo.On("NetBalanceForUser", mock.Anything, userID).Return(ledger.NetBalance{}, nil)
		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(defaultTestSettings(t, userID), nil)
		m.paymentRepo.On("SumForYear", mock.Anything, userID, year).Return(money(t, "150"), nil)
		m.paymentRepo.On("TotalsByYear", mock.Anything, userID, 3).Return([]zakat.YearTotal{}, nil)

		resp, err := svc.GetSummary(context.Background(), userID)

		require.NoError(t, err)
		assert.True(t, resp.Summary.ZakatDue.IsZero())
		m.notifier.AssertNotCalled(t, "NotifyZakatDue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates a failed read", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		year := time.Now().Year()
		boom := errors.New("connection reset")

		m.assetRepo.On("SumForUser", mock.Anything, userID).Return(valueobject.Zero, boom)
		m.txRepo.On("NetBalanceForUser", mock.Anything, userID).Return(ledger.NetBalance{}, nil)
		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(defaultTestSettings(t, userID), nil)
		m.paymentRepo.On("SumForYear", mock.Anything, userID, year).Return(valueobject.Zero, nil)
		m.paymentRepo.On("TotalsByYear", mock.Anything, userID, 3).Return([]zakat.YearTotal{}, nil)

		resp, err := svc.GetSummary(context.Background(), userID)

		assert.Nil(t, resp)
		assert.Equal(t, boom, err)
	})
}

func TestServiceRecordPayment(t *testing.T) {
	t.Run("records payment and returns fresh summary", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		year := time.Now().Year()

		m.paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*zakat.Payment")).Return(nil)
		m.assetRepo.On("SumForUser", mock.Anything, userID).Return(money(t, "6000"), nil)
		m.txRepo.On("NetBalanceForUser", mock.Anything, userID).Return(ledger.NetBalance{}, nil)
		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(defaultTestSettings(t, userID), nil)
		m.paymentRepo.On("SumForYear", mock.Anything, userID, year).Return(money(t, "150"), nil)
		m.paymentRepo.On("TotalsByYear", mock.Anything, userID, 3).Return([]zakat.YearTotal{
			{Year: year, Total: money(t, "150")},
		}, nil)

		resp, err := svc.RecordPayment(context.Background(), userID, RecordPaymentRequest{
			AmountPaid: money(t, "150"),
		})

		require.NoError(t, err)
		assert.Equal(t, "150.00", resp.Payment.AmountPaid.String())
		assert.True(t, resp.Summary.ZakatDue.IsZero())
		m.paymentRepo.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*zakat.Payment"))
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		svc, _ := newTestService(t)
		userID := uuid.New()

		resp, err := svc.RecordPayment(context.Background(), userID, RecordPaymentRequest{
			AmountPaid: valueobject.Zero,
		})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestServiceUpdateSettings(t *testing.T) {
	t.Run("creates settings when the user has none", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		rate := decimal.NewFromFloat(2.5)

		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(nil, shared.ErrNotFound)
		m.settingsRepo.On("Save", mock.Anything, mock.AnythingOfType("*zakat.Settings")).Return(nil)

		resp, err := svc.UpdateSettings(context.Background(), userID, UpdateSettingsRequest{
			NisabAmount:       moneyPtr(t, "4500"),
			ZakatRate:         &rate,
			CalculationMethod: strPtr("MANUAL"),
		})

		require.NoError(t, err)
		assert.Equal(t, "4500.00", resp.NisabAmount.String())
		assert.Equal(t, "MANUAL", resp.CalculationMethod)
	})

	t.Run("fills omitted fields with defaults when the user has none", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()

		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(nil, shared.ErrNotFound)
		m.settingsRepo.On("Save", mock.Anything, mock.AnythingOfType("*zakat.Settings")).Return(nil)

		resp, err := svc.UpdateSettings(context.Background(), userID, UpdateSettingsRequest{
			NisabAmount: moneyPtr(t, "7000"),
		})

		require.NoError(t, err)
		assert.Equal(t, "7000.00", resp.NisabAmount.String())
		assert.Equal(t, "2.5", resp.ZakatRate.String())
		assert.Equal(t, "AUTOMATIC", resp.CalculationMethod)
	})

	t.Run("partial update keeps the unspecified fields", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		existing, err := zakat.NewSettings(userID, money(t, "5000"), decimal.NewFromFloat(2.5), zakat.MethodManual)
		require.NoError(t, err)

		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(existing, nil)
		m.settingsRepo.On("Save", mock.Anything, existing).Return(nil)

		resp, err := svc.UpdateSettings(context.Background(), userID, UpdateSettingsRequest{
			NisabAmount: moneyPtr(t, "6000"),
		})

		require.NoError(t, err)
		assert.Equal(t, "6000.00", resp.NisabAmount.String())
		assert.Equal(t, "2.5", resp.ZakatRate.String())
		assert.Equal(t, "MANUAL", resp.CalculationMethod)
	})

	t.Run("rejects an invalid rate", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		rate := decimal.NewFromInt(150)

		m.settingsRepo.On("FindForUser", mock.Anything, userID).Return(defaultTestSettings(t, userID), nil)

		resp, err := svc.UpdateSettings(context.Background(), userID, UpdateSettingsRequest{
			ZakatRate: &rate,
		})

		assert.Nil(t, resp)
		assert.Error(t, err)
	})
}

func TestServiceListAssets(t *testing.T) {
	t.Run("groups assets by source", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()

		cash, err := zakat.NewAsset(userID, zakat.AssetSourceCash, money(t, "1000"), time.Now().Add(-time.Hour))
		require.NoError(t, err)
		gold, err := zakat.NewAsset(userID, zakat.AssetSourceGold, money(t, "2500.50"), time.Now().Add(-time.Hour))
		require.NoError(t, err)
		moreCash, err := zakat.NewAsset(userID, zakat.AssetSourceCash, money(t, "500"), time.Now().Add(-time.Hour))
		require.NoError(t, err)

		m.assetRepo.On("FindAllForUser", mock.Anything, userID).
			Return([]zakat.Asset{*cash, *gold, *moreCash}, nil)

		resp, err := svc.ListAssets(context.Background(), userID)

		require.NoError(t, err)
		require.Len(t, resp, 2)
		require.Len(t, resp["CASH"], 2)
		assert.Equal(t, "1000.00", resp["CASH"][0].Amount.String())
		assert.Equal(t, "500.00", resp["CASH"][1].Amount.String())
		require.Len(t, resp["GOLD"], 1)
		assert.Equal(t, "2500.50", resp["GOLD"][0].Amount.String())
		assert.NotContains(t, resp, "SAVINGS")
	})
}

func TestServiceListPayments(t *testing.T) {
	t.Run("groups payments by calendar year with totals", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		thisYear := time.Now().Year()
		recent := time.Date(thisYear, time.March, 10, 0, 0, 0, 0, time.Local)
		older := time.Date(thisYear-1, time.June, 5, 0, 0, 0, 0, time.Local)

		first, err := zakat.NewPayment(userID, money(t, "100"), recent, "")
		require.NoError(t, err)
		second, err := zakat.NewPayment(userID, money(t, "50"), recent, "")
		require.NoError(t, err)
		previous, err := zakat.NewPayment(userID, money(t, "120"), older, "")
		require.NoError(t, err)

		m.paymentRepo.On("FindAllForUser", mock.Anything, userID).
			Return([]zakat.Payment{*first, *second, *previous}, nil)

		resp, err := svc.ListPayments(context.Background(), userID)

		require.NoError(t, err)
		require.Len(t, resp, 2)
		assert.Len(t, resp[thisYear].Payments, 2)
		assert.Equal(t, "150.00", resp[thisYear].TotalPaid.String())
		assert.Len(t, resp[thisYear-1].Payments, 1)
		assert.Equal(t, "120.00", resp[thisYear-1].TotalPaid.String())
	})

	t.Run("no payments yields an empty map", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()

		m.paymentRepo.On("FindAllForUser", mock.Anything, userID).
			Return([]zakat.Payment{}, nil)

		resp, err := svc.ListPayments(context.Background(), userID)

		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}

func TestServiceUpdateAsset(t *testing.T) {
	t.Run("not owned asset reads as not found", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		assetID := uuid.New()

		m.assetRepo.On("FindByIDForUser", mock.Anything, userID, assetID).Return(nil, shared.ErrNotFound)

		resp, err := svc.UpdateAsset(context.Background(), userID, assetID, UpdateAssetRequest{
			Source: strPtr("CASH"),
			Amount: moneyPtr(t, "100"),
		})

		assert.Nil(t, resp)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("omitted date keeps the existing one", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()
		originalDate := time.Now().Add(-48 * time.Hour)

		asset, err := zakat.NewAsset(userID, zakat.AssetSourceCash, money(t, "100"), originalDate)
		require.NoError(t, err)

		m.assetRepo.On("FindByIDForUser", mock.Anything, userID, asset.ID).Return(asset, nil)
		m.assetRepo.On("Save", mock.Anything, asset).Return(nil)

		resp, err := svc.UpdateAsset(context.Background(), userID, asset.ID, UpdateAssetRequest{
			Source: strPtr("SAVINGS"),
			Amount: moneyPtr(t, "200"),
		})

		require.NoError(t, err)
		assert.Equal(t, "SAVINGS", resp.Source)
		assert.True(t, resp.Date.Equal(originalDate))
	})

	t.Run("omitted source and amount keep the existing values", func(t *testing.T) {
		svc, m := newTestService(t)
		userID := uuid.New()

		asset, err := zakat.NewAsset(userID, zakat.AssetSourceGold, money(t, "300"), time.Now().Add(-time.Hour))
		require.NoError(t, err)

		m.assetRepo.On("FindByIDForUser", mock.Anything, userID, asset.ID).Return(asset, nil)
		m.assetRepo.On("Save", mock.Anything, asset).Return(nil)

		newDate := time.Now().Add(-24 * time.Hour)
		resp, err := svc.UpdateAsset(context.Background(), userID, asset.ID, UpdateAssetRequest{
			Date: &newDate,
		})

		require.NoError(t, err)
		assert.Equal(t, "GOLD", resp.Source)
		assert.Equal(t, "300.00", resp.Amount.String())
		assert.True(t, resp.Date.Equal(newDate))
	})
}
