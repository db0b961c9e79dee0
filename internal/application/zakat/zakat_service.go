package zakat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nokib-web/expensetracker/internal/domain/ledger"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
	"github.com/nokib-web/expensetracker/internal/domain/zakat"
)

// DueNotifier is told when a summary read finds an outstanding balance.
// Implemented by the notification dispatcher.
type DueNotifier interface {
	NotifyZakatDue(ctx context.Context, userID uuid.UUID, due valueobject.Money, year int)
}

// Service provides application-level zakat operations. Summaries are never
// stored: every read recomputes from assets, transactions, settings and
// payments.
type Service struct {
	assetRepo       zakat.AssetRepository
	settingsRepo    zakat.SettingsRepository
	paymentRepo     zakat.PaymentRepository
	transactionRepo ledger.TransactionRepository
	notifier        DueNotifier
	historyYears    int
	logger          *zap.Logger
}

// NewService creates a new zakat Service
func NewService(
	assetRepo zakat.AssetRepository,
	settingsRepo zakat.SettingsRepository,
	paymentRepo zakat.PaymentRepository,
	transactionRepo ledger.TransactionRepository,
	notifier DueNotifier,
	historyYears int,
	logger *zap.Logger,
) *Service {
	if historyYears < 1 {
		historyYears = 3
	}
	return &Service{
		assetRepo:       assetRepo,
		settingsRepo:    settingsRepo,
		paymentRepo:     paymentRepo,
		transactionRepo: transactionRepo,
		notifier:        notifier,
		historyYears:    historyYears,
		logger:          logger,
	}
}

// AssetResponse represents a zakat asset in API responses
type AssetResponse struct {
	ID        uuid.UUID         `json:"id"`
	Source    string            `json:"source"`
	Amount    valueobject.Money `json:"amount"`
	Date      time.Time         `json:"date"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// AssetListResponse maps each source to the user's assets from that source
type AssetListResponse map[string][]AssetResponse

// CreateAssetRequest represents a request to declare an asset
type CreateAssetRequest struct {
	Source string            `json:"source" binding:"required,oneof=CASH SAVINGS GOLD INVESTMENT"`
	Amount valueobject.Money `json:"amount" binding:"required"`
	Date   *time.Time        `json:"date"`
}

// UpdateAssetRequest represents a request to edit an asset.
// Every field is optional; a nil field keeps the existing value.
type UpdateAssetRequest struct {
	Source *string            `json:"source" binding:"omitempty,oneof=CASH SAVINGS GOLD INVESTMENT"`
	Amount *valueobject.Money `json:"amount"`
	Date   *time.Time         `json:"date"`
}

// SettingsResponse represents zakat settings in API responses
type SettingsResponse struct {
	NisabAmount       valueobject.Money `json:"nisab_amount"`
	ZakatRate         decimal.Decimal   `json:"zakat_rate"`
	CalculationMethod string            `json:"calculation_method"`
}

// UpdateSettingsRequest represents a request to upsert zakat settings.
// Every field is optional; omitted fields keep their current value, or the
// seeded default when the user has no settings yet.
type UpdateSettingsRequest struct {
	NisabAmount       *valueobject.Money `json:"nisab_amount"`
	ZakatRate         *decimal.Decimal   `json:"zakat_rate"`
	CalculationMethod *string            `json:"calculation_method" binding:"omitempty,oneof=AUTOMATIC MANUAL"`
}

// PaymentResponse represents a zakat payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID         `json:"id"`
	AmountPaid  valueobject.Money `json:"amount_paid"`
	PaymentDate time.Time         `json:"payment_date"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// YearTotalResponse is one calendar year's payment total
type YearTotalResponse struct {
	Year  int               `json:"year"`
	Total valueobject.Money `json:"total"`
}

// SummaryResponse couples the computed summary with recent payment history
type SummaryResponse struct {
	Summary zakat.Summary       `json:"summary"`
	History []YearTotalResponse `json:"history"`
}

// PaymentYearGroup is one calendar year's payments with their total
type PaymentYearGroup struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPaid valueobject.Money `json:"total_paid"`
}

// PaymentListResponse maps each calendar year to its payments and total
type PaymentListResponse map[int]PaymentYearGroup

// RecordPaymentRequest represents a request to record a payment
type RecordPaymentRequest struct {
	AmountPaid  valueobject.Money `json:"amount_paid" binding:"required"`
	PaymentDate *time.Time        `json:"payment_date"`
	Notes       string            `json:"notes" binding:"max=500"`
}

// PayResponse couples the recorded payment with the recomputed summary
type PayResponse struct {
	Payment PaymentResponse `json:"payment"`
	Summary zakat.Summary   `json:"summary"`
}

// GetSummary recomputes the zakat summary from its four sources and pairs it
// with the recent payment history. The reads are independent and fan out
// concurrently.
func (s *Service) GetSummary(ctx context.Context, userID uuid.UUID) (*SummaryResponse, error) {
	year := time.Now().Year()

	var (
		wg          sync.WaitGroup
		totalAssets valueobject.Money
		balance     ledger.NetBalance
		settings    *zakat.Settings
		paid        valueobject.Money
		history     []zakat.YearTotal
		assetErr    error
		balanceErr  error
		settingsErr error
		paidErr     error
		historyErr  error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		totalAssets, assetErr = s.assetRepo.SumForUser(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		balance, balanceErr = s.transactionRepo.NetBalanceForUser(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		settings, settingsErr = s.settingsRepo.FindForUser(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		paid, paidErr = s.paymentRepo.SumForYear(ctx, userID, year)
	}()
	go func() {
		defer wg.Done()
		history, historyErr = s.paymentRepo.TotalsByYear(ctx, userID, s.historyYears)
	}()
	wg.Wait()

	// A user without settings still gets a summary; it just is not eligible
	if settingsErr != nil {
		if !errors.Is(settingsErr, shared.ErrNotFound) {
			return nil, settingsErr
		}
		settings = nil
	}
	if assetErr != nil {
		return nil, assetErr
	}
	if balanceErr != nil {
		return nil, balanceErr
	}
	if paidErr != nil {
		return nil, paidErr
	}
	if historyErr != nil {
		return nil, historyErr
	}

	summary := zakat.Calculate(zakat.CalculationInput{
		TotalAssets: totalAssets,
		NetBalance:  balance.Net(),
		Settings:    settings,
		PaidInYear:  paid,
		Year:        year,
	})

	if s.notifier != nil && summary.ZakatDue.IsPositive() {
		s.notifier.NotifyZakatDue(ctx, userID, summary.ZakatDue, year)
	}

	historyResponses := make([]YearTotalResponse, len(history))
	for i, t := range history {
		historyResponses[i] = YearTotalResponse{Year: t.Year, Total: t.Total}
	}

	return &SummaryResponse{
		Summary: summary,
		History: historyResponses,
	}, nil
}

// CreateAsset declares a new asset for the user
func (s *Service) CreateAsset(ctx context.Context, userID uuid.UUID, req CreateAssetRequest) (*AssetResponse, error) {
	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	asset, err := zakat.NewAsset(userID, zakat.AssetSource(req.Source), req.Amount, date)
	if err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, asset); err != nil {
		return nil, err
	}
	resp := toAssetResponse(asset)
	return &resp, nil
}

// ListAssets returns the user's assets grouped by source
func (s *Service) ListAssets(ctx context.Context, userID uuid.UUID) (AssetListResponse, error) {
	assets, err := s.assetRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grouped := make(AssetListResponse, len(zakat.AssetSources()))
	for i := range assets {
		key := string(assets[i].Source)
		grouped[key] = append(grouped[key], toAssetResponse(&assets[i]))
	}
	return grouped, nil
}

// UpdateAsset updates an asset owned by the user
func (s *Service) UpdateAsset(ctx context.Context, userID, id uuid.UUID, req UpdateAssetRequest) (*AssetResponse, error) {
	asset, err := s.assetRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	source := asset.Source
	if req.Source != nil {
		source = zakat.AssetSource(*req.Source)
	}
	amount := asset.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if err := asset.Update(source, amount, req.Date); err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, asset); err != nil {
		return nil, err
	}
	resp := toAssetResponse(asset)
	return &resp, nil
}

// DeleteAsset deletes an asset owned by the user
func (s *Service) DeleteAsset(ctx context.Context, userID, id uuid.UUID) error {
	return s.assetRepo.DeleteForUser(ctx, userID, id)
}

// GetSettings returns the user's zakat settings
func (s *Service) GetSettings(ctx context.Context, userID uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.FindForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// UpdateSettings applies the given fields onto the user's zakat settings,
// creating them from the seeded defaults when the user has none yet
func (s *Service) UpdateSettings(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.FindForUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		settings = zakat.DefaultSettings(userID)
	}

	nisab := settings.NisabAmount
	if req.NisabAmount != nil {
		nisab = *req.NisabAmount
	}
	rate := settings.ZakatRate
	if req.ZakatRate != nil {
		rate = *req.ZakatRate
	}
	method := settings.CalculationMethod
	if req.CalculationMethod != nil {
		method = zakat.CalculationMethod(*req.CalculationMethod)
	}
	if err := settings.Update(nisab, rate, method); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// ListPayments returns the user's payments grouped by calendar year, each
// group carrying that year's total
func (s *Service) ListPayments(ctx context.Context, userID uuid.UUID) (PaymentListResponse, error) {
	payments, err := s.paymentRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grouped := make(PaymentListResponse)
	for i := range payments {
		year := payments[i].Year()
		group := grouped[year]
		if len(group.Payments) == 0 {
			group.TotalPaid = valueobject.Zero
		}
		group.Payments = append(group.Payments, toPaymentResponse(&payments[i]))
		group.TotalPaid = group.TotalPaid.Add(payments[i].AmountPaid)
		grouped[year] = group
	}
	return grouped, nil
}

// RecordPayment records a payment and returns the payment together with the
// freshly recomputed summary, so the caller sees the new outstanding balance
func (s *Service) RecordPayment(ctx context.Context, userID uuid.UUID, req RecordPaymentRequest) (*PayResponse, error) {
	var date time.Time
	if req.PaymentDate != nil {
		date = *req.PaymentDate
	}
	payment, err := zakat.NewPayment(userID, req.AmountPaid, date, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	summary, err := s.GetSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Zakat payment recorded",
		zap.String("user_id", userID.String()),
		zap.String("amount", payment.AmountPaid.String()),
	)

	return &PayResponse{
		Payment: toPaymentResponse(payment),
		Summary: summary.Summary,
	}, nil
}

func toAssetResponse(a *zakat.Asset) AssetResponse {
	return AssetResponse{
		ID:        a.ID,
		Source:    string(a.Source),
		Amount:    a.Amount,
		Date:      a.Date,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toSettingsResponse(s *zakat.Settings) *SettingsResponse {
	return &SettingsResponse{
		NisabAmount:       s.NisabAmount,
		ZakatRate:         s.ZakatRate,
		CalculationMethod: string(s.CalculationMethod),
	}
}

func toPaymentResponse(p *zakat.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		AmountPaid:  p.AmountPaid,
		PaymentDate: p.PaymentDate,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}
