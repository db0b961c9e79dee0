package zakat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

func money(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func testSettings(t *testing.T, nisab, rate string, method CalculationMethod) *Settings {
	t.Helper()
	r, err := decimal.NewFromString(rate)
	require.NoError(t, err)
	s, err := NewSettings(uuid.New(), money(t, nisab), r, method)
	require.NoError(t, err)
	return s
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		input        CalculationInput
		wantEligible string
		wantMeets    bool
		wantPayable  string
		wantDue      string
	}{
		{
			name: "empty user with default settings owes nothing",
			input: CalculationInput{
				TotalAssets: valueobject.Zero,
				NetBalance:  valueobject.Zero,
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  valueobject.Zero,
				Year:        2026,
			},
			wantEligible: "0.00",
			wantMeets:    false,
			wantPayable:  "0.00",
			wantDue:      "0.00",
		},
		{
			name: "single asset above nisab",
			input: CalculationInput{
				TotalAssets: money(t, "6000"),
				NetBalance:  valueobject.Zero,
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  valueobject.Zero,
				Year:        2026,
			},
			wantEligible: "6000.00",
			wantMeets:    true,
			wantPayable:  "150.00",
			wantDue:      "150.00",
		},
		{
			name: "partial payment offsets due",
			input: CalculationInput{
				TotalAssets: money(t, "6000"),
				NetBalance:  valueobject.Zero,
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  money(t, "100"),
				Year:        2026,
			},
			wantEligible: "6000.00",
			wantMeets:    true,
			wantPayable:  "150.00",
			wantDue:      "50.00",
		},
		{
			name: "fully paid is zero not negative",
			input: CalculationInput{
				TotalAssets: money(t, "6000"),
				NetBalance:  valueobject.Zero,
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  money(t, "150"),
				Year:        2026,
			},
			wantEligible: "6000.00",
			wantMeets:    true,
			wantPayable:  "150.00",
			wantDue:      "0.00",
		},
		{
			name: "overpayment still yields zero due",
			input: CalculationInput{
				TotalAssets: money(t, "6000"),
				NetBalance:  valueobject.Zero,
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  money(t, "500"),
				Year:        2026,
			},
			wantEligible: "6000.00",
			wantMeets:    true,
			wantPayable:  "150.00",
			wantDue:      "0.00",
		},
		{
			name: "net balance alone can reach nisab exactly",
			input: CalculationInput{
				TotalAssets: valueobject.Zero,
				NetBalance:  money(t, "5000"),
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  valueobject.Zero,
				Year:        2026,
			},
			wantEligible: "5000.00",
			wantMeets:    true,
			wantPayable:  "125.00",
			wantDue:      "125.00",
		},
		{
			name: "negative net balance never reduces assets",
			input: CalculationInput{
				TotalAssets: money(t, "4000"),
				NetBalance:  money(t, "-3000"),
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  valueobject.Zero,
				Year:        2026,
			},
			wantEligible: "4000.00",
			wantMeets:    false,
			wantPayable:  "0.00",
			wantDue:      "0.00",
		},
		{
			name: "manual method ignores positive net balance",
			input: CalculationInput{
				TotalAssets: money(t, "4000"),
				NetBalance:  money(t, "5000"),
				Settings:    testSettings(t, "5000", "2.5", MethodManual),
				PaidInYear:  valueobject.Zero,
				Year:        2026,
			},
			wantEligible: "4000.00",
			wantMeets:    false,
			wantPayable:  "0.00",
			wantDue:      "0.00",
		},
		{
			name: "payable is rounded to cents",
			input: CalculationInput{
				TotalAssets: money(t, "6001.23"),
				NetBalance:  valueobject.Zero,
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  valueobject.Zero,
				Year:        2026,
			},
			// 6001.23 * 0.025 = 150.03075
			wantEligible: "6001.23",
			wantMeets:    true,
			wantPayable:  "150.03",
			wantDue:      "150.03",
		},
		{
			name: "below nisab payments do not create negative due",
			input: CalculationInput{
				TotalAssets: money(t, "1000"),
				NetBalance:  valueobject.Zero,
				Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
				PaidInYear:  money(t, "200"),
				Year:        2026,
			},
			wantEligible: "1000.00",
			wantMeets:    false,
			wantPayable:  "0.00",
			wantDue:      "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.input)

			assert.Equal(t, tt.wantEligible, got.EligibleAmount.String())
			assert.Equal(t, tt.wantMeets, got.MeetsNisab)
			assert.Equal(t, tt.wantPayable, got.ZakatPayable.String())
			assert.Equal(t, tt.wantDue, got.ZakatDue.String())
			assert.Equal(t, tt.input.Year, got.Year)
			assert.True(t, got.ZakatDue.GreaterThanOrEqual(valueobject.Zero))
		})
	}
}

func TestCalculateWithoutSettings(t *testing.T) {
	got := Calculate(CalculationInput{
		TotalAssets: money(t, "10000"),
		NetBalance:  money(t, "2000"),
		Settings:    nil,
		PaidInYear:  valueobject.Zero,
		Year:        2026,
	})

	assert.False(t, got.MeetsNisab)
	assert.True(t, got.NisabAmount.IsZero())
	assert.True(t, got.ZakatRate.IsZero())
	assert.True(t, got.ZakatPayable.IsZero())
	assert.True(t, got.ZakatDue.IsZero())
	// Net balance still folds in under the default method so the user
	// sees the amount that would be assessed once settings exist.
	assert.Equal(t, "12000.00", got.EligibleAmount.String())
}

func TestCalculateNewYearResetsPaid(t *testing.T) {
	settings := testSettings(t, "5000", "2.5", MethodAutomatic)

	lastYear := Calculate(CalculationInput{
		TotalAssets: money(t, "6000"),
		Settings:    settings,
		PaidInYear:  money(t, "150"),
		Year:        2025,
	})
	assert.Equal(t, "0.00", lastYear.ZakatDue.String())

	// Same holdings in the next year, but the paid window starts fresh.
	thisYear := Calculate(CalculationInput{
		TotalAssets: money(t, "6000"),
		Settings:    settings,
		PaidInYear:  valueobject.Zero,
		Year:        2026,
	})
	assert.Equal(t, "150.00", thisYear.ZakatPayable.String())
	assert.Equal(t, "150.00", thisYear.ZakatDue.String())
}

func TestCalculateIsDeterministic(t *testing.T) {
	in := CalculationInput{
		TotalAssets: money(t, "7250.50"),
		NetBalance:  money(t, "1249.50"),
		Settings:    testSettings(t, "5000", "2.5", MethodAutomatic),
		PaidInYear:  money(t, "25"),
		Year:        2026,
	}

	first := Calculate(in)
	second := Calculate(in)
	assert.Equal(t, first, second)
}

func TestYearWindow(t *testing.T) {
	start, end := YearWindow(2026)

	assert.Equal(t, "2026-01-01 00:00:00", start.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2027-01-01 00:00:00", end.Format("2006-01-02 15:04:05"))
	assert.True(t, end.Equal(start.AddDate(1, 0, 0)))
}
