package zakat

import (
	"github.com/shopspring/decimal"
	"github.com/nokib-web/expensetracker/internal/domain/shared/valueobject"
)

// Summary is the result of one zakat calculation. It is recomputed from
// source records on every read and never persisted.
type Summary struct {
	TotalAssets       valueobject.Money `json:"total_assets"`
	NetBalance        valueobject.Money `json:"net_balance"`
	EligibleAmount    valueobject.Money `json:"eligible_amount"`
	NisabAmount       valueobject.Money `json:"nisab_amount"`
	ZakatRate         decimal.Decimal   `json:"zakat_rate"`
	CalculationMethod CalculationMethod `json:"calculation_method"`
	MeetsNisab        bool              `json:"meets_nisab"`
	ZakatPayable      valueobject.Money `json:"zakat_payable"`
	ZakatPaid         valueobject.Money `json:"zakat_paid"`
	ZakatDue          valueobject.Money `json:"zakat_due"`
	Year              int               `json:"year"`
}

// CalculationInput carries the independent reads a summary is composed from
type CalculationInput struct {
	TotalAssets valueobject.Money
	NetBalance  valueobject.Money
	Settings    *Settings // nil when the user never configured settings
	PaidInYear  valueobject.Money
	Year        int
}

// Calculate composes a Summary from the input. The function is pure: all
// arithmetic is fixed-point decimal and the result is rounded to cents.
//
// A user without settings is treated as not eligible: nisab cannot be
// compared against, so payable and due are zero.
func Calculate(in CalculationInput) Summary {
	eligible := in.TotalAssets
	method := MethodAutomatic
	if in.Settings != nil {
		method = in.Settings.CalculationMethod
	}
	if method == MethodAutomatic && in.NetBalance.IsPositive() {
		eligible = eligible.Add(in.NetBalance)
	}

	summary := Summary{
		TotalAssets:       in.TotalAssets,
		NetBalance:        in.NetBalance,
		EligibleAmount:    eligible,
		CalculationMethod: method,
		ZakatPaid:         in.PaidInYear,
		ZakatPayable:      valueobject.Zero,
		ZakatDue:          valueobject.Zero,
		NisabAmount:       valueobject.Zero,
		ZakatRate:         decimal.Zero,
		Year:              in.Year,
	}

	if in.Settings == nil {
		return summary
	}

	summary.NisabAmount = in.Settings.NisabAmount
	summary.ZakatRate = in.Settings.ZakatRate
	summary.MeetsNisab = eligible.GreaterThanOrEqual(in.Settings.NisabAmount)

	if summary.MeetsNisab {
		summary.ZakatPayable = eligible.CalculatePercentage(in.Settings.ZakatRate).Round()
	}

	summary.ZakatDue = valueobject.Max(valueobject.Zero, summary.ZakatPayable.Subtract(in.PaidInYear))
	return summary
}
