package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		m, err := NewMoneyFromString("199.99")
		require.NoError(t, err)
		assert.Equal(t, "199.99", m.String())
	})

	t.Run("invalid amount", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := mustMoney(t, "100.10")
	b := mustMoney(t, "0.20")

	t.Run("add", func(t *testing.T) {
		assert.Equal(t, "100.30", a.Add(b).String())
	})

	t.Run("subtract", func(t *testing.T) {
		assert.Equal(t, "99.90", a.Subtract(b).String())
	})

	t.Run("subtract below zero", func(t *testing.T) {
		result := b.Subtract(a)
		assert.True(t, result.IsNegative())
		assert.Equal(t, "-99.90", result.String())
	})

	t.Run("no float drift on repeated addition", func(t *testing.T) {
		cent := mustMoney(t, "0.10")
		sum := Zero
		for i := 0; i < 10; i++ {
			sum = sum.Add(cent)
		}
		assert.True(t, sum.Equals(mustMoney(t, "1.00")))
	})
}

func TestMoneyCalculatePercentage(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		percent string
		want    string
	}{
		{"standard rate", "6000.00", "2.5", "150.00"},
		{"rate with rounding", "123.45", "2.5", "3.09"},
		{"zero amount", "0", "2.5", "0.00"},
		{"full rate", "250.00", "100", "250.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMoney(t, tt.amount)
			percent, err := decimal.NewFromString(tt.percent)
			require.NoError(t, err)
			got := m.CalculatePercentage(percent).Round()
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMoneyComparisons(t *testing.T) {
	small := mustMoney(t, "10.00")
	large := mustMoney(t, "20.00")

	assert.True(t, small.LessThan(large))
	assert.True(t, large.GreaterThan(small))
	assert.True(t, large.GreaterThanOrEqual(large))
	assert.True(t, small.Equals(mustMoney(t, "10")))
	assert.Equal(t, large, Max(small, large))
	assert.Equal(t, large, Max(large, small))
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals as string", func(t *testing.T) {
		data, err := json.Marshal(mustMoney(t, "42.50"))
		require.NoError(t, err)
		assert.Equal(t, `"42.50"`, string(data))
	})

	t.Run("unmarshals from string", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`"42.50"`), &m))
		assert.True(t, m.Equals(mustMoney(t, "42.50")))
	})

	t.Run("unmarshals from number", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`42.5`), &m))
		assert.True(t, m.Equals(mustMoney(t, "42.50")))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
	})
}

func TestMoneyScan(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "15.75", "15.75"},
		{"bytes", []byte("15.75"), "15.75"},
		{"nil", nil, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			require.NoError(t, m.Scan(tt.value))
			assert.Equal(t, tt.want, m.String())
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(struct{}{}))
	})
}
