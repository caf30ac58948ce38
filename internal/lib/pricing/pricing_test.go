package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		period string
		want   float64
	}{
		{period: "one-time", want: 1},
		{period: "week", want: 3},
		{period: "Month", want: 10},
		{period: "40-days", want: 15},
		{period: "Сорокоуст", want: 15},
		{period: "  40   дней ", want: 15},
		{period: "неделя", want: 3},
		{period: "custom", want: 1},
		{period: "year", want: 1},
		{period: "", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			assert.Equal(t, tt.want, Multiplier(tt.period))
		})
	}
}

func TestNormalizePeriod(t *testing.T) {
	p, ok := NormalizePeriod("MONTH")
	assert.True(t, ok)
	assert.Equal(t, models.PeriodMonth, p)

	p, ok = NormalizePeriod("Полгода")
	assert.False(t, ok)
	assert.Equal(t, models.Period("полгода"), p)
}

func TestCalculate_Formula(t *testing.T) {
	bases := []float64{0.5, 33.3, 50, 120, 1999.99}
	periods := []string{"one-time", "week", "month", "40-days", "custom", "unknown"}

	for _, base := range bases {
		for _, period := range periods {
			for count := 1; count <= 12; count++ {
				want := int64(math.Round(base * Multiplier(period) * float64(count)))
				assert.Equal(t, want, Calculate(base, period, count), "base=%v period=%s count=%d", base, period, count)
			}
		}
	}
}

func TestCalculate_Example(t *testing.T) {
	assert.Equal(t, int64(1500), Calculate(50, "Month", 3))
}

func TestCalculate_Degenerate(t *testing.T) {
	assert.Equal(t, int64(0), Calculate(50, "month", 0))
	assert.Equal(t, int64(0), Calculate(0, "month", 3))
}

func TestQuote(t *testing.T) {
	molebben := &models.TrebaType{Name: "Molebben", BasePrice: 50, Currency: "RUB", IsActive: true}

	tests := []struct {
		name         string
		trebaType    *models.TrebaType
		period       string
		count        int
		wantPrice    int64
		wantFallback bool
	}{
		{name: "known type", trebaType: molebben, period: "Month", count: 3, wantPrice: 1500},
		{name: "unknown type falls back", trebaType: nil, period: "week", count: 2, wantPrice: 600, wantFallback: true},
		{
			name:         "inactive type falls back",
			trebaType:    &models.TrebaType{Name: "Old", BasePrice: 10, IsActive: false},
			period:       "one-time",
			count:        1,
			wantPrice:    100,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Quote(tt.trebaType, "Molebben", tt.period, tt.count)
			assert.Equal(t, tt.wantPrice, q.Price)
			assert.Equal(t, tt.wantFallback, q.Fallback)
			assert.Equal(t, DefaultCurrency, q.Currency)
		})
	}
}
