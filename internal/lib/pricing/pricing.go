// Package pricing рассчитывает стоимость требы по виду, сроку поминовения и количеству имен.
package pricing

import (
	"math"
	"strings"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const (
	// FallbackPricePerName используется, если вид требы не найден среди активных.
	FallbackPricePerName = 100.0
	// DefaultCurrency задает валюту по умолчанию.
	DefaultCurrency = "RUB"
)

var multipliers = map[models.Period]float64{
	models.PeriodOneTime:   1,
	models.PeriodWeek:      3,
	models.PeriodMonth:     10,
	models.PeriodFortyDays: 15,
}

var aliases = map[string]models.Period{
	"one-time":   models.PeriodOneTime,
	"onetime":    models.PeriodOneTime,
	"once":       models.PeriodOneTime,
	"разовая":    models.PeriodOneTime,
	"разово":     models.PeriodOneTime,
	"однократно": models.PeriodOneTime,
	"week":       models.PeriodWeek,
	"weekly":     models.PeriodWeek,
	"неделя":     models.PeriodWeek,
	"month":      models.PeriodMonth,
	"monthly":    models.PeriodMonth,
	"месяц":      models.PeriodMonth,
	"40-days":    models.PeriodFortyDays,
	"40 days":    models.PeriodFortyDays,
	"40days":     models.PeriodFortyDays,
	"40 дней":    models.PeriodFortyDays,
	"сорокоуст":  models.PeriodFortyDays,
	"custom":     models.PeriodCustom,
	"на дату":    models.PeriodCustom,
	"особая":     models.PeriodCustom,
}

// NormalizePeriod приводит подпись срока к ключу. Неизвестная подпись возвращается
// в нижнем регистре без изменений, ok при этом false.
func NormalizePeriod(label string) (models.Period, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(label), " "))
	if p, ok := aliases[key]; ok {
		return p, true
	}
	return models.Period(key), false
}

// Multiplier возвращает множитель срока; для неизвестного и особого срока он равен 1.
func Multiplier(period string) float64 {
	p, _ := NormalizePeriod(period)
	if m, ok := multipliers[p]; ok {
		return m
	}
	return 1
}

// Calculate возвращает round(basePrice × multiplier(period) × nameCount).
func Calculate(basePrice float64, period string, nameCount int) int64 {
	if nameCount <= 0 || basePrice <= 0 {
		return 0
	}
	return int64(math.Round(basePrice * Multiplier(period) * float64(nameCount)))
}

// Quote считает стоимость по найденному виду требы. Если вид не найден или неактивен,
// используется FallbackPricePerName и Fallback = true.
func Quote(trebaType *models.TrebaType, typeName, period string, nameCount int) models.PriceQuote {
	q := models.PriceQuote{
		Type:       typeName,
		Period:     period,
		NameCount:  nameCount,
		Multiplier: Multiplier(period),
		BasePrice:  FallbackPricePerName,
		Currency:   DefaultCurrency,
		Fallback:   true,
	}
	if trebaType != nil && trebaType.IsActive {
		q.BasePrice = trebaType.BasePrice
		q.Fallback = false
		if trebaType.Currency != "" {
			q.Currency = trebaType.Currency
		}
	}
	q.Price = Calculate(q.BasePrice, period, nameCount)
	return q
}
