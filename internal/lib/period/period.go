// Package period реализует расчёт дат окончания расчётного периода.
// Периоды фиксированной длины: календарные месяцы и високосные годы не учитываются.
package period

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

const (
	// MonthlyDays длина месячного периода в днях.
	MonthlyDays = 30
	// YearlyDays длина годового периода в днях.
	YearlyDays = 365
)

// Days возвращает длину периода в днях для заданного цикла.
func Days(cycle models.BillingCycle) (int, error) {
	switch cycle {
	case models.BillingCycleMonthly:
		return MonthlyDays, nil
	case models.BillingCycleYearly:
		return YearlyDays, nil
	default:
		return 0, fmt.Errorf("unknown billing cycle %q: %w", cycle, models.ErrValidation)
	}
}

// End возвращает дату окончания периода, начинающегося в start.
// Дата следующего списания всегда равна этому значению.
func End(start time.Time, cycle models.BillingCycle) (time.Time, error) {
	days, err := Days(cycle)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(days) * 24 * time.Hour), nil
}
