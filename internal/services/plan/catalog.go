package plan

import (
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultCatalog возвращает шесть планов, которые засеваются в пустое хранилище:
// три уровня, каждый помесячно и годом. Годовая цена около 10 месячных.
func DefaultCatalog() []models.Plan {
	price := decimal.RequireFromString
	basic := []string{"10GB Storage", "Basic Support", "5 Projects"}
	pro := []string{"50GB Storage", "Priority Support", "Unlimited Projects", "Advanced Analytics"}
	enterprise := []string{"Unlimited Storage", "24/7 Support", "Unlimited Projects",
		"Advanced Analytics", "Custom Integrations", "Dedicated Manager"}
	annual := func(features []string) []string {
		return append(append([]string{}, features...), "Save 17%")
	}

	return []models.Plan{
		{Name: "Basic", Price: price("9.99"), BillingCycle: models.BillingCycleMonthly, Features: basic, IsActive: true},
		{Name: "Pro", Price: price("19.99"), BillingCycle: models.BillingCycleMonthly, Features: pro, IsActive: true},
		{Name: "Enterprise", Price: price("49.99"), BillingCycle: models.BillingCycleMonthly, Features: enterprise, IsActive: true},
		{Name: "Basic Annual", Price: price("99.99"), BillingCycle: models.BillingCycleYearly, Features: annual(basic), IsActive: true},
		{Name: "Pro Annual", Price: price("199.99"), BillingCycle: models.BillingCycleYearly, Features: annual(pro), IsActive: true},
		{Name: "Enterprise Annual", Price: price("499.99"), BillingCycle: models.BillingCycleYearly,
			Features: annual(enterprise), IsActive: true},
	}
}
