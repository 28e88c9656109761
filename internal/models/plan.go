// Package models содержит доменные структуры биллинга подписок: пользователей,
// тарифные планы, подписки, платежи и события, а также таксономию ошибок,
// общую для хранилища, сервисов и HTTP-слоя.
package models

import "github.com/shopspring/decimal"

// BillingCycle период списания по тарифному плану.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// Valid сообщает, является ли значение одним из поддерживаемых периодов.
func (c BillingCycle) Valid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}

// Plan представляет тарифный план каталога.
// Планы засеваются один раз при старте и не изменяются во время работы.
type Plan struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	BillingCycle BillingCycle    `json:"billing_cycle"`
	Features     []string        `json:"features"`
	IsActive     bool            `json:"is_active"`
}
