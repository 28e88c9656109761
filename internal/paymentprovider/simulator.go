// Package paymentprovider симулирует платёжную систему: задерживает вызов,
// определяет исход попытки оплаты и выбирает причину отказа из фиксированной
// таксономии. Пакет ничего не сохраняет, запись результата остаётся за вызывающим.
package paymentprovider

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-billing/internal/config"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// DefaultFailureThreshold порог отказа: попытка успешна, если случайное число больше порога (95% успеха).
const DefaultFailureThreshold = 0.05

// RandomSource источник случайности симулятора. *rand.Rand из math/rand/v2
// удовлетворяет интерфейсу, но не потокобезопасен.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// DelayPolicy определяет, сколько держать вызывающего перед ответом.
type DelayPolicy interface {
	Delay() time.Duration
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// GlobalRand возвращает потокобезопасный источник на основе math/rand/v2.
func GlobalRand() RandomSource { return globalRand{} }

// UniformDelay выбирает задержку равномерно из [Min, Max].
type UniformDelay struct {
	Min  time.Duration
	Max  time.Duration
	Rand RandomSource
}

// Delay реализует DelayPolicy.
func (d UniformDelay) Delay() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(d.Rand.Float64()*float64(d.Max-d.Min))
}

// NoDelay отвечает немедленно.
type NoDelay struct{}

// Delay реализует DelayPolicy.
func (NoDelay) Delay() time.Duration { return 0 }

// Simulator определяет исход попыток оплаты.
type Simulator struct {
	rnd              RandomSource
	delay            DelayPolicy
	failureThreshold float64
	now              func() time.Time
}

// New создаёт симулятор с явными источником случайности и политикой задержки.
func New(rnd RandomSource, delay DelayPolicy, failureThreshold float64) *Simulator {
	if delay == nil {
		delay = NoDelay{}
	}
	return &Simulator{
		rnd:              rnd,
		delay:            delay,
		failureThreshold: failureThreshold,
		now:              time.Now,
	}
}

// NewFromConfig создаёт симулятор по настройкам из конфига.
func NewFromConfig(cfg config.PaymentSimulator) *Simulator {
	rnd := GlobalRand()
	return New(rnd, UniformDelay{Min: cfg.MinDelay, Max: cfg.MaxDelay, Rand: rnd}, cfg.FailureThreshold)
}

// Charge выполняет попытку оплаты на сумму amount.
//
// Порядок определения исхода: явный ForceSuccess; затем принудительная
// причина отказа; иначе успех при случайном числе больше порога.
// Вызов блокируется на время задержки; ошибка возвращается только при отмене ctx.
func (s *Simulator) Charge(ctx context.Context, amount decimal.Decimal, o Override) (*Result, error) {
	const op = "paymentprovider.Charge"

	if d := s.delay.Delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	success := s.decide(o)
	processedAt := s.now()
	res := &Result{
		Success:       success,
		TransactionID: s.transactionID(processedAt),
		Amount:        amount,
		Currency:      Currency,
		ProcessedAt:   processedAt,
	}
	if success {
		res.Status = models.PaymentCompleted
		return res, nil
	}

	var failure Failure
	if o.ForceFailureReason != "" {
		failure = FailureByReason(o.ForceFailureReason)
	} else {
		failure = Failures[s.rnd.IntN(len(Failures))]
	}
	res.Status = models.PaymentFailed
	res.Failure = &failure
	return res, nil
}

// NewTransactionID возвращает идентификатор транзакции для списаний вне симуляции.
func (s *Simulator) NewTransactionID() string {
	return s.transactionID(s.now())
}

func (s *Simulator) decide(o Override) bool {
	if o.ForceSuccess != nil {
		return *o.ForceSuccess
	}
	if o.ForceFailureReason != "" {
		return false
	}
	return s.rnd.Float64() > s.failureThreshold
}

// transactionID формирует TXN + дата + шестизначный суффикс. Коллизии
// не проверяются здесь, их ловит уникальный индекс хранилища.
func (s *Simulator) transactionID(at time.Time) string {
	return fmt.Sprintf("TXN%s%d", at.Format("20060102"), 100000+s.rnd.IntN(900000))
}
