// Package sender превращает события биллинга в письма пользователям.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/rabbitmq"
)

// Service отправляет уведомления по событиям из очереди.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleEvent разбирает тело сообщения и отправляет письмо получателю события.
// Нечитаемые сообщения и события без шаблона возвращают rabbitmq.ErrDiscard.
func (s *Service) HandleEvent(ctx context.Context, body []byte) error {
	const op = "sender.HandleEvent"

	var ev models.BillingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w: %w", op, rabbitmq.ErrDiscard, err)
	}
	if ev.Email == "" {
		return fmt.Errorf("%s: event %s has no recipient: %w", op, ev.ID, rabbitmq.ErrDiscard)
	}
	// Адрес попадает в заголовок To как есть.
	if strings.ContainsAny(ev.Email, "\r\n") {
		return fmt.Errorf("%s: event %s has invalid recipient: %w", op, ev.ID, rabbitmq.ErrDiscard)
	}

	subject, text, ok := render(ev)
	if !ok {
		s.log.Warn("no template for event", slog.String("type", string(ev.Type)), slog.String("id", ev.ID))
		return fmt.Errorf("%s: unsupported event type %q: %w", op, ev.Type, rabbitmq.ErrDiscard)
	}

	if err := s.sendEmail(ctx, []string{ev.Email}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func render(ev models.BillingEvent) (subject, text string, ok bool) {
	name := ev.Name
	if name == "" {
		name = ev.Email
	}
	switch ev.Type {
	case models.EventPaymentFailed:
		subject = "Payment failed for your " + ev.PlanName + " subscription"
		text = fmt.Sprintf("Hello, %s!\n\nWe could not process the payment of $%s for your %s subscription.\n\n%s\n",
			name, ev.Amount.StringFixed(2), ev.PlanName, ev.Message)
	case models.EventSubscriptionCanceled:
		subject = "Your " + ev.PlanName + " subscription has been cancelled"
		text = fmt.Sprintf("Hello, %s!\n\nYour %s subscription has been cancelled and will not renew.\n",
			name, ev.PlanName)
	case models.EventRenewalUpcoming:
		subject = "Upcoming renewal of your " + ev.PlanName + " subscription"
		text = fmt.Sprintf("Hello, %s!\n\nYour %s subscription renews on %s. You will be charged $%s.\n",
			name, ev.PlanName, ev.Message, ev.Amount.StringFixed(2))
	default:
		return "", "", false
	}
	return subject, text, true
}

func (s *Service) sendEmail(ctx context.Context, to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
