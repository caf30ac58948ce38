// Package sender отправляет письма с уведомлениями, полученные из очереди.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/smtp"
	"github.com/magabrotheeeer/monastery-admin/internal/metrics"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Transport устанавливает соединение с почтовым сервером.
type Transport interface {
	Connect() (smtp.Session, error)
	GetSMTPUser() string
}

// Service отправляет письма.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// New создает Service.
func New(transport Transport, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// HandleEmail обрабатывает сообщение из очереди. Некорректное сообщение отбрасывается:
// повторная доставка его не исправит. Ошибка SMTP возвращается, чтобы сообщение
// вернулось в очередь.
func (s *Service) HandleEmail(body []byte) error {
	const op = "sender.HandleEmail"
	log := s.log.With(slog.String("op", op))

	var msg models.EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		log.Error("dropping malformed message", sl.Err(err))
		return nil
	}
	if strings.TrimSpace(msg.To) == "" {
		log.Warn("dropping message without recipient", slog.Int64("notification_id", msg.NotificationID))
		return nil
	}

	if err := s.sendEmail(msg.To, msg.Subject, msg.Body); err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.EmailsSent.WithLabelValues("sent").Inc()
	log.Info("email sent", slog.Int64("notification_id", msg.NotificationID), slog.String("to", msg.To))
	return nil
}

func (s *Service) sendEmail(to, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from %s: %w", from, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to %s: %w", to, err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	if err = client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}
