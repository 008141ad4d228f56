package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wneessen/go-mail"
)

// ErrNoRecipients возвращается для письма без адресатов
var ErrNoRecipients = errors.New("notify: message has no recipients")

// SMTPSettings параметры почтового сервера
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      bool
}

// SMTPSender отправляет уведомления письмами
type SMTPSender struct {
	client *mail.Client
	from   string
	mu     sync.Mutex // одно SMTP соединение за раз
}

// NewSMTPSender создает отправителя писем
func NewSMTPSender(s SMTPSettings) (*SMTPSender, error) {
	opts := []mail.Option{mail.WithPort(s.Port)}
	if s.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.Username),
			mail.WithPassword(s.Password),
		)
	}
	if s.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: init smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: s.From}, nil
}

func (s *SMTPSender) Name() string {
	return "smtp"
}

// Send отправляет письмо всем адресатам сообщения
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	m, err := buildMail(s.from, msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("notify: smtp send: %w", err)
	}
	return nil
}

func buildMail(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("notify: invalid from address %q: %w", from, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("notify: invalid recipients %v: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
