package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"
)

// MailConfig SMTP 连接与收发件人
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

// MailSender 以 HTML 正文发送邮件（Teams 频道邮箱也走这里）
type MailSender struct {
	cfg MailConfig
}

func NewMailSender(cfg MailConfig) (*MailSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail: SMTP host is empty")
	}
	if len(cfg.To) == 0 {
		return nil, errors.New("mail: no recipients configured")
	}
	return &MailSender{cfg: cfg}, nil
}

func (s *MailSender) Name() string {
	return "mail"
}

func (s *MailSender) buildMessage(subject, body string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("mail: invalid sender %q: %w", s.cfg.From, err)
	}
	if err := m.To(s.cfg.To...); err != nil {
		return nil, fmt.Errorf("mail: invalid recipients: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, body)
	return m, nil
}

func (s *MailSender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

func (s *MailSender) Send(ctx context.Context, msg Message) error {
	m, err := s.buildMessage(msg.Subject, msg.HTML)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("mail: new client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mail: send to %v: %w", s.cfg.To, err)
	}
	log.Printf("mail sent to %d recipients, subject=%q", len(s.cfg.To), msg.Subject)
	return nil
}
