package mailer

import (
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/d085/storefront/config"
)

// Sender delivers HTML notification mail over SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg config.SmtpConfig) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send dispatches one message. The SMTP dial carries the library's own
// timeout; failures propagate to the caller.
func (s *Sender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "send mail to %s", to)
	}
	return nil
}
