package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

var (
	ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")
	ErrSMTPNoRecipients     = errors.New("mail: no recipients provided")
	ErrSMTPNoSender         = errors.New("mail: no sender provided")
	ErrSMTPHeaderInjection  = errors.New("mail: header value contains a line break")
)

// SMTPConfig configures SMTP delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends through net/smtp with optional PLAIN auth.
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	s := &SMTP{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
		send: smtp.SendMail,
	}
	if cfg.Username != "" && cfg.Password != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if msg.From == "" {
		msg.From = s.from
	}
	raw, err := compose(msg)
	if err != nil {
		return err
	}

	rcpt := append(append([]string{}, msg.To...), msg.Cc...)
	return s.send(s.addr, s.auth, msg.From, rcpt, raw)
}

func (*SMTP) Close() error { return nil }

// compose renders msg as an RFC 5322 text/plain message.
func compose(msg Message) ([]byte, error) {
	if len(msg.To)+len(msg.Cc) == 0 {
		return nil, ErrSMTPNoRecipients
	}
	if msg.From == "" {
		return nil, ErrSMTPNoSender
	}

	headers := [][2]string{
		{"From", msg.From},
		{"To", strings.Join(msg.To, ", ")},
	}
	if len(msg.Cc) > 0 {
		headers = append(headers, [2]string{"Cc", strings.Join(msg.Cc, ", ")})
	}
	headers = append(headers,
		[2]string{"Subject", msg.Subject},
		[2]string{"MIME-Version", "1.0"},
		[2]string{"Content-Type", "text/plain; charset=UTF-8"},
	)

	var b strings.Builder
	for _, h := range headers {
		if strings.ContainsAny(h[1], "\r\n") {
			return nil, ErrSMTPHeaderInjection
		}
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))

	return []byte(b.String()), nil
}
