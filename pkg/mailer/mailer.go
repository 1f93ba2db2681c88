// Package mailer delivers engine messages over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/amigos-cultura/solicitud/pkg/engine"
)

// Config carries the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// SSL dials an implicit TLS connection instead of STARTTLS.
	SSL bool
}

// Transport sends messages through an SMTP server.
type Transport struct {
	client *gomail.Client
}

var _ engine.Transport = (*Transport)(nil)

// New connects the transport configuration to a go-mail client. No network
// traffic happens until Send.
func New(cfg Config) (*Transport, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("mailer: host is required")
	}

	opts := []gomail.Option{
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.SSL {
		opts = append(opts, gomail.WithSSLPort(false))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: create client: %w", err)
	}
	return &Transport{client: client}, nil
}

// Send builds and delivers all messages over a single connection.
func (t *Transport) Send(ctx context.Context, msgs ...engine.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	outbound := make([]*gomail.Msg, 0, len(msgs))
	for _, msg := range msgs {
		m, err := Build(msg)
		if err != nil {
			return err
		}
		outbound = append(outbound, m)
	}
	if err := t.client.DialAndSendWithContext(ctx, outbound...); err != nil {
		return fmt.Errorf("mailer: deliver: %w", err)
	}
	return nil
}

// Build translates an engine message into a go-mail message.
func Build(msg engine.Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("mailer: message has no recipients")
	}

	m := gomail.NewMsg()
	if msg.FromName != "" {
		if err := m.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("mailer: sender %q: %w", msg.From, err)
		}
	} else if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("mailer: sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mailer: recipients %v: %w", msg.To, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("mailer: reply-to %q: %w", msg.ReplyTo, err)
		}
	}

	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		if att.Filename == "" {
			return nil, errors.New("mailer: attachment without filename")
		}
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Content)); err != nil {
			return nil, fmt.Errorf("mailer: attach %q: %w", att.Filename, err)
		}
	}
	return m, nil
}
