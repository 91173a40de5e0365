// Package mailer delivers alert digests over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"

	"techwatch/internal/ports"
)

// Options configure the SMTP connection.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Mailer sends one message per recipient. A failed recipient does not
// block delivery to the others.
type Mailer struct {
	opts Options
	send sendFunc
	log  *slog.Logger
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

var _ ports.Notifier = (*Mailer)(nil)

// New builds an SMTP mailer.
func New(opts Options, log *slog.Logger) *Mailer {
	return &Mailer{
		opts: opts,
		send: smtp.SendMail,
		log:  log.With("component", "mailer"),
	}
}

// Send delivers the digest to every recipient individually.
func (m *Mailer) Send(ctx context.Context, recipients []string, subject, plain, html string) error {
	if len(recipients) == 0 {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.opts.Host, m.opts.Port)
	var auth smtp.Auth
	if m.opts.User != "" {
		auth = smtp.PlainAuth("", m.opts.User, m.opts.Password, m.opts.Host)
	}

	var failed int
	for _, rcpt := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := buildMessage(m.opts.From, rcpt, subject, plain, html)
		if err := m.send(addr, auth, m.opts.From, []string{rcpt}, msg); err != nil {
			failed++
			m.log.Error("send digest", "recipient", rcpt, "error", err)
		}
	}
	if failed == len(recipients) {
		return fmt.Errorf("digest delivery failed for all %d recipients", failed)
	}
	return nil
}

const mimeBoundary = "=_techwatch_alt"

func buildMessage(from, to, subject, plain, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(plain)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}
