package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// SMTPMailer sends sign-in links through a plain SMTP relay.
type SMTPMailer struct {
	addr string // host:port
	from string
}

func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

func (m *SMTPMailer) SendLoginLink(ctx context.Context, email, link string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Sign in to OW Custom Codes\r\n\r\nOpen this link to sign in:\r\n\r\n%s\r\n\r\nThe link expires in 15 minutes.\r\n",
		m.from, email, link,
	)
	return smtp.SendMail(m.addr, nil, m.from, []string{email}, []byte(body))
}

// LogMailer writes the link to the log instead of sending mail. Used in
// development when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) SendLoginLink(ctx context.Context, email, link string) error {
	slog.InfoContext(ctx, "Login link issued",
		slog.String("email", email),
		slog.String("link", link),
		slog.String("module", "mailer"),
	)
	return nil
}
