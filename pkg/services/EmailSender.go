package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailMessage struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

type EmailSender interface {
	Send(ctx context.Context, message EmailMessage) error
}

/*
ResendEmailSender delivers mail through the Resend API.
*/
type ResendEmailSender struct {
	client *resend.Client
}

func NewResendEmailSender(apiKey string) ResendEmailSender {
	return ResendEmailSender{
		client: resend.NewClient(apiKey),
	}
}

func (s ResendEmailSender) Send(ctx context.Context, message EmailMessage) error {
	params := &resend.SendEmailRequest{
		From:    message.From,
		To:      message.To,
		Subject: message.Subject,
		Html:    message.HTML,
	}

	if message.ReplyTo != "" {
		params.ReplyTo = message.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("error sending email via resend: %w", err)
	}

	slog.Debug("email sent", "messageID", sent.Id, "subject", message.Subject)
	return nil
}

/*
NoopEmailSender logs messages instead of sending them. It is used when no
email API key is configured.
*/
type NoopEmailSender struct{}

func (NoopEmailSender) Send(_ context.Context, message EmailMessage) error {
	slog.Info("email delivery disabled, dropping message", "to", message.To, "subject", message.Subject)
	return nil
}
