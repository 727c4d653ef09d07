package services

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/4kphotoz/website/pkg/metrics"
)

const (
	DefaultContactFrom = "Contact Form <onboarding@resend.dev>"
)

type ContactServicer interface {
	Relay(ctx context.Context, request ContactRequest) error
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message" validate:"required"`
}

type ContactServiceConfig struct {
	Sender       EmailSender
	From         string
	To           string
	EmailTimeout time.Duration
}

type ContactService struct {
	sender       EmailSender
	from         string
	to           string
	emailTimeout time.Duration
}

func NewContactService(config ContactServiceConfig) ContactService {
	from := config.From
	if from == "" {
		from = DefaultContactFrom
	}

	timeout := config.EmailTimeout
	if timeout <= 0 {
		timeout = DefaultEmailTimeout
	}

	return ContactService{
		sender:       config.Sender,
		from:         from,
		to:           config.To,
		emailTimeout: timeout,
	}
}

/*
Relay forwards a contact form submission to the business mailbox. Delivery
failures come back as ErrUpstreamUnavailable without provider detail.
*/
func (s ContactService) Relay(ctx context.Context, request ContactRequest) error {
	var (
		err  error
		body string
	)

	request = ContactRequest{
		Name:    strings.TrimSpace(request.Name),
		Email:   strings.TrimSpace(request.Email),
		Phone:   strings.TrimSpace(request.Phone),
		Service: strings.TrimSpace(request.Service),
		Message: strings.TrimSpace(request.Message),
	}

	if err = validateStruct(request); err != nil {
		return err
	}

	if s.to == "" {
		slog.Error("contact form destination is not configured")
		return ErrUpstreamUnavailable
	}

	if body, err = renderContactEmail(request); err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.emailTimeout)
	defer cancel()

	err = s.sender.Send(sendCtx, EmailMessage{
		From:    s.from,
		To:      []string{s.to},
		ReplyTo: request.Email,
		Subject: "New Contact Form Submission from " + request.Name,
		HTML:    body,
	})

	metrics.RecordEmail("contact", err)

	if err != nil {
		slog.Error("error relaying contact form", "error", err)
		return fmt.Errorf("%w: contact email not delivered", ErrUpstreamUnavailable)
	}

	return nil
}

var contactEmailTemplate = template.Must(template.New("contact").Parse(`
<h2>Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{or .Phone "N/A"}}</p>
<p><strong>Service Interest:</strong> {{or .Service "N/A"}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

func renderContactEmail(request ContactRequest) (string, error) {
	b := strings.Builder{}

	if err := contactEmailTemplate.Execute(&b, request); err != nil {
		return "", fmt.Errorf("error rendering contact email: %w", err)
	}

	return b.String(), nil
}
