package services

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/4kphotoz/website/pkg/metrics"
	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/stores"
	"github.com/alitto/pond/v2"
)

const (
	DefaultEventName    = "Moreau Catholic Athletics"
	DefaultAthleteName  = "your athlete"
	DefaultSportName    = "the sport"
	DefaultAlertsFrom   = "4kphotoz Alerts <onboarding@resend.dev>"
	DefaultEmailTimeout = 10 * time.Second
)

type NotificationServicer interface {
	Send(ctx context.Context, request NotificationRequest) (NotificationStats, error)
}

type NotificationRequest struct {
	Message        string `json:"message"`
	GalleryURL     string `json:"galleryUrl"`
	EventName      string `json:"eventName"`
	Sport          string `json:"sport"`
	GraduationYear string `json:"graduationYear"`
	SendToAll      bool   `json:"sendToAll"`
}

func (r NotificationRequest) Filter() models.SignupFilter {
	return models.SignupFilter{
		SendToAll:      r.SendToAll,
		Sport:          strings.TrimSpace(r.Sport),
		GraduationYear: strings.TrimSpace(r.GraduationYear),
	}
}

type NotificationStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type NotificationServiceConfig struct {
	Repository   stores.SignupRepository
	Sender       EmailSender
	From         string
	EmailTimeout time.Duration
	MaxWorkers   int
}

type NotificationService struct {
	repository   stores.SignupRepository
	sender       EmailSender
	from         string
	emailTimeout time.Duration
	maxWorkers   int
}

func NewNotificationService(config NotificationServiceConfig) NotificationService {
	from := config.From
	if from == "" {
		from = DefaultAlertsFrom
	}

	timeout := config.EmailTimeout
	if timeout <= 0 {
		timeout = DefaultEmailTimeout
	}

	return NotificationService{
		repository:   config.Repository,
		sender:       config.Sender,
		from:         from,
		emailTimeout: timeout,
		maxWorkers:   config.MaxWorkers,
	}
}

/*
Send emails every recipient selected by the request's filter and waits for
every delivery to settle. A failed delivery is counted, never returned.
*/
func (s NotificationService) Send(ctx context.Context, request NotificationRequest) (NotificationStats, error) {
	var (
		err        error
		recipients []models.AlertSignup
		successful atomic.Int64
		failed     atomic.Int64
	)

	stats := NotificationStats{}

	if strings.TrimSpace(request.Message) == "" || strings.TrimSpace(request.GalleryURL) == "" {
		return stats, NewValidationError("Missing required fields")
	}

	if recipients, err = s.resolveRecipients(ctx, request.Filter()); err != nil {
		return stats, err
	}

	if len(recipients) == 0 {
		return stats, NewValidationError("No recipients found")
	}

	eventName := strings.TrimSpace(request.EventName)
	if eventName == "" {
		eventName = DefaultEventName
	}

	subject := "New Gallery Available - " + eventName

	workers := len(recipients)
	if s.maxWorkers > 0 && workers > s.maxWorkers {
		workers = s.maxWorkers
	}

	pool := pond.NewPool(workers)

	for _, recipient := range recipients {
		pool.Submit(func() {
			sendErr := s.sendOne(ctx, recipient, request, eventName, subject)
			metrics.RecordEmail("alert", sendErr)

			if sendErr != nil {
				failed.Add(1)
				slog.Error("error sending alert email", "signupID", recipient.ID, "error", sendErr)
				return
			}

			successful.Add(1)
		})
	}

	_ = pool.Stop().Wait()

	stats.Total = len(recipients)
	stats.Successful = int(successful.Load())
	stats.Failed = int(failed.Load())

	slog.Info("alert emails sent", "event", eventName, "total", stats.Total, "successful", stats.Successful, "failed", stats.Failed)
	return stats, nil
}

func (s NotificationService) resolveRecipients(ctx context.Context, filter models.SignupFilter) ([]models.AlertSignup, error) {
	var (
		err    error
		result []models.AlertSignup
	)

	switch {
	case filter.SendToAll:
		result, err = s.repository.ListActiveSignups(ctx)
	case filter.Sport != "":
		result, err = s.repository.SignupsBySport(ctx, filter.Sport)
	case filter.GraduationYear != "":
		result, err = s.repository.SignupsByGraduationYear(ctx, filter.GraduationYear)
	default:
		result, err = s.repository.ListActiveSignups(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("error resolving alert recipients: %w", err)
	}

	return result, nil
}

func (s NotificationService) sendOne(ctx context.Context, recipient models.AlertSignup, request NotificationRequest, eventName, subject string) error {
	var (
		err  error
		body string
	)

	if body, err = renderAlertEmail(alertEmailData{
		ParentName:     recipient.ParentName,
		Message:        PersonalizeMessage(request.Message, recipient),
		EventName:      eventName,
		Sport:          recipient.Sport,
		GraduationYear: recipient.GraduationYear,
		GalleryURL:     request.GalleryURL,
	}); err != nil {
		return err
	}

	// a dispatched send only ends on its own timeout
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.emailTimeout)
	defer cancel()

	return s.sender.Send(sendCtx, EmailMessage{
		From:    s.from,
		To:      []string{recipient.Email},
		Subject: subject,
		HTML:    body,
	})
}

/*
PersonalizeMessage replaces every {parentName}, {athleteName} and {sport}
placeholder with the recipient's values.
*/
func PersonalizeMessage(message string, recipient models.AlertSignup) string {
	athleteName := recipient.AthleteName
	if athleteName == "" {
		athleteName = DefaultAthleteName
	}

	sport := recipient.Sport
	if sport == "" {
		sport = DefaultSportName
	}

	replacer := strings.NewReplacer(
		"{parentName}", recipient.ParentName,
		"{athleteName}", athleteName,
		"{sport}", sport,
	)

	return replacer.Replace(message)
}

type alertEmailData struct {
	ParentName     string
	Message        string
	EventName      string
	Sport          string
	GraduationYear string
	GalleryURL     string
}

var alertEmailTemplate = template.Must(template.New("alert").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">New Gallery Available!</h2>
  <p>Hi {{.ParentName}},</p>
  <p>{{.Message}}</p>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Event Details:</h3>
    <p><strong>Event:</strong> {{.EventName}}</p>
    {{if .Sport}}<p><strong>Sport:</strong> {{.Sport}}</p>{{end}}
    {{if .GraduationYear}}<p><strong>Graduation Year:</strong> {{.GraduationYear}}</p>{{end}}
  </div>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.GalleryURL}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Gallery</a>
  </div>
  <p style="color: #6b7280; font-size: 14px;">
    This alert was sent because you signed up for notifications on the Moreau Catholic page.
    If you no longer wish to receive these alerts, please contact us at support@4kphotoz.com.
  </p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
  <p style="color: #6b7280; font-size: 12px;">
    4kphotoz LLC<br>
    25509 Industrial Blvd, O10<br>
    Hayward, CA 94545<br>
    (510) 828-1061
  </p>
</div>
`))

func renderAlertEmail(data alertEmailData) (string, error) {
	b := strings.Builder{}

	if err := alertEmailTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("error rendering alert email: %w", err)
	}

	return b.String(), nil
}
