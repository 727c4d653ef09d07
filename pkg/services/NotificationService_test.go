package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/4kphotoz/website/pkg/models"
)

func TestSendCountsEveryRecipient(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	sender := &recordingSender{failFor: map[string]bool{"b@x.com": true}}

	for _, input := range []models.AlertSignupInput{
		{ParentName: "A", Email: "a@x.com", Phone: "1", Sport: "Football"},
		{ParentName: "B", Email: "b@x.com", Phone: "2", Sport: "Football"},
		{ParentName: "C", Email: "c@x.com", Phone: "3", Sport: "Soccer"},
	} {
		if _, err := store.AddSignup(ctx, input); err != nil {
			t.Fatalf("AddSignup() error = %v", err)
		}
	}

	service := NewNotificationService(NotificationServiceConfig{Repository: store, Sender: sender, MaxWorkers: 2})

	stats, err := service.Send(ctx, NotificationRequest{
		Message:    "Hi {parentName}",
		GalleryURL: "https://example.com/g",
		SendToAll:  true,
		Sport:      "Soccer",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if stats.Total != 3 || stats.Successful != 2 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 3 total, 2 successful, 1 failed", stats)
	}

	if stats.Successful+stats.Failed != stats.Total {
		t.Errorf("successful + failed != total")
	}

	if len(sender.sent()) != 3 {
		t.Errorf("sent %d messages, want 3", len(sender.sent()))
	}
}

func TestSendFilters(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	_, _ = store.AddSignup(ctx, models.AlertSignupInput{ParentName: "A", Email: "a@x.com", Phone: "1", Sport: "Football", GraduationYear: "2026"})
	_, _ = store.AddSignup(ctx, models.AlertSignupInput{ParentName: "B", Email: "b@x.com", Phone: "2", Sport: "Soccer", GraduationYear: "2026"})
	inactive, _ := store.AddSignup(ctx, models.AlertSignupInput{ParentName: "C", Email: "c@x.com", Phone: "3", Sport: "Soccer"})
	_, _ = store.DeactivateSignup(ctx, inactive.ID)

	tests := []struct {
		name    string
		request NotificationRequest
		want    int
	}{
		{name: "sport", request: NotificationRequest{Sport: "Soccer"}, want: 1},
		{name: "graduation year", request: NotificationRequest{GraduationYear: "2026"}, want: 2},
		{name: "sport wins over year", request: NotificationRequest{Sport: "Football", GraduationYear: "2026"}, want: 1},
		{name: "no filter means all active", request: NotificationRequest{}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			service := NewNotificationService(NotificationServiceConfig{Repository: store, Sender: sender})

			tt.request.Message = "New photos"
			tt.request.GalleryURL = "https://example.com/g"

			stats, err := service.Send(ctx, tt.request)
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}

			if stats.Total != tt.want || len(sender.sent()) != tt.want {
				t.Errorf("sent to %d recipients (stats %+v), want %d", len(sender.sent()), stats, tt.want)
			}
		})
	}
}

func TestSendValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	service := NewNotificationService(NotificationServiceConfig{Repository: store, Sender: &recordingSender{}})

	if _, err := service.Send(ctx, NotificationRequest{GalleryURL: "https://example.com"}); !IsValidationError(err) {
		t.Errorf("Send() without message error = %v, want validation error", err)
	}

	_, err := service.Send(ctx, NotificationRequest{Message: "m", GalleryURL: "https://example.com"})
	if !IsValidationError(err) || err.Error() != "No recipients found" {
		t.Errorf("Send() with no recipients error = %v, want 'No recipients found'", err)
	}
}

func TestSendRendersPersonalizedEmail(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	sender := &recordingSender{}

	_, _ = store.AddSignup(ctx, models.AlertSignupInput{ParentName: "Jane Doe", Email: "jane@x.com", Phone: "1", Sport: "Football", GraduationYear: "2027"})

	service := NewNotificationService(NotificationServiceConfig{Repository: store, Sender: sender})

	_, err := service.Send(ctx, NotificationRequest{
		Message:    "Photos of {athleteName} playing {sport} for {parentName}",
		GalleryURL: "https://example.com/gallery",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	message := sender.sent()[0]

	if message.Subject != "New Gallery Available - Moreau Catholic Athletics" {
		t.Errorf("subject = %q", message.Subject)
	}

	if message.From != DefaultAlertsFrom || message.To[0] != "jane@x.com" {
		t.Errorf("from/to = %q/%v", message.From, message.To)
	}

	if !containsAll(message.HTML,
		"Hi Jane Doe,",
		"Photos of your athlete playing Football for Jane Doe",
		"<strong>Sport:</strong> Football",
		"<strong>Graduation Year:</strong> 2027",
		`href="https://example.com/gallery"`,
		"support@4kphotoz.com",
	) {
		t.Errorf("unexpected email body:\n%s", message.HTML)
	}
}

func TestPersonalizeMessage(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		recipient models.AlertSignup
		want      string
	}{
		{
			name:      "defaults",
			message:   "{parentName}: {athleteName} / {sport}",
			recipient: models.AlertSignup{ParentName: "Jane"},
			want:      "Jane: your athlete / the sport",
		},
		{
			name:      "every occurrence",
			message:   "{athleteName} and {athleteName}",
			recipient: models.AlertSignup{AthleteName: "Sam"},
			want:      "Sam and Sam",
		},
		{
			name:      "values are not re-expanded",
			message:   "{parentName}",
			recipient: models.AlertSignup{ParentName: "{sport}"},
			want:      "{sport}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PersonalizeMessage(tt.message, tt.recipient); got != tt.want {
				t.Errorf("PersonalizeMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlertEmailEscapesMessage(t *testing.T) {
	body, err := renderAlertEmail(alertEmailData{ParentName: "<b>x</b>", Message: "m", EventName: "e", GalleryURL: "https://example.com"})
	if err != nil {
		t.Fatalf("renderAlertEmail() error = %v", err)
	}

	if strings.Contains(body, "<b>x</b>") {
		t.Errorf("parent name was not escaped")
	}
}

func TestSendSurvivesCallerCancellation(t *testing.T) {
	store := newMemoryStore()

	for _, input := range []models.AlertSignupInput{
		{ParentName: "A", Email: "a@x.com", Phone: "1"},
		{ParentName: "B", Email: "b@x.com", Phone: "2"},
		{ParentName: "C", Email: "c@x.com", Phone: "3"},
	} {
		if _, err := store.AddSignup(context.Background(), input); err != nil {
			t.Fatalf("AddSignup() error = %v", err)
		}
	}

	service := NewNotificationService(NotificationServiceConfig{
		Repository:   store,
		Sender:       slowSender{delay: 100 * time.Millisecond},
		EmailTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	defer cancel()

	stats, err := service.Send(ctx, NotificationRequest{
		Message:    "Hi",
		GalleryURL: "https://example.com/g",
		SendToAll:  true,
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if stats.Total != 3 || stats.Successful != 3 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want all 3 delivered", stats)
	}
}

func TestSendStillHonorsEmailTimeout(t *testing.T) {
	store := newMemoryStore()

	if _, err := store.AddSignup(context.Background(), models.AlertSignupInput{ParentName: "A", Email: "a@x.com", Phone: "1"}); err != nil {
		t.Fatalf("AddSignup() error = %v", err)
	}

	service := NewNotificationService(NotificationServiceConfig{
		Repository:   store,
		Sender:       slowSender{delay: time.Second},
		EmailTimeout: 20 * time.Millisecond,
	})

	stats, err := service.Send(context.Background(), NotificationRequest{Message: "Hi", GalleryURL: "https://example.com/g"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if stats.Failed != 1 {
		t.Errorf("stats = %+v, want the timed out send counted as failed", stats)
	}
}
