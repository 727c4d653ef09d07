package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/4kphotoz/website/pkg/metrics"
	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/stores"
)

const (
	ActionDeactivate = "deactivate"
	ActionDelete     = "delete"
)

type AlertServicer interface {
	Signup(ctx context.Context, input models.AlertSignupInput) (models.AlertSignup, error)
	List(ctx context.Context, sport, graduationYear string) ([]models.AlertSignup, error)
	Manage(ctx context.Context, signupID, action string) error
}

type AlertServiceConfig struct {
	Repository stores.SignupRepository
}

type AlertService struct {
	repository stores.SignupRepository
}

func NewAlertService(config AlertServiceConfig) AlertService {
	return AlertService{
		repository: config.Repository,
	}
}

func (s AlertService) Signup(ctx context.Context, input models.AlertSignupInput) (models.AlertSignup, error) {
	var (
		err    error
		signup models.AlertSignup
	)

	input = trimSignupInput(input)

	if err = validateStruct(input); err != nil {
		return signup, err
	}

	if signup, err = s.repository.AddSignup(ctx, input); err != nil {
		return signup, fmt.Errorf("error adding alert signup: %w", err)
	}

	metrics.AlertSignupsTotal.Inc()
	slog.Info("alert signup added", "signupID", signup.ID, "sport", signup.Sport, "graduationYear", signup.GraduationYear)

	return signup, nil
}

/*
List returns the admin view of signups. A sport filter takes precedence
over a graduation year filter. Both only match active signups. With no
filter every signup is returned, including inactive ones.
*/
func (s AlertService) List(ctx context.Context, sport, graduationYear string) ([]models.AlertSignup, error) {
	var (
		err    error
		result []models.AlertSignup
	)

	sport = strings.TrimSpace(sport)
	graduationYear = strings.TrimSpace(graduationYear)

	switch {
	case sport != "":
		result, err = s.repository.SignupsBySport(ctx, sport)
	case graduationYear != "":
		result, err = s.repository.SignupsByGraduationYear(ctx, graduationYear)
	default:
		result, err = s.repository.ListAllSignups(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("error listing alert signups: %w", err)
	}

	if result == nil {
		result = []models.AlertSignup{}
	}

	return result, nil
}

/*
Manage deactivates or deletes a signup. An id that does not exist yields
models.ErrSignupNotFound.
*/
func (s AlertService) Manage(ctx context.Context, signupID, action string) error {
	var (
		err   error
		found bool
	)

	if signupID == "" || action == "" {
		return NewValidationError("Missing required fields")
	}

	switch action {
	case ActionDeactivate:
		found, err = s.repository.DeactivateSignup(ctx, signupID)
	case ActionDelete:
		found, err = s.repository.DeleteSignup(ctx, signupID)
	default:
		return NewValidationError("Invalid action")
	}

	if err != nil {
		return fmt.Errorf("error applying '%s' to signup %s: %w", action, signupID, err)
	}

	if !found {
		return models.ErrSignupNotFound
	}

	slog.Info("alert signup updated", "signupID", signupID, "action", action)
	return nil
}

func trimSignupInput(input models.AlertSignupInput) models.AlertSignupInput {
	return models.AlertSignupInput{
		ParentName:     strings.TrimSpace(input.ParentName),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		AthleteName:    strings.TrimSpace(input.AthleteName),
		Sport:          strings.TrimSpace(input.Sport),
		GraduationYear: strings.TrimSpace(input.GraduationYear),
	}
}
