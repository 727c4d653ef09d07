package alerts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/4kphotoz/website/cmd/website/internal/httpjson"
	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/services"
	"github.com/adampresley/adamgokit/httphelpers"
)

type AlertsHandlers interface {
	Signup(w http.ResponseWriter, r *http.Request)
	ListSignups(w http.ResponseWriter, r *http.Request)
	ManageSignup(w http.ResponseWriter, r *http.Request)
	Send(w http.ResponseWriter, r *http.Request)
}

type AlertsControllerConfig struct {
	AlertService        services.AlertServicer
	NotificationService services.NotificationServicer
}

type AlertsController struct {
	alertService        services.AlertServicer
	notificationService services.NotificationServicer
}

func NewAlertsController(config AlertsControllerConfig) AlertsController {
	return AlertsController{
		alertService:        config.AlertService,
		notificationService: config.NotificationService,
	}
}

type signupResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	SignupID string `json:"signupId"`
}

type signupsResponse struct {
	Signups []models.AlertSignup `json:"signups"`
}

type manageRequest struct {
	SignupID string `json:"signupId"`
	Action   string `json:"action"`
}

type sendResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Stats   services.NotificationStats `json:"stats"`
}

/*
POST /api/alerts/signup
*/
func (c AlertsController) Signup(w http.ResponseWriter, r *http.Request) {
	input := models.AlertSignupInput{}

	if err := httpjson.Decode(r, &input); err != nil {
		httpjson.BadRequest(w, "Missing required fields")
		return
	}

	signup, err := c.alertService.Signup(r.Context(), input)
	if err != nil {
		var validationErr *services.ValidationError

		if errors.As(err, &validationErr) {
			httpjson.BadRequest(w, validationErr.Message)
			return
		}

		slog.Error("error adding alert signup", "error", err)
		httpjson.InternalServerError(w)
		return
	}

	httpjson.OK(w, signupResponse{
		Success:  true,
		Message:  "Successfully signed up for alerts!",
		SignupID: signup.ID,
	})
}

/*
GET /api/alerts/manage
*/
func (c AlertsController) ListSignups(w http.ResponseWriter, r *http.Request) {
	sport := httphelpers.GetFromRequest[string](r, "sport")
	graduationYear := httphelpers.GetFromRequest[string](r, "graduationYear")

	signups, err := c.alertService.List(r.Context(), sport, graduationYear)
	if err != nil {
		slog.Error("error fetching alert signups", "error", err)
		httpjson.InternalServerError(w)
		return
	}

	httpjson.OK(w, signupsResponse{Signups: signups})
}

/*
DELETE /api/alerts/manage
*/
func (c AlertsController) ManageSignup(w http.ResponseWriter, r *http.Request) {
	request := manageRequest{}

	if err := httpjson.Decode(r, &request); err != nil {
		httpjson.BadRequest(w, "Missing required fields")
		return
	}

	err := c.alertService.Manage(r.Context(), request.SignupID, request.Action)

	switch {
	case err == nil:
		httpjson.OK(w, httpjson.SuccessResponse{Success: true})

	case errors.Is(err, models.ErrSignupNotFound):
		httpjson.NotFound(w, "Signup not found")

	case services.IsValidationError(err):
		httpjson.BadRequest(w, err.Error())

	default:
		slog.Error("error managing alert signup", "signupID", request.SignupID, "action", request.Action, "error", err)
		httpjson.InternalServerError(w)
	}
}

/*
POST /api/alerts/send
*/
func (c AlertsController) Send(w http.ResponseWriter, r *http.Request) {
	request := services.NotificationRequest{}

	if err := httpjson.Decode(r, &request); err != nil {
		httpjson.BadRequest(w, "Missing required fields")
		return
	}

	stats, err := c.notificationService.Send(r.Context(), request)
	if err != nil {
		if services.IsValidationError(err) {
			httpjson.BadRequest(w, err.Error())
			return
		}

		slog.Error("error sending alert emails", "error", err)
		httpjson.InternalServerError(w)
		return
	}

	httpjson.OK(w, sendResponse{
		Success: true,
		Message: "Emails sent successfully",
		Stats:   stats,
	})
}
