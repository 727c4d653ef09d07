package contact

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/4kphotoz/website/cmd/website/internal/httpjson"
	"github.com/4kphotoz/website/pkg/services"
)

type ContactHandlers interface {
	Submit(w http.ResponseWriter, r *http.Request)
}

type ContactControllerConfig struct {
	ContactService services.ContactServicer
}

type ContactController struct {
	contactService services.ContactServicer
}

func NewContactController(config ContactControllerConfig) ContactController {
	return ContactController{
		contactService: config.ContactService,
	}
}

/*
POST /api/contact
*/
func (c ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	request := services.ContactRequest{}

	if err := httpjson.Decode(r, &request); err != nil {
		httpjson.BadRequest(w, "Missing required fields")
		return
	}

	err := c.contactService.Relay(r.Context(), request)

	switch {
	case err == nil:
		httpjson.OK(w, httpjson.SuccessResponse{Success: true})

	case services.IsValidationError(err):
		httpjson.BadRequest(w, err.Error())

	case errors.Is(err, services.ErrUpstreamUnavailable):
		httpjson.Error(w, http.StatusBadGateway, "Unable to send your message right now. Please try again later.")

	default:
		slog.Error("error relaying contact form", "error", err)
		httpjson.InternalServerError(w)
	}
}
