package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/4kphotoz/website/cmd/website/internal/auth"
	"github.com/4kphotoz/website/cmd/website/internal/httpjson"
	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/services"
)

type AdminHandlers interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	CurrentSession(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

// Invalidator is notified when settings that affect cached listings change.
type Invalidator interface {
	Invalidate()
}

type AdminControllerConfig struct {
	Authenticator   auth.Authenticator
	GalleryCache    Invalidator
	Session         auth.AdminSession
	SettingsService services.SettingsServicer
}

type AdminController struct {
	authenticator   auth.Authenticator
	galleryCache    Invalidator
	session         auth.AdminSession
	settingsService services.SettingsServicer
}

func NewAdminController(config AdminControllerConfig) AdminController {
	return AdminController{
		authenticator:   config.Authenticator,
		galleryCache:    config.GalleryCache,
		session:         config.Session,
		settingsService: config.SettingsService,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool              `json:"success"`
	User    *models.AdminUser `json:"user"`
}

/*
POST /api/admin/login
*/
func (c AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	request := loginRequest{}

	if err = httpjson.Decode(r, &request); err != nil {
		httpjson.BadRequest(w, "Missing required fields")
		return
	}

	user, ok := c.authenticator.Authenticate(request.Username, request.Password)
	if !ok {
		slog.Warn("failed admin sign in", "username", request.Username, "ip", r.RemoteAddr)
		httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err = c.session.Set(r, user); err != nil {
		slog.Error("error setting admin session", "error", err)
		httpjson.InternalServerError(w)
		return
	}

	if err = c.session.Save(w, r); err != nil {
		slog.Error("error saving admin session", "error", err)
		httpjson.InternalServerError(w)
		return
	}

	slog.Info("admin signed in", "username", user.Username)
	httpjson.OK(w, sessionResponse{Success: true, User: user})
}

/*
POST /api/admin/logout
*/
func (c AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	_ = c.session.Destroy(w, r)
	_ = c.session.Save(w, r)

	httpjson.OK(w, httpjson.SuccessResponse{Success: true})
}

/*
GET /api/admin/session
*/
func (c AdminController) CurrentSession(w http.ResponseWriter, r *http.Request) {
	admin := auth.CurrentAdmin(c.session, r)
	if admin == nil {
		httpjson.Unauthorized(w)
		return
	}

	httpjson.OK(w, sessionResponse{Success: true, User: admin})
}

/*
GET /api/admin/settings
*/
func (c AdminController) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.settingsService.GetSettings(r.Context())
	if err != nil {
		slog.Error("error fetching admin settings", "error", err)
		httpjson.InternalServerError(w)
		return
	}

	httpjson.OK(w, settings)
}

/*
POST /api/admin/settings
*/
func (c AdminController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	update := services.SettingsUpdate{}

	if err = httpjson.Decode(r, &update); err != nil {
		httpjson.BadRequest(w, "Invalid request body")
		return
	}

	if update.IsEmpty() {
		httpjson.OK(w, httpjson.SuccessResponse{Success: true})
		return
	}

	if _, err = c.settingsService.UpdateSettings(r.Context(), update); err != nil {
		var validationErr *services.ValidationError

		if errors.As(err, &validationErr) {
			httpjson.BadRequest(w, validationErr.Message)
			return
		}

		slog.Error("error updating admin settings", "error", err)
		httpjson.InternalServerError(w)
		return
	}

	if update.VisibleAlbums != nil && c.galleryCache != nil {
		c.galleryCache.Invalidate()
	}

	httpjson.OK(w, httpjson.SuccessResponse{Success: true})
}
