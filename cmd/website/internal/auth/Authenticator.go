package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/4kphotoz/website/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const adminContextKey contextKey = "admin"

/*
AdminSession is the cookie session holding the signed in admin.
*/
type AdminSession interface {
	Get(r *http.Request) (*models.AdminUser, error)
	Set(r *http.Request, value *models.AdminUser) error
	Save(w http.ResponseWriter, r *http.Request) error
	Destroy(w http.ResponseWriter, r *http.Request) error
}

type AuthenticatorConfig struct {
	Username     string
	Password     string
	PasswordHash string
	Email        string
}

/*
Authenticator checks the single admin credential pair. A bcrypt hash wins
over a plain text password. With neither configured nobody can sign in.
*/
type Authenticator struct {
	username     string
	password     string
	passwordHash []byte
	email        string
}

func NewAuthenticator(config AuthenticatorConfig) Authenticator {
	if config.Password == "" && config.PasswordHash == "" {
		slog.Warn("no admin password configured, admin sign in is disabled")
	}

	return Authenticator{
		username:     config.Username,
		password:     config.Password,
		passwordHash: []byte(config.PasswordHash),
		email:        config.Email,
	}
}

func (a Authenticator) Authenticate(username, password string) (*models.AdminUser, bool) {
	if username == "" || password == "" {
		return nil, false
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passwordOK := false

	switch {
	case len(a.passwordHash) > 0:
		passwordOK = bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	case a.password != "":
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}

	if !usernameOK || !passwordOK {
		return nil, false
	}

	return &models.AdminUser{
		Username: a.username,
		Name:     "Admin",
		Email:    a.email,
		Role:     "admin",
	}, true
}

/*
CurrentAdmin returns the signed in admin, or nil when the request has no
valid admin session.
*/
func CurrentAdmin(session AdminSession, r *http.Request) *models.AdminUser {
	if admin := FromContext(r.Context()); admin != nil {
		return admin
	}

	admin, err := session.Get(r)
	if err != nil || admin == nil || admin.Username == "" {
		return nil
	}

	return admin
}

func WithAdmin(ctx context.Context, admin *models.AdminUser) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

func FromContext(ctx context.Context) *models.AdminUser {
	admin, _ := ctx.Value(adminContextKey).(*models.AdminUser)
	return admin
}
