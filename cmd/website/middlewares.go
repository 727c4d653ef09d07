package main

import (
	"net/http"
	"time"

	"github.com/4kphotoz/website/cmd/website/internal/auth"
	"github.com/4kphotoz/website/cmd/website/internal/httpjson"
	"github.com/4kphotoz/website/pkg/models"
	"github.com/go-chi/httprate"
)

/*
newAdminMiddleware rejects requests without an admin session with a JSON
401. The admin is placed on the request context for the handlers.
*/
func newAdminMiddleware(session auth.AdminSession) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err   error
				admin *models.AdminUser
			)

			if admin, err = session.Get(r); err != nil || admin == nil {
				httpjson.Unauthorized(w)
				return
			}

			ctx := auth.WithAdmin(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

/*
newRateLimitMiddleware limits public form posts per client IP. A limit of
zero or less disables it.
*/
func newRateLimitMiddleware(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpjson.Error(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}
