package middleware

import (
	"net/http"

	"github.com/minimalstore/storefront-api/api/responses"
	"github.com/minimalstore/storefront-api/pkg/config"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
)

// RequireAdmin gates admin endpoints on the verified email claim.
func RequireAdmin(cfg config.AppConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.IsAdminEmail(EmailFromContext(r.Context())) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
