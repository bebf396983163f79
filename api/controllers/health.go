package controllers

import (
	"net/http"

	"github.com/minimalstore/storefront-api/api/responses"
	"github.com/minimalstore/storefront-api/pkg/config"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
)

// Pinger is anything whose liveness gates readiness (DB, redis).
type Pinger interface {
	Ping(r *http.Request) error
}

// PingerFunc adapts a plain function to Pinger.
type PingerFunc func(r *http.Request) error

func (f PingerFunc) Ping(r *http.Request) error { return f(r) }

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MinStore-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the hard dependencies answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MinStore-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(r); err != nil {
				checks[name] = "down"
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
