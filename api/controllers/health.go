package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/elegantjewelry/jewelbox-backend/api/responses"
	"github.com/elegantjewelry/jewelbox-backend/pkg/config"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is satisfied by every backing store the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-JewelBox-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports the first problem set.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-JewelBox-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var combined error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					failCtx := logg.WithField(ctx, "dependency", name)
					logg.Error(failCtx, "readiness check failed", err)
				}
				combined = multierr.Append(combined, err)
			}
		}
		if combined != nil {
			responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
