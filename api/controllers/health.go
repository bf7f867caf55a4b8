package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lockwise/lockshop-backend/api/responses"
	"github.com/lockwise/lockshop-backend/pkg/config"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/logger"
)

const (
	envHeader         = "X-Lockshop-Env"
	readyCheckTimeout = 2 * time.Second
)

// DependencyCheck names a backing service the API cannot serve without.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, "ok", map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...DependencyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		status := map[string]string{"status": "ready"}
		for _, check := range checks {
			if err := check.Ping(ctx); err != nil {
				status["status"] = "degraded"
				status[check.Name] = "down"
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.Name+" unreachable").WithDetails(status))
				return
			}
			status[check.Name] = "up"
		}
		responses.WriteSuccess(w, "ok", status)
	}
}
