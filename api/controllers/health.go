package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sliceops-ai/sliceops-backend/api/responses"
	"github.com/sliceops-ai/sliceops-backend/pkg/config"
	"github.com/sliceops-ai/sliceops-backend/pkg/db"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
	"github.com/sliceops-ai/sliceops-backend/pkg/redis"
)

const healthCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SliceOps-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		components := map[string]string{}
		ready := true

		if dbP != nil {
			checkCtx, checkCancel := contextWithTimeout(ctx)
			if err := dbP.Ping(checkCtx); err != nil {
				components["db"] = "unreachable"
				ready = false
				if logg != nil {
					logg.Error(ctx, "readiness db ping failed", err)
				}
			} else {
				components["db"] = "ok"
			}
			checkCancel()
		}

		if redisP != nil {
			checkCtx, checkCancel := contextWithTimeout(ctx)
			if err := redisP.Ping(checkCtx); err != nil {
				components["redis"] = "unreachable"
				ready = false
				if logg != nil {
					logg.Error(ctx, "readiness redis ping failed", err)
				}
			} else {
				components["redis"] = "ok"
			}
			checkCancel()
		}

		w.Header().Set("X-SliceOps-Env", cfg.App.Env)
		payload := map[string]any{"status": "ready", "components": components}
		if !ready {
			payload["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, payload)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

func contextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, healthCheckTimeout)
}
