package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/skillnotes/skillnotes-backend/api/responses"
	"github.com/skillnotes/skillnotes-backend/pkg/config"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
)

const envHeader = "X-SkillNotes-Env"

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings storage. A nil pinger is always ready.
func HealthReady(cfg *config.Config, storage Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if storage != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := storage.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage not ready"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{
			"status":  "ready",
			"storage": cfg.Storage.Driver,
		})
	}
}
