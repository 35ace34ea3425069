package controllers

import (
	"net/http"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/api/responses"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/config"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	pkgerrors "github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/errors"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
)

const envHeader = "X-Grocer-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, Redis.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping failed").
				WithDetails(map[string]string{"dependency": "database"}))
			return
		}
		checks := map[string]string{"status": "ready", "database": "ok"}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping failed").
					WithDetails(map[string]string{"dependency": "redis"}))
				return
			}
			checks["redis"] = "ok"
		}
		responses.WriteSuccess(w, checks)
	}
}
