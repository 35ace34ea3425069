package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/api/controllers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/api/middleware"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/reports"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/config"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
)

// NewRouter exposes the monitor's health, metrics and read-only inventory
// endpoints. redisP may be nil when Redis is not configured.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP db.Pinger,
	gatherer prometheus.Gatherer,
	reportService reports.Service,
	alertService controllers.AlertLister,
	suggestionService controllers.SuggestionSource,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Monitor.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", controllers.InventorySummary(reportService, logg))
		r.Get("/alerts", controllers.ListAlerts(alertService, logg))
		r.Get("/suggestions", controllers.ListSuggestions(suggestionService, logg))
	})

	return r
}
