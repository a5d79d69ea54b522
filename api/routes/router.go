package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sliceops-ai/sliceops-backend/api/controllers"
	"github.com/sliceops-ai/sliceops-backend/api/middleware"
	"github.com/sliceops-ai/sliceops-backend/internal/blocks"
	"github.com/sliceops-ai/sliceops-backend/internal/locations"
	"github.com/sliceops-ai/sliceops-backend/internal/workflows"
	"github.com/sliceops-ai/sliceops-backend/pkg/config"
	"github.com/sliceops-ai/sliceops-backend/pkg/db"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
	"github.com/sliceops-ai/sliceops-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	locationService locations.Service,
	blockService blocks.Service,
	workflowService workflows.Service,
	insightGenerator controllers.InsightGenerator,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/locations", func(r chi.Router) {
			r.Post("/", controllers.LocationCreate(locationService, logg))
			r.Get("/", controllers.LocationList(locationService, logg))
			r.Get("/{locationId}", controllers.LocationDetail(locationService, logg))
			r.Patch("/{locationId}", controllers.LocationUpdate(locationService, logg))
			r.Get("/{locationId}/blocks", controllers.BlockList(blockService, logg))
			r.Get("/{locationId}/workflows", controllers.WorkflowList(workflowService, logg))
		})

		r.Route("/blocks", func(r chi.Router) {
			r.Post("/", controllers.BlockCreate(blockService, logg))
			r.Post("/{blockId}/confirm", controllers.BlockConfirmDriver(blockService, logg))
			r.Post("/{blockId}/status", controllers.BlockUpdateStatus(blockService, logg))
		})

		r.Route("/workflows", func(r chi.Router) {
			r.Post("/", controllers.WorkflowCreate(workflowService, logg))
			r.Get("/{workflowId}", controllers.WorkflowDetail(workflowService, logg))
			r.Post("/{workflowId}/items/{itemId}/check", controllers.WorkflowCheckItem(workflowService, logg))
		})

		r.Get("/stores/{storeId}/insight", controllers.StoreInsight(locationService, insightGenerator, logg))
	})

	return r
}
