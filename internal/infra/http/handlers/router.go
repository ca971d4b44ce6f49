package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
)

type RouterConfig struct {
	Forms          *FormHandler
	LeadStore      *LeadStoreHandler // nil when no workbook is mounted
	Health         *HealthHandler
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Lead-Store-Secret"},
		MaxAge:         300,
	}))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	for _, pattern := range []string{"/api/forms/{formType}", "/api/{formType}"} {
		r.Post(pattern, cfg.Forms.Submit)
		r.Options(pattern, Options)
	}

	if cfg.LeadStore != nil {
		r.Route("/hooks/lead-store", func(r chi.Router) {
			r.Use(cfg.LeadStore.Authorize)
			r.Post("/", cfg.LeadStore.Record)
			r.Get("/sheets/{sheet}", cfg.LeadStore.ListSheet)
		})
	}

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	return r
}
