package router

import (
	"net/http"

	_ "pet-adoption-catalog/docs"
	mem "pet-adoption-catalog/internal/adapters/storage/memory"
	"pet-adoption-catalog/internal/domain/animals"
	"pet-adoption-catalog/internal/middleware"
	"pet-adoption-catalog/internal/platform/logger"
	"pet-adoption-catalog/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si no viene, in-memory.
	Provider animals.Provider

	Logger  logger.Logger    // puede ser nil
	Metrics *metrics.Metrics // puede ser nil (se crea uno propio)

	// Rand fija la fuente de los muestreos (tests).
	Rand animals.Rand

	PageSize      int
	FeaturedCount int
	MaxSample     int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	provider := opts.Provider
	if provider == nil {
		provider = mem.NewAnimalRepo()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log, m))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svcOpts := []animals.Option{animals.WithRecorder(m)}
	if opts.Rand != nil {
		svcOpts = append(svcOpts, animals.WithRand(opts.Rand))
	}
	svc := animals.NewService(provider, svcOpts...)

	animals.RegisterRoutes(r, svc, animals.RouteOptions{
		PageSize:      opts.PageSize,
		FeaturedCount: opts.FeaturedCount,
		MaxSample:     opts.MaxSample,
		Logger:        log,
	})

	return r
}
