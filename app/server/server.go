// Package server wires the endpoint sets into the HTTP service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mytheresa/ecommerce-back-end/app/api"
	"github.com/mytheresa/ecommerce-back-end/app/categories"
	"github.com/mytheresa/ecommerce-back-end/app/config"
	"github.com/mytheresa/ecommerce-back-end/app/database"
	"github.com/mytheresa/ecommerce-back-end/app/metric"
	"github.com/mytheresa/ecommerce-back-end/app/middleware"
	"github.com/mytheresa/ecommerce-back-end/app/products"
	"github.com/mytheresa/ecommerce-back-end/app/tags"
)

// Stores groups the repositories the handlers read and write.
type Stores struct {
	Categories categories.CategoryProvider
	Products   products.ProductProvider
	Tags       tags.TagProvider
	Health     database.HealthChecker
}

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	metrics  *metric.Metrics
	gatherer prometheus.Gatherer
	stores   Stores
}

type CleanupFunc func(ctx context.Context) error

func New(cfg config.HTTP, logger *slog.Logger, stores Stores, reg *prometheus.Registry) *Service {
	return &Service{
		cfg:      cfg,
		logger:   logger.With(slog.String("service", "http")),
		metrics:  metric.New(reg),
		gatherer: reg,
		stores:   stores,
	}
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)
	s.RegisterHandlers(r)
	return r
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server stopped", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.RequestID(),
		middleware.Metrics(s.metrics),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	categoryHandler := categories.NewCategoryHandler(s.stores.Categories, s.logger)
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.HandleGetAll)
		r.Post("/", categoryHandler.HandleCreate)
		r.Get("/{id}", categoryHandler.HandleGet)
		r.Put("/{id}", categoryHandler.HandleUpdate)
		r.Delete("/{id}", categoryHandler.HandleDelete)
	})

	productHandler := products.NewProductHandler(s.stores.Products, s.logger)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.HandleGetAll)
		r.Post("/", productHandler.HandleCreate)
		r.Get("/{id}", productHandler.HandleGet)
		r.Put("/{id}", productHandler.HandleUpdate)
		r.Delete("/{id}", productHandler.HandleDelete)
	})

	tagHandler := tags.NewTagHandler(s.stores.Tags, s.logger)
	r.Route("/tags", func(r chi.Router) {
		r.Get("/", tagHandler.HandleGetAll)
		r.Post("/", tagHandler.HandleCreate)
		r.Get("/{id}", tagHandler.HandleGet)
		r.Put("/{id}", tagHandler.HandleUpdate)
		r.Delete("/{id}", tagHandler.HandleDelete)
	})

	r.Get("/healthz", s.handleHealth)

	if s.cfg.Metrics {
		r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
			ErrorLog: log.Default(),
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.MessageResponse(w, http.StatusNotFound, "Wrong Route!")
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.stores.Health.IsHealthy(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		api.MessageResponse(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	api.OKResponse(w, map[string]string{"status": "ok"})
}
