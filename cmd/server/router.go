package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avbelov/taskman-api/internal/api"
	apimiddleware "github.com/avbelov/taskman-api/internal/api/middleware"
	"github.com/avbelov/taskman-api/internal/store"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func setupRouter(userStore store.UserStore, taskStore store.TaskStore, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)
	r.Use(apimiddleware.Metrics)

	userHandler := api.NewUserHandler(userStore, logger)
	taskHandler := api.NewTaskHandler(taskStore, logger)

	r.Route("/user", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Post("/create", userHandler.Create)
		r.Get("/{id}", userHandler.GetByID)
		r.Get("/{id}/tasks", userHandler.ListTasks)
		r.Put("/update/{id}", userHandler.Update)
		r.Delete("/delete/{id}", userHandler.Delete)
	})

	r.Route("/task", func(r chi.Router) {
		r.Get("/", taskHandler.List)
		r.Post("/create", taskHandler.Create)
		r.Get("/{id}", taskHandler.GetByID)
		r.Put("/update/{id}", taskHandler.Update)
		r.Delete("/delete/{id}", taskHandler.Delete)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
