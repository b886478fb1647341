// cmd/worker/startup.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"freewriter/pkg/container"
)

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// startServices performs health checks and starts the probe endpoint
func startServices(c *container.Container) error {
	log.Info().Str("app", c.Config.App.Name).Msg("Worker starting")

	checks := []healthCheck{
		{"Redis Connection", c.Redis.HealthCheck},
		{"Database Connection", c.DB.Ping},
	}
	if err := runChecks(context.Background(), checks); err != nil {
		return err
	}

	go startHealthCheckServer(checks)
	return nil
}

// runChecks stops at the first failing check
func runChecks(ctx context.Context, checks []healthCheck) error {
	for _, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.fn(checkCtx)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}
	return nil
}

// startHealthCheckServer serves /health (liveness) and /ready (dependencies reachable)
func startHealthCheckServer(checks []healthCheck) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, `{"status":"UP","service":"freewriter-worker"}`)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := runChecks(r.Context(), checks); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, `{"status":"NOT_READY"}`)
			return
		}
		writeStatus(w, http.StatusOK, `{"status":"READY"}`)
	})

	log.Info().Str("addr", healthAddr).Msg("[Health] Starting health check server")
	srv := &http.Server{Addr: healthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}

func writeStatus(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
