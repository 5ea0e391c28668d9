// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package api contains the health check handlers for liveness and readiness probes.
package api

import (
	"log/slog"
	"net/http"

	"github.com/Sy2force/cardbase/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// checkResult is one dependency's contribution to the readiness report.
type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready (Readiness probe).
//
// Every registered dependency is probed even after the first failure so the
// report names all degraded dependencies at once.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	probes := []struct {
		name  string
		check func() error
	}{
		{name: "postgres", check: handler.dependencies.CheckDatabase},
		{name: "redis", check: handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(probes))
	isSystemReady := true

	for _, probe := range probes {
		if probe.check == nil {
			continue
		}

		result := checkResult{Name: probe.name, IsOK: true}
		if err := probe.check(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", probe.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	if !isSystemReady {
		responseStatus = "degraded"
		// respond.OK always sends 200, so the degraded status is set first.
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(http.StatusServiceUnavailable)
	}

	respond.OK(writer, map[string]any{
		"status": responseStatus,
		"checks": results,
	})
}
