package main

import (
	"net/http"

	"github.com/vantrel/medscan/internal/infrastructure"
	"github.com/vantrel/medscan/pkg/handlers"
	"github.com/vantrel/medscan/pkg/module"
)

type healthResponse struct {
	Status string `json:"status"`
}

// registerHealth mounts liveness and readiness probes on the native mux.
func registerHealth(router *module.Router, infra *infrastructure.Infrastructure) {
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, healthResponse{Status: "ready"})
	})
}
