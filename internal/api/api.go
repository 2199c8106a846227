// Package api assembles the domain modules into the service's HTTP surface.
package api

import (
	"log/slog"
	"net/http"

	"github.com/vantrel/medscan/internal/config"
	"github.com/vantrel/medscan/internal/infrastructure"
	"github.com/vantrel/medscan/pkg/middleware"
	"github.com/vantrel/medscan/pkg/module"
	"github.com/vantrel/medscan/pkg/routes"
)

// NewModule builds the API module: domain systems, their routes, and the
// shared middleware stack, mounted under the configured base path.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) *module.Module {
	runtime := NewRuntime(cfg, infra)

	mux := http.NewServeMux()
	routes.Register(mux, buildRoutes(cfg, infra.Logger, runtime))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(infra.Logger.With("module", "api")))
	m.Use(middleware.CORS(&cfg.API.CORS))

	return m
}

func buildRoutes(cfg *config.Config, logger *slog.Logger, runtime *Runtime) routes.Group {
	return routes.Group{
		Children: []routes.Group{
			runtime.ScanHandler(cfg, logger).Routes(),
			runtime.AnalysisHandler(cfg, logger).Routes(),
		},
	}
}
