package api

import (
	"log/slog"

	"github.com/vantrel/medscan/internal/analyses"
	"github.com/vantrel/medscan/internal/config"
	"github.com/vantrel/medscan/internal/inference"
	"github.com/vantrel/medscan/internal/infrastructure"
	"github.com/vantrel/medscan/internal/scans"
)

// Runtime holds the constructed domain systems behind the API surface.
type Runtime struct {
	Scans    scans.System
	Analyses analyses.System
}

// NewRuntime wires the domain systems over shared infrastructure.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scanSystem := scans.NewSystem(infra.Database, infra.Storage, infra.Logger)
	client := inference.NewClient(cfg.Inference, infra.Logger)

	return &Runtime{
		Scans:    scanSystem,
		Analyses: analyses.NewSystem(infra.Database, scanSystem, client, infra.Logger),
	}
}

// ScanHandler builds the scan HTTP handler.
func (r *Runtime) ScanHandler(cfg *config.Config, logger *slog.Logger) *scans.Handler {
	return scans.NewHandler(r.Scans, logger, cfg.API.Pagination, cfg.API.MaxUploadSizeBytes())
}

// AnalysisHandler builds the analysis HTTP handler.
func (r *Runtime) AnalysisHandler(cfg *config.Config, logger *slog.Logger) *analyses.Handler {
	return analyses.NewHandler(r.Analyses, logger, cfg.API.Pagination)
}
