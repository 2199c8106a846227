package analyses

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vantrel/medscan/internal/inference"
	"github.com/vantrel/medscan/internal/scans"
	"github.com/vantrel/medscan/pkg/database"
	"github.com/vantrel/medscan/pkg/pagination"
	"github.com/vantrel/medscan/pkg/query"
	"github.com/vantrel/medscan/pkg/repository"
)

// batchConcurrency bounds in-flight model calls during a batch run.
const batchConcurrency = 4

// Analyzer is the slice of the inference client the analysis system needs.
type Analyzer interface {
	Analyze(ctx context.Context, frame image.Image, category inference.Category) (string, error)
	Model() string
}

// System exposes analysis operations to handlers.
type System interface {
	// List returns a page of analyses matching the request and filters.
	List(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Analysis], error)
	// Find returns a single analysis by ID. Returns ErrNotFound when absent.
	Find(ctx context.Context, id uuid.UUID) (Analysis, error)
	// Run analyzes one frame and records the outcome. Inference faults are
	// recorded, not returned: a non-nil error means nothing was persisted.
	Run(ctx context.Context, cmd RunCommand) (Analysis, error)
	// RunAll analyzes every frame of a scan, recording one analysis per frame
	// in frame order.
	RunAll(ctx context.Context, cmd BatchCommand) ([]Analysis, error)
	// Delete removes an analysis record.
	Delete(ctx context.Context, id uuid.UUID) error
}

type system struct {
	db     database.System
	scans  scans.System
	model  Analyzer
	logger *slog.Logger
}

// NewSystem creates the analysis system over the scan system and model client.
func NewSystem(db database.System, scanSystem scans.System, model Analyzer, logger *slog.Logger) System {
	return &system{
		db:     db,
		scans:  scanSystem,
		model:  model,
		logger: logger.With("system", "analyses"),
	}
}

func (s *system) List(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Analysis], error) {
	builder := query.NewBuilder(projection(), defaultSort...).
		WhereEquals("ScanID", filters.ScanID).
		WhereEquals("Category", filters.Category).
		WhereEquals("Status", filters.Status).
		WhereSearch(req.Search, "Content", "Filename").
		OrderByFields(req.Sort)

	countSQL, countArgs := builder.BuildCount()
	total, err := repository.QueryOne(ctx, s.db.Connection(), countSQL, countArgs, analysisCount)
	if err != nil {
		return pagination.PageResult[Analysis]{}, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := builder.BuildPage(req.Page, req.PageSize)
	items, err := repository.QueryMany(ctx, s.db.Connection(), pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return pagination.PageResult[Analysis]{}, fmt.Errorf("list analyses: %w", err)
	}

	return pagination.NewPageResult(items, total, req.Page, req.PageSize), nil
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (Analysis, error) {
	sql, args := query.NewBuilder(projection()).BuildSingle("ID", id)

	analysis, err := repository.QueryOne(ctx, s.db.Connection(), sql, args, scanAnalysis)
	if err != nil {
		return Analysis{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return analysis, nil
}

func (s *system) Run(ctx context.Context, cmd RunCommand) (Analysis, error) {
	if !cmd.Category.Valid() {
		return Analysis{}, fmt.Errorf("%w: %q", inference.ErrUnknownCategory, cmd.Category)
	}

	scan, err := s.scans.Find(ctx, cmd.ScanID)
	if err != nil {
		return Analysis{}, err
	}

	// Frame retrieval failures abort before any model traffic and nothing
	// is recorded; only completed inference calls enter the history.
	seq, err := s.scans.Frames(ctx, cmd.ScanID)
	if err != nil {
		return Analysis{}, err
	}

	frame, err := seq.Frame(cmd.FrameIndex)
	if err != nil {
		return Analysis{}, err
	}

	analysis := s.analyze(ctx, scan, frame, cmd.Category, cmd.FrameIndex)
	return s.record(ctx, analysis)
}

func (s *system) RunAll(ctx context.Context, cmd BatchCommand) ([]Analysis, error) {
	if !cmd.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", inference.ErrUnknownCategory, cmd.Category)
	}

	scan, err := s.scans.Find(ctx, cmd.ScanID)
	if err != nil {
		return nil, err
	}

	seq, err := s.scans.Frames(ctx, cmd.ScanID)
	if err != nil {
		return nil, err
	}

	results := make([]Analysis, seq.Len())

	var g errgroup.Group
	g.SetLimit(batchConcurrency)

	for index := 0; index < seq.Len(); index++ {
		frame, err := seq.Frame(index)
		if err != nil {
			return nil, err
		}

		g.Go(func() error {
			results[index] = s.analyze(ctx, scan, frame, cmd.Category, index)
			return nil
		})
	}
	g.Wait()

	// model calls fan out, but records land in frame order
	recorded := make([]Analysis, 0, len(results))
	for _, analysis := range results {
		persisted, err := s.record(ctx, analysis)
		if err != nil {
			return recorded, err
		}
		recorded = append(recorded, persisted)
	}

	s.logger.Info("batch analysis complete",
		"scan_id", cmd.ScanID,
		"category", cmd.Category,
		"frames", len(recorded),
	)
	return recorded, nil
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	const remove = `DELETE FROM public.analyses WHERE id = $1`
	if err := repository.ExecExpectOne(ctx, s.db.Connection(), remove, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("analysis deleted", "id", id)
	return nil
}

// analyze runs one model call and folds the outcome, success or fault, into
// an unrecorded Analysis.
func (s *system) analyze(ctx context.Context, scan scans.Scan, frame image.Image, category inference.Category, index int) Analysis {
	analysis := Analysis{
		ID:         uuid.New(),
		ScanID:     scan.ID,
		Filename:   scan.Filename,
		Category:   category,
		FrameIndex: index,
		ModelName:  s.model.Model(),
	}

	content, err := s.model.Analyze(ctx, frame, category)
	if err != nil {
		fault := inference.AsFault(err)
		faultCategory := string(fault.Category)

		analysis.Status = StatusFailure
		analysis.ErrorCategory = &faultCategory
		analysis.ErrorMessage = &fault.Message

		s.logger.Warn("analysis call failed",
			"scan_id", scan.ID,
			"frame", index,
			"fault", fault.Category,
			"error", fault.Message,
		)
		return analysis
	}

	analysis.Status = StatusSuccess
	analysis.Content = content
	return analysis
}

func (s *system) record(ctx context.Context, analysis Analysis) (Analysis, error) {
	const insert = `
		INSERT INTO public.analyses
			(id, scan_id, category, frame_index, status, content, error_category, error_message, model_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	row := s.db.Connection().QueryRowContext(ctx, insert,
		analysis.ID, analysis.ScanID, analysis.Category, analysis.FrameIndex,
		analysis.Status, analysis.Content, analysis.ErrorCategory, analysis.ErrorMessage,
		analysis.ModelName,
	)
	if err := row.Scan(&analysis.CreatedAt); err != nil {
		return Analysis{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return analysis, nil
}

func analysisCount(s repository.Scanner) (int, error) {
	var count int
	err := s.Scan(&count)
	return count, err
}
