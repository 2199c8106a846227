package scans

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vantrel/medscan/internal/imaging"
	"github.com/vantrel/medscan/pkg/database"
	"github.com/vantrel/medscan/pkg/pagination"
	"github.com/vantrel/medscan/pkg/query"
	"github.com/vantrel/medscan/pkg/repository"
	"github.com/vantrel/medscan/pkg/storage"
)

// System exposes scan operations to handlers and dependent modules.
type System interface {
	// List returns a page of scans matching the request and filters.
	List(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Scan], error)
	// Find returns a single scan by ID. Returns ErrNotFound when absent.
	Find(ctx context.Context, id uuid.UUID) (Scan, error)
	// Create ingests an upload: the bytes must decode before anything is stored.
	Create(ctx context.Context, cmd CreateCommand) (Scan, error)
	// Delete removes a scan row and its stored bytes.
	Delete(ctx context.Context, id uuid.UUID) error
	// Frames downloads and decodes a scan's stored bytes into its frame sequence.
	Frames(ctx context.Context, id uuid.UUID) (*imaging.FrameSequence, error)
}

type system struct {
	db      database.System
	storage storage.System
	logger  *slog.Logger
}

// NewSystem creates the scan system over the shared infrastructure.
func NewSystem(db database.System, store storage.System, logger *slog.Logger) System {
	return &system{
		db:      db,
		storage: store,
		logger:  logger.With("system", "scans"),
	}
}

func (s *system) List(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Scan], error) {
	builder := query.NewBuilder(projection(), defaultSort...).
		WhereEquals("Kind", filters.Kind).
		WhereSearch(req.Search, "Filename").
		OrderByFields(req.Sort)

	countSQL, countArgs := builder.BuildCount()
	total, err := repository.QueryOne(ctx, s.db.Connection(), countSQL, countArgs, scanCount)
	if err != nil {
		return pagination.PageResult[Scan]{}, fmt.Errorf("count scans: %w", err)
	}

	pageSQL, pageArgs := builder.BuildPage(req.Page, req.PageSize)
	items, err := repository.QueryMany(ctx, s.db.Connection(), pageSQL, pageArgs, scanScan)
	if err != nil {
		return pagination.PageResult[Scan]{}, fmt.Errorf("list scans: %w", err)
	}

	return pagination.NewPageResult(items, total, req.Page, req.PageSize), nil
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (Scan, error) {
	sql, args := query.NewBuilder(projection()).BuildSingle("ID", id)

	scan, err := repository.QueryOne(ctx, s.db.Connection(), sql, args, scanScan)
	if err != nil {
		return Scan{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return scan, nil
}

func (s *system) Create(ctx context.Context, cmd CreateCommand) (Scan, error) {
	if cmd.Filename == "" {
		return Scan{}, ErrMissingFilename
	}
	if len(cmd.Data) == 0 {
		return Scan{}, ErrEmptyFile
	}

	kind := imaging.KindFromFilename(cmd.Filename)
	seq, err := imaging.Decode(cmd.Data, kind)
	if err != nil {
		return Scan{}, err
	}

	first, err := seq.Frame(0)
	if err != nil {
		return Scan{}, err
	}
	bounds := first.Bounds()

	scan := Scan{
		ID:          uuid.New(),
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		Kind:        kind,
		ByteSize:    int64(len(cmd.Data)),
		FrameCount:  seq.Len(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}
	scan.StorageKey = storageKey(scan.ID, cmd.Filename)

	if err := s.storage.Upload(ctx, scan.StorageKey, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return Scan{}, fmt.Errorf("store scan: %w", err)
	}

	const insert = `
		INSERT INTO public.scans
			(id, filename, content_type, kind, byte_size, frame_count, width, height, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING uploaded_at`

	row := s.db.Connection().QueryRowContext(ctx, insert,
		scan.ID, scan.Filename, scan.ContentType, scan.Kind,
		scan.ByteSize, scan.FrameCount, scan.Width, scan.Height, scan.StorageKey,
	)
	if err := row.Scan(&scan.UploadedAt); err != nil {
		// roll the blob back so storage does not accumulate orphans
		if cleanup := s.storage.Delete(ctx, scan.StorageKey); cleanup != nil {
			s.logger.Error("orphaned blob cleanup failed", "key", scan.StorageKey, "error", cleanup)
		}
		return Scan{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("scan created",
		"id", scan.ID,
		"filename", scan.Filename,
		"kind", scan.Kind,
		"frames", scan.FrameCount,
	)
	return scan, nil
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	scan, err := s.Find(ctx, id)
	if err != nil {
		return err
	}

	const remove = `DELETE FROM public.scans WHERE id = $1`
	if err := repository.ExecExpectOne(ctx, s.db.Connection(), remove, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := s.storage.Delete(ctx, scan.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("scan blob delete failed", "key", scan.StorageKey, "error", err)
	}

	s.logger.Info("scan deleted", "id", id)
	return nil
}

func (s *system) Frames(ctx context.Context, id uuid.UUID) (*imaging.FrameSequence, error) {
	scan, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	reader, err := s.storage.Download(ctx, scan.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("fetch scan bytes: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read scan bytes: %w", err)
	}

	return imaging.Decode(data, scan.Kind)
}

func scanCount(s repository.Scanner) (int, error) {
	var count int
	err := s.Scan(&count)
	return count, err
}

func storageKey(id uuid.UUID, filename string) string {
	name := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	return fmt.Sprintf("scans/%s/%s", id, name)
}
