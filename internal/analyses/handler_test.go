package analyses_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vantrel/medscan/internal/analyses"
	"github.com/vantrel/medscan/internal/inference"
	"github.com/vantrel/medscan/internal/scans"
	"github.com/vantrel/medscan/pkg/pagination"
	"github.com/vantrel/medscan/pkg/routes"
)

type stubSystem struct {
	list   func(ctx context.Context, req pagination.PageRequest, filters analyses.Filters) (pagination.PageResult[analyses.Analysis], error)
	find   func(ctx context.Context, id uuid.UUID) (analyses.Analysis, error)
	run    func(ctx context.Context, cmd analyses.RunCommand) (analyses.Analysis, error)
	runAll func(ctx context.Context, cmd analyses.BatchCommand) ([]analyses.Analysis, error)
	remove func(ctx context.Context, id uuid.UUID) error
}

func (s *stubSystem) List(ctx context.Context, req pagination.PageRequest, filters analyses.Filters) (pagination.PageResult[analyses.Analysis], error) {
	return s.list(ctx, req, filters)
}

func (s *stubSystem) Find(ctx context.Context, id uuid.UUID) (analyses.Analysis, error) {
	return s.find(ctx, id)
}

func (s *stubSystem) Run(ctx context.Context, cmd analyses.RunCommand) (analyses.Analysis, error) {
	return s.run(ctx, cmd)
}

func (s *stubSystem) RunAll(ctx context.Context, cmd analyses.BatchCommand) ([]analyses.Analysis, error) {
	return s.runAll(ctx, cmd)
}

func (s *stubSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return s.remove(ctx, id)
}

func newMux(t *testing.T, system analyses.System) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := analyses.NewHandler(system, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())
	return mux
}

func postJSON(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRun(t *testing.T) {
	scanID := uuid.New()
	system := &stubSystem{
		run: func(ctx context.Context, cmd analyses.RunCommand) (analyses.Analysis, error) {
			if cmd.ScanID != scanID || cmd.Category != inference.AnomalyDetection || cmd.FrameIndex != 2 {
				t.Errorf("unexpected command %+v", cmd)
			}
			return analyses.Analysis{
				ID:       uuid.New(),
				ScanID:   cmd.ScanID,
				Category: cmd.Category,
				Status:   analyses.StatusSuccess,
				Content:  "no anomalies visible",
			}, nil
		},
	}

	body := `{"scan_id":"` + scanID.String() + `","category":"Anomaly_Detection","frame_index":2}`
	rec := postJSON(newMux(t, system), "/analyses", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var analysis analyses.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if analysis.Content != "no anomalies visible" {
		t.Errorf("unexpected content %q", analysis.Content)
	}
}

func TestRunRecordedFault(t *testing.T) {
	faultCategory := string(inference.FaultTransport)
	faultMessage := "request failed: connection refused"

	system := &stubSystem{
		run: func(ctx context.Context, cmd analyses.RunCommand) (analyses.Analysis, error) {
			return analyses.Analysis{
				ID:            uuid.New(),
				Status:        analyses.StatusFailure,
				ErrorCategory: &faultCategory,
				ErrorMessage:  &faultMessage,
			}, nil
		},
	}

	body := `{"scan_id":"` + uuid.NewString() + `","category":"General_Description","frame_index":0}`
	rec := postJSON(newMux(t, system), "/analyses", body)

	// a recorded fault is a created record, not an error response
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var analysis analyses.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if analysis.Status != analyses.StatusFailure {
		t.Errorf("expected failure status, got %s", analysis.Status)
	}
	if analysis.ErrorCategory == nil || *analysis.ErrorCategory != faultCategory {
		t.Errorf("unexpected error category %v", analysis.ErrorCategory)
	}
}

func TestRunInvalidCategory(t *testing.T) {
	system := &stubSystem{
		run: func(ctx context.Context, cmd analyses.RunCommand) (analyses.Analysis, error) {
			t.Error("system should not be reached with an invalid category")
			return analyses.Analysis{}, nil
		},
	}

	body := `{"scan_id":"` + uuid.NewString() + `","category":"Tumor_Detection","frame_index":0}`
	rec := postJSON(newMux(t, system), "/analyses", body)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRunCategoryCaseInsensitive(t *testing.T) {
	system := &stubSystem{
		run: func(ctx context.Context, cmd analyses.RunCommand) (analyses.Analysis, error) {
			if cmd.Category != inference.Segmentation {
				t.Errorf("expected canonical category, got %q", cmd.Category)
			}
			return analyses.Analysis{Category: cmd.Category}, nil
		},
	}

	body := `{"scan_id":"` + uuid.NewString() + `","category":"segmentation","frame_index":0}`
	rec := postJSON(newMux(t, system), "/analyses", body)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestRunScanNotFound(t *testing.T) {
	system := &stubSystem{
		run: func(ctx context.Context, cmd analyses.RunCommand) (analyses.Analysis, error) {
			return analyses.Analysis{}, scans.ErrNotFound
		},
	}

	body := `{"scan_id":"` + uuid.NewString() + `","category":"General_Description","frame_index":0}`
	rec := postJSON(newMux(t, system), "/analyses", body)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRunBatch(t *testing.T) {
	system := &stubSystem{
		runAll: func(ctx context.Context, cmd analyses.BatchCommand) ([]analyses.Analysis, error) {
			return []analyses.Analysis{
				{FrameIndex: 0, Status: analyses.StatusSuccess},
				{FrameIndex: 1, Status: analyses.StatusFailure},
			}, nil
		},
	}

	body := `{"scan_id":"` + uuid.NewString() + `","category":"General_Description"}`
	rec := postJSON(newMux(t, system), "/analyses/batch", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var results []analyses.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(results) != 2 || results[0].FrameIndex != 0 || results[1].FrameIndex != 1 {
		t.Errorf("expected results in frame order, got %+v", results)
	}
}

func TestListWithFilters(t *testing.T) {
	scanID := uuid.New()
	system := &stubSystem{
		list: func(ctx context.Context, req pagination.PageRequest, filters analyses.Filters) (pagination.PageResult[analyses.Analysis], error) {
			if filters.ScanID == nil || *filters.ScanID != scanID {
				t.Errorf("expected scan filter, got %v", filters.ScanID)
			}
			if filters.Status == nil || *filters.Status != "failure" {
				t.Errorf("expected status filter, got %v", filters.Status)
			}
			return pagination.NewPageResult([]analyses.Analysis{}, 0, req.Page, req.PageSize), nil
		},
	}

	rec := httptest.NewRecorder()
	path := "/analyses?scan_id=" + scanID.String() + "&status=failure"
	newMux(t, system).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRemove(t *testing.T) {
	system := &stubSystem{
		remove: func(ctx context.Context, id uuid.UUID) error { return analyses.ErrNotFound },
	}

	rec := httptest.NewRecorder()
	newMux(t, system).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/analyses/"+uuid.NewString(), nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
