package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vantrel/medscan/pkg/routes"
)

func TestRegister(t *testing.T) {
	var hits []string
	record := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, name)
		}
	}

	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/scans",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: record("list")},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: record("find")},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/frames",
				Routes: []routes.Route{
					{Method: http.MethodGet, Pattern: "/{index}", Handler: record("frame")},
				},
			},
		},
	})

	requests := []struct {
		method   string
		path     string
		expected string
	}{
		{http.MethodGet, "/scans", "list"},
		{http.MethodGet, "/scans/abc", "find"},
		{http.MethodGet, "/scans/abc/frames/0", "frame"},
	}

	for _, req := range requests {
		t.Run(req.path, func(t *testing.T) {
			hits = nil
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(req.method, req.path, nil))

			if len(hits) != 1 || hits[0] != req.expected {
				t.Errorf("expected handler %q, got %v (status %d)", req.expected, hits, rec.Code)
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/scans", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}
