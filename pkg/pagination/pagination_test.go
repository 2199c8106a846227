package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/vantrel/medscan/pkg/pagination"
	"github.com/vantrel/medscan/pkg/query"
)

var testConfig = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name             string
		request          pagination.PageRequest
		expectedPage     int
		expectedPageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid values", pagination.PageRequest{Page: 3, PageSize: 50}, 3, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.request.Normalize(testConfig)
			if tc.request.Page != tc.expectedPage {
				t.Errorf("expected page %d, got %d", tc.expectedPage, tc.request.Page)
			}
			if tc.request.PageSize != tc.expectedPageSize {
				t.Errorf("expected page size %d, got %d", tc.expectedPageSize, tc.request.PageSize)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "30")
	values.Set("search", "brain")
	values.Set("sort", "-UploadedAt")

	req := pagination.PageRequestFromQuery(values, testConfig)

	if req.Page != 2 || req.PageSize != 30 {
		t.Errorf("unexpected paging %d/%d", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "brain" {
		t.Errorf("unexpected search %v", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "UploadedAt" || !req.Sort[0].Descending {
		t.Errorf("unexpected sort %v", req.Sort)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		var fields pagination.SortFields
		if err := json.Unmarshal([]byte(`"Filename,-UploadedAt"`), &fields); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(fields) != 2 || fields[1].Field != "UploadedAt" || !fields[1].Descending {
			t.Errorf("unexpected fields %v", fields)
		}
	})

	t.Run("array form", func(t *testing.T) {
		var fields pagination.SortFields
		if err := json.Unmarshal([]byte(`[{"Field":"Filename","Descending":true}]`), &fields); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(fields) != 1 || fields[0] != (query.SortField{Field: "Filename", Descending: true}) {
			t.Errorf("unexpected fields %v", fields)
		}
	})
}

func TestNewPageResult(t *testing.T) {
	cases := []struct {
		name          string
		total         int
		pageSize      int
		expectedPages int
	}{
		{"exact division", 40, 20, 2},
		{"with remainder", 41, 20, 3},
		{"empty result", 0, 20, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{}, tc.total, 1, tc.pageSize)
			if result.TotalPages != tc.expectedPages {
				t.Errorf("expected %d pages, got %d", tc.expectedPages, result.TotalPages)
			}
		})
	}

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		result := pagination.NewPageResult[string](nil, 0, 1, 20)
		if result.Data == nil {
			t.Error("expected non-nil data slice")
		}
	})
}
