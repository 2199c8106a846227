package query_test

import (
	"reflect"
	"testing"

	"github.com/vantrel/medscan/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "scans", "s").
		Project("id", "ID").
		Project("filename", "Filename").
		Project("uploaded_at", "UploadedAt")
}

func TestParseSortFields(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "Filename", []query.SortField{{Field: "Filename"}}},
		{"single descending", "-UploadedAt", []query.SortField{{Field: "UploadedAt", Descending: true}}},
		{
			"mixed with spaces", "Filename, -UploadedAt",
			[]query.SortField{
				{Field: "Filename"},
				{Field: "UploadedAt", Descending: true},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := query.ParseSortFields(tc.input)
			if !reflect.DeepEqual(fields, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, fields)
			}
		})
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("ID", "abc")

	expected := "SELECT s.id, s.filename, s.uploaded_at FROM public.scans s WHERE s.id = $1"
	if sql != expected {
		t.Errorf("expected %q, got %q", expected, sql)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildPageWithConditions(t *testing.T) {
	search := "brain"
	kind := "dicom"

	builder := query.NewBuilder(testProjection(), query.SortField{Field: "UploadedAt", Descending: true}).
		WhereEquals("Filename", &kind).
		WhereContains("Filename", &search)

	sql, args := builder.BuildPage(2, 10)

	expected := "SELECT s.id, s.filename, s.uploaded_at FROM public.scans s" +
		" WHERE s.filename = $1 AND s.filename ILIKE $2" +
		" ORDER BY s.uploaded_at DESC LIMIT 10 OFFSET 10"
	if sql != expected {
		t.Errorf("expected %q, got %q", expected, sql)
	}

	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[1] != "%brain%" {
		t.Errorf("expected wrapped search pattern, got %v", args[1])
	}
}

func TestBuildCountIgnoresSort(t *testing.T) {
	builder := query.NewBuilder(testProjection(), query.SortField{Field: "UploadedAt", Descending: true})
	sql, args := builder.BuildCount()

	expected := "SELECT COUNT(*) FROM public.scans s"
	if sql != expected {
		t.Errorf("expected %q, got %q", expected, sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestWhereSearchMultipleFields(t *testing.T) {
	search := "mri"
	sql, args := query.NewBuilder(testProjection()).
		WhereSearch(&search, "Filename", "ID").
		BuildCount()

	expected := "SELECT COUNT(*) FROM public.scans s WHERE (s.filename ILIKE $1 OR s.id ILIKE $2)"
	if sql != expected {
		t.Errorf("expected %q, got %q", expected, sql)
	}
	if len(args) != 2 || args[0] != "%mri%" || args[1] != "%mri%" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestNilConditionsSkipped(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Filename", (*string)(nil)).
		WhereContains("Filename", nil).
		WhereSearch(nil, "Filename").
		BuildCount()

	expected := "SELECT COUNT(*) FROM public.scans s"
	if sql != expected {
		t.Errorf("expected conditions to be skipped, got %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestOrderByUnknownFieldsDropped(t *testing.T) {
	builder := func() *query.Builder {
		return query.NewBuilder(testProjection(), query.SortField{Field: "UploadedAt", Descending: true})
	}

	t.Run("unknown field falls back to default sort", func(t *testing.T) {
		sql, _ := builder().
			OrderByFields(query.ParseSortFields("bogus")).
			BuildPage(1, 10)

		expected := "SELECT s.id, s.filename, s.uploaded_at FROM public.scans s" +
			" ORDER BY s.uploaded_at DESC LIMIT 10 OFFSET 0"
		if sql != expected {
			t.Errorf("expected %q, got %q", expected, sql)
		}
	})

	t.Run("known fields survive beside unknown ones", func(t *testing.T) {
		sql, _ := builder().
			OrderByFields(query.ParseSortFields("bogus,Filename")).
			BuildPage(1, 10)

		expected := "SELECT s.id, s.filename, s.uploaded_at FROM public.scans s" +
			" ORDER BY s.filename ASC LIMIT 10 OFFSET 0"
		if sql != expected {
			t.Errorf("expected %q, got %q", expected, sql)
		}
	})

	t.Run("no sort at all omits the clause", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection()).
			OrderByFields(query.ParseSortFields("bogus")).
			BuildPage(1, 10)

		expected := "SELECT s.id, s.filename, s.uploaded_at FROM public.scans s LIMIT 10 OFFSET 0"
		if sql != expected {
			t.Errorf("expected %q, got %q", expected, sql)
		}
	})
}

func TestLookup(t *testing.T) {
	p := testProjection()

	if col, ok := p.Lookup("Filename"); !ok || col != "s.filename" {
		t.Errorf("expected mapped lookup, got %q %t", col, ok)
	}
	if _, ok := p.Lookup("bogus"); ok {
		t.Error("expected unmapped lookup to report false")
	}
}

func TestJoinedProjection(t *testing.T) {
	p := query.NewProjectionMap("public", "analyses", "a").
		Project("id", "ID").
		Join("public", "scans", "s", "INNER JOIN", "a.scan_id = s.id").
		Project("filename", "Filename")

	expectedFrom := "public.analyses a INNER JOIN public.scans s ON a.scan_id = s.id"
	if from := p.From(); from != expectedFrom {
		t.Errorf("expected %q, got %q", expectedFrom, from)
	}
	if col := p.Column("Filename"); col != "s.filename" {
		t.Errorf("expected joined column qualification, got %q", col)
	}
	if col := p.Column("ID"); col != "a.id" {
		t.Errorf("expected base column qualification, got %q", col)
	}
}

func TestColumnPanicsOnUnmapped(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unmapped field")
		}
	}()
	testProjection().Column("Nope")
}
