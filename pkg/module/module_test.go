package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vantrel/medscan/pkg/module"
)

func echoPath() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	})
}

func TestModuleStripsPrefix(t *testing.T) {
	m := module.New("/api", echoPath())

	cases := []struct {
		name     string
		path     string
		expected string
	}{
		{"nested path", "/api/scans/abc", "/scans/abc"},
		{"bare prefix", "/api", "/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.Serve(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if body := rec.Body.String(); body != tc.expected {
				t.Errorf("expected inner path %q, got %q", tc.expected, body)
			}
		})
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	m := module.New("/api", echoPath())
	m.Use(tag("first"))
	m.Use(tag("second"))

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected middleware order %v", order)
	}
}

func TestInvalidPrefixPanics(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for prefix %q", prefix)
				}
			}()
			module.New(prefix, echoPath())
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", echoPath()))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	t.Run("module path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scans", nil))
		if rec.Body.String() != "/scans" {
			t.Errorf("expected module dispatch, got %q", rec.Body.String())
		}
	})

	t.Run("trailing slash normalized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scans/", nil))
		if rec.Body.String() != "/scans" {
			t.Errorf("expected normalized dispatch, got %q", rec.Body.String())
		}
	})

	t.Run("native fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Body.String() != "ok" {
			t.Errorf("expected native handler, got %q", rec.Body.String())
		}
	})

	t.Run("unmatched path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
