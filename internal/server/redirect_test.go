package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/shellauth/internal/callback"
	"github.com/desertthunder/shellauth/internal/shared"
)

func TestRedirectHandler(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("republishes the query under the private scheme", func(t *testing.T) {
		bus := &callback.Bus{}
		var published []string
		bus.Subscribe(func(raw string) { published = append(published, raw) })

		handler := NewRedirectHandler("com.app://oauth_callback", bus, logger)

		req := httptest.NewRequest(http.MethodGet, "/oauth_callback?access_token=abc123&state=xyz", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
		if len(published) != 1 {
			t.Fatalf("expected one publication, got %d", len(published))
		}
		if published[0] != "com.app://oauth_callback?access_token=abc123&state=xyz" {
			t.Errorf("unexpected published URL: %s", published[0])
		}
		if !strings.Contains(w.Body.String(), "close this window") {
			t.Error("expected the close-window page in the response body")
		}
	})

	t.Run("completion page is styled with the shell palette", func(t *testing.T) {
		handler := NewRedirectHandler("com.app://oauth_callback", &callback.Bus{}, logger)

		req := httptest.NewRequest(http.MethodGet, "/oauth_callback", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if !strings.Contains(w.Body.String(), "#04B575") {
			t.Error("expected the page heading to use the palette's success color")
		}
	})

	t.Run("redirect without query publishes the bare scheme", func(t *testing.T) {
		bus := &callback.Bus{}
		var published []string
		bus.Subscribe(func(raw string) { published = append(published, raw) })

		handler := NewRedirectHandler("com.app://oauth_callback", bus, logger)

		req := httptest.NewRequest(http.MethodGet, "/oauth_callback", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if len(published) != 1 || published[0] != "com.app://oauth_callback" {
			t.Errorf("unexpected publications: %v", published)
		}
	})

	t.Run("routes serve the callback path", func(t *testing.T) {
		handler := NewRedirectHandler("com.app://oauth_callback", &callback.Bus{}, logger)
		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/oauth_callback" {
			t.Errorf("unexpected routes: %v", routes)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handle filters by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodPost, "/only-post", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/only-post", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", w.Code)
		}
	})

	t.Run("middleware wraps in reverse order", func(t *testing.T) {
		router := NewBasicRouter()
		var order []string

		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "outer")
				next.ServeHTTP(w, r)
			})
		})
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "inner")
				next.ServeHTTP(w, r)
			})
		})

		router.Handle(http.MethodGet, "/ordered", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		req := httptest.NewRequest(http.MethodGet, "/ordered", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		want := []string{"outer", "inner", "handler"}
		if len(order) != len(want) {
			t.Fatalf("expected %v, got %v", want, order)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, order)
			}
		}
	})
}
