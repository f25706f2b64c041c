package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/shellauth/internal/callback"
	"github.com/desertthunder/shellauth/internal/shared"
)

// RedirectHandler is the host-side observer for redirects landing on the
// loopback listener. It rebuilds the private-scheme URL from the incoming
// query string and publishes it on the callback bus, where the coordinator
// picks it up like any other observed URL.
// Implements the [Handler] interface for registration with a [Router].
type RedirectHandler struct {
	scheme string
	bus    *callback.Bus
	logger *log.Logger
}

// NewRedirectHandler creates a redirect handler publishing onto bus with the
// given private callback scheme.
func NewRedirectHandler(scheme string, bus *callback.Bus, logger *log.Logger) *RedirectHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RedirectHandler{scheme: scheme, bus: bus, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *RedirectHandler) Routes() []string {
	return []string{"/" + shared.CallbackPath}
}

// ServeHTTP republishes the redirect onto the callback bus and serves a page
// telling the user to return to the application.
func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := h.scheme
	if r.URL.RawQuery != "" {
		raw += "?" + r.URL.RawQuery
	}

	h.logger.Info("redirect observed on loopback listener")
	h.bus.Publish(raw)

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Complete</title>
    <style>
        body { font-family: system-ui, sans-serif; display: grid; place-items: center;
               height: 100vh; margin: 0; background: #fafafa; }
        main { text-align: center; background: white; padding: 2.5rem 3rem;
               border: 1px solid #e2e2e2; border-radius: 6px; }
        h1 { color: #04B575; font-size: 1.4rem; margin: 0 0 0.75rem; }
        p { color: #626262; margin: 0; }
    </style>
</head>
<body>
    <main>
        <h1>✓ Authorization Complete</h1>
        <p>You can close this window and return to the application.</p>
    </main>
</body>
</html>
`)
}
