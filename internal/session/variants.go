package session

import (
	"github.com/charmbracelet/log"

	"github.com/desertthunder/shellauth/internal/callback"
)

// authSession backs variants A and B. Both mechanisms carry their own
// completion callback; the only difference is which native API is bound.
// The completion callback re-posts the redirect onto the generic callback
// bus so the coordinator sees the same exit path as every other variant.
type authSession struct {
	req    Request
	mech   WebAuthenticator
	bus    *callback.Bus
	logger *log.Logger
}

func (s *authSession) Start() {
	s.mech.Authenticate(s.req.Endpoint.String(), s.req.Scheme, func(redirect string, err error) {
		if err != nil {
			// Mechanism failures never reach the caller once a session has
			// started; the flow simply never terminates with a token.
			s.logger.Debug("auth session ended without redirect", "error", err)
			return
		}
		if redirect == "" {
			return
		}
		s.bus.Publish(redirect)
	})
}

func (s *authSession) Cancel() {
	s.mech.Dismiss()
}

// embeddedView backs variant C. The view has no redirect callback of its own;
// the host observes navigation and publishes on the bus. The dismiss handler
// lets the coordinator clear its active-provider state when the user closes
// the view without authorizing.
type embeddedView struct {
	req     Request
	browser EmbeddedBrowser
}

func (v *embeddedView) Start() {
	v.browser.Present(v.req.Endpoint.String())
}

func (v *embeddedView) Cancel() {
	v.browser.Dismiss()
}

// externalBrowser backs variant D: the endpoint opens in the system browser.
// The redirect arrives only if the OS re-activates the application via the
// callback scheme, which surfaces on the bus like any other observed URL.
type externalBrowser struct {
	req    Request
	open   func(url string) error
	logger *log.Logger
}

func (b *externalBrowser) Start() {
	if err := b.open(b.req.Endpoint.String()); err != nil {
		b.logger.Warnf("failed to open system browser %v", err)
	}
}

// Cancel is a no-op: an external browser application is outside the shell's
// control.
func (b *externalBrowser) Cancel() {}
