// Package session defines the browser-session provider contract and the four
// interchangeable strategies that implement it.
//
// A [Provider] presents an authorization endpoint to the user through one of
// the host shell's browser mechanisms. All four variants converge on the same
// exit path: the redirect URL surfaces on the callback [callback.Bus], either
// re-posted by the mechanism's own completion callback (web/legacy auth
// sessions), published by the host observing navigation (embedded view), or
// published when the OS re-activates the application (external browser).
package session

import (
	"net/url"
)

// Request is an immutable authorization request bound to a single flow.
type Request struct {
	// Endpoint is the identity provider's authorization URL.
	Endpoint *url.URL
	// Scheme is the private callback scheme, e.g. "com.example.app://oauth_callback".
	// Mechanisms that register their own redirect listener use it; the others
	// ignore it and rely on the generic callback channel.
	Scheme string
}

// Provider is the uniform contract implemented by every browser-session
// strategy.
type Provider interface {
	// Start begins presenting the authorization endpoint. It returns
	// immediately; completion is signaled out of band, via the callback bus
	// or a dismissal hook, never through Start itself. Mechanism failures
	// after presentation are logged and swallowed.
	Start()

	// Cancel requests dismissal of any presented UI. Calling Cancel when
	// nothing is active is a no-op, never an error.
	Cancel()
}

// WebAuthenticator is a native authentication-session mechanism with its own
// completion callback, such as the modern and legacy web auth session APIs.
type WebAuthenticator interface {
	// Authenticate presents the endpoint and invokes done exactly once with
	// the redirect URL matching callbackScheme, or with an error.
	Authenticate(endpoint, callbackScheme string, done func(redirect string, err error))

	// Dismiss tears down the presented session UI if still active.
	Dismiss()
}

// EmbeddedBrowser is an in-app browser view. It has no native redirect
// callback; the host observes navigation and publishes matching URLs on the
// callback bus itself.
type EmbeddedBrowser interface {
	// Present shows the endpoint in the embedded view.
	Present(endpoint string)

	// Dismiss closes the embedded view if still presented.
	Dismiss()

	// SetDismissHandler registers fn to be called when the user closes the
	// view without completing authorization.
	SetDismissHandler(fn func())
}
