package session

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/shellauth/internal/callback"
	"github.com/desertthunder/shellauth/internal/shared"
)

// Capability is the host shell's browser-session feature tier. It is resolved
// once at startup and constant for the process lifetime.
type Capability int

const (
	// CapabilityExternalBrowser means no in-app presentation mechanism exists.
	CapabilityExternalBrowser Capability = iota
	// CapabilityEmbeddedView means an in-app browser view is available.
	CapabilityEmbeddedView
	// CapabilityLegacyAuthSession means the older authentication-session API is available.
	CapabilityLegacyAuthSession
	// CapabilityWebAuthSession means the modern web-authentication-session API is available.
	CapabilityWebAuthSession
)

func (c Capability) String() string {
	switch c {
	case CapabilityWebAuthSession:
		return "web_auth_session"
	case CapabilityLegacyAuthSession:
		return "legacy_auth_session"
	case CapabilityEmbeddedView:
		return "embedded_view"
	default:
		return "external_browser"
	}
}

// ParseCapability parses a capability name as used in configuration files.
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "web_auth_session":
		return CapabilityWebAuthSession, nil
	case "legacy_auth_session":
		return CapabilityLegacyAuthSession, nil
	case "embedded_view":
		return CapabilityEmbeddedView, nil
	case "external_browser":
		return CapabilityExternalBrowser, nil
	default:
		return 0, fmt.Errorf("%w: unknown capability %q", shared.ErrInvalidConfig, s)
	}
}

// Variant identifies one of the four session provider strategies.
type Variant int

const (
	VariantExternalBrowser Variant = iota
	VariantEmbeddedView
	VariantLegacyAuthSession
	VariantWebAuthSession
)

func (v Variant) String() string {
	switch v {
	case VariantWebAuthSession:
		return "web_auth_session"
	case VariantLegacyAuthSession:
		return "legacy_auth_session"
	case VariantEmbeddedView:
		return "embedded_view"
	default:
		return "external_browser"
	}
}

// Choose maps a capability level to the most capable variant it supports.
//
// Pure and total: every level maps to exactly one variant, and
// [VariantExternalBrowser] is the universal fallback.
func Choose(c Capability) Variant {
	switch c {
	case CapabilityWebAuthSession:
		return VariantWebAuthSession
	case CapabilityLegacyAuthSession:
		return VariantLegacyAuthSession
	case CapabilityEmbeddedView:
		return VariantEmbeddedView
	default:
		return VariantExternalBrowser
	}
}

// Factory instantiates session providers for the shell's capability level.
//
// Mechanism bindings for levels the shell does not support may be left nil;
// a nil binding degrades to the external browser fallback.
type Factory struct {
	Capability Capability
	WebAuth    WebAuthenticator
	LegacyAuth WebAuthenticator
	Embedded   EmbeddedBrowser
	Bus        *callback.Bus
	Open       func(url string) error
	Logger     *log.Logger
}

// NewFactory creates a Factory, defaulting the browser opener to
// [shared.OpenBrowser] and the logger to a stderr logger.
func NewFactory(f Factory) *Factory {
	if f.Open == nil {
		f.Open = shared.OpenBrowser
	}
	if f.Logger == nil {
		f.Logger = shared.NewLogger(nil)
	}
	return &f
}

// New builds a provider for req. The selection is re-evaluated on every call;
// it is cheap and stateless. The dismissed hook is wired only for the embedded
// view variant, the sole mechanism that reports user dismissal without a
// redirect.
func (f *Factory) New(req Request, dismissed func()) (Provider, Variant) {
	variant := Choose(f.Capability)

	switch variant {
	case VariantWebAuthSession:
		if f.WebAuth != nil {
			return &authSession{req: req, mech: f.WebAuth, bus: f.Bus, logger: f.Logger}, variant
		}
	case VariantLegacyAuthSession:
		if f.LegacyAuth != nil {
			return &authSession{req: req, mech: f.LegacyAuth, bus: f.Bus, logger: f.Logger}, variant
		}
	case VariantEmbeddedView:
		if f.Embedded != nil {
			f.Embedded.SetDismissHandler(dismissed)
			return &embeddedView{req: req, browser: f.Embedded}, variant
		}
	}

	if variant != VariantExternalBrowser {
		f.Logger.Warnf("no binding for %s, falling back to external browser", variant)
	}

	return &externalBrowser{req: req, open: f.Open, logger: f.Logger}, VariantExternalBrowser
}
