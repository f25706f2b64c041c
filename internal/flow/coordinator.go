// Package flow orchestrates browser-based authorization flows.
//
// The [Coordinator] ties together provider selection, the callback bus, and
// token delivery: a start request picks a session provider for the shell's
// capability level, the provider presents the identity provider's endpoint,
// and the flow terminates when a URL matching the private callback scheme
// surfaces on the bus or when the user dismisses the presented UI.
package flow

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/shellauth/internal/callback"
	"github.com/desertthunder/shellauth/internal/session"
	"github.com/desertthunder/shellauth/internal/shared"
	"github.com/desertthunder/shellauth/internal/webview"
)

// TokenParam is the redirect query parameter carrying the issued access token.
const TokenParam = "access_token"

// TokenPrefix prefixes the token in the message posted to the web content,
// yielding the literal payload "access_token:<token>".
const TokenPrefix = "access_token:"

// Flow outcomes recorded in the audit trail.
const (
	OutcomeTokenDelivered = "token_delivered"
	OutcomeNoToken        = "no_token"
	OutcomeDenied         = "denied"
	OutcomeDismissed      = "dismissed"
	OutcomeSuperseded     = "superseded"
)

// Recorder persists flow lifecycle records. Implementations never receive
// the token itself.
type Recorder interface {
	RecordStart(flowID, endpointHost, variant string) error
	RecordOutcome(flowID, outcome string) error
}

// Opts contains the collaborators a [Coordinator] is constructed with.
type Opts struct {
	// Scheme is the private callback scheme, fixed for the process lifetime.
	Scheme string
	// Bus is the process-wide channel of observed URLs.
	Bus *callback.Bus
	// Factory builds session providers for the shell's capability level.
	Factory *session.Factory
	// View receives the token payload for in-page script.
	View webview.Notifier
	// Recorder is the optional audit trail.
	Recorder Recorder
	Logger   *log.Logger
}

// Coordinator runs at most one authorization flow at a time.
//
// It moves between two states: idle (no active provider) and starting
// (provider presented, awaiting a matching callback or dismissal). There is
// no timeout; an abandoned flow stays in the starting state until a callback
// arrives or a new start supersedes it.
type Coordinator struct {
	scheme   string
	bus      *callback.Bus
	factory  *session.Factory
	view     webview.Notifier
	recorder Recorder
	logger   *log.Logger

	mu     sync.Mutex
	active session.Provider
	flowID string
}

// New creates a Coordinator and subscribes it to the callback bus. The
// subscription lasts for the process lifetime; construct exactly one
// Coordinator per process.
func New(opts Opts) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	c := &Coordinator{
		scheme:   opts.Scheme,
		bus:      opts.Bus,
		factory:  opts.Factory,
		view:     opts.View,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}

	c.bus.Subscribe(c.handleCallback)

	return c
}

// StartOAuth begins an authorization flow against the given endpoint.
//
// The returned error reports only argument problems: a missing or unparseable
// endpoint. Once a provider has started, all mechanism failures are swallowed
// and the result, if any, arrives asynchronously as a message to the web
// content. An already-active flow is canceled and replaced.
func (c *Coordinator) StartOAuth(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q", shared.ErrInvalidEndpoint, endpoint)
	}

	req := session.Request{Endpoint: u, Scheme: c.scheme}
	id := shared.GenerateID()

	c.mu.Lock()
	if c.active != nil {
		// Cancel-then-replace: the superseded provider's UI is torn down
		// before the new flow begins, so at most one provider is ever live.
		prev, prevID := c.active, c.flowID
		c.active, c.flowID = nil, ""
		c.mu.Unlock()

		c.logger.Info("superseding active authorization flow", "flow", prevID)
		prev.Cancel()
		c.record(prevID, OutcomeSuperseded)

		c.mu.Lock()
	}

	provider, variant := c.factory.New(req, func() { c.dismissed(id) })
	c.active = provider
	c.flowID = id
	c.mu.Unlock()

	c.logger.Info("starting authorization flow", "flow", id, "variant", variant.String(), "host", u.Host)
	if c.recorder != nil {
		if err := c.recorder.RecordStart(id, u.Host, variant.String()); err != nil {
			c.logger.Warnf("failed to record flow start %v", err)
		}
	}

	provider.Start()

	return nil
}

// Active reports whether an authorization flow is currently in flight.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// handleCallback receives every URL published on the bus and filters it down
// to the one terminating the active flow: there must be an active provider
// and the URL must begin with the private callback scheme. Everything else is
// ignored with no side effect.
func (c *Coordinator) handleCallback(raw string) {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return
	}
	if !strings.HasPrefix(raw, c.scheme) {
		c.mu.Unlock()
		return
	}
	provider, id := c.active, c.flowID
	c.active, c.flowID = nil, ""
	c.mu.Unlock()

	outcome := c.deliver(id, raw)

	provider.Cancel()
	c.record(id, outcome)
}

// deliver extracts the access token from the redirect and posts it to the web
// content. A redirect without a token ends the flow silently; an error
// parameter (e.g. the user denied consent) is logged and recorded but never
// surfaced to the caller.
func (c *Coordinator) deliver(id, raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		c.logger.Warnf("unparseable callback URL for flow %s %v", id, err)
		return OutcomeNoToken
	}

	q := u.Query()

	if denial := q.Get("error"); denial != "" {
		c.logger.Warn("authorization denied by identity provider", "flow", id, "error", denial)
		return OutcomeDenied
	}

	token := q.Get(TokenParam)
	if token == "" {
		c.logger.Info("callback carried no access token", "flow", id)
		return OutcomeNoToken
	}

	c.view.PostMessage(TokenPrefix + token)
	c.logger.Info("access token delivered to web content", "flow", id)

	return OutcomeTokenDelivered
}

// dismissed clears the active provider when the embedded view reports the
// user closed it without authorizing. Stale dismissals from superseded flows
// are ignored.
func (c *Coordinator) dismissed(id string) {
	c.mu.Lock()
	if c.flowID != id || c.active == nil {
		c.mu.Unlock()
		return
	}
	c.active, c.flowID = nil, ""
	c.mu.Unlock()

	c.logger.Info("authorization UI dismissed", "flow", id)
	c.record(id, OutcomeDismissed)
}

func (c *Coordinator) record(id, outcome string) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordOutcome(id, outcome); err != nil {
		c.logger.Warnf("failed to record flow outcome %v", err)
	}
}
