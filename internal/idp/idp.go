// Package idp builds authorization endpoint URLs for the configured identity
// provider.
//
// The coordinator itself accepts any endpoint string; this package is the
// convenience layer the CLI uses to assemble an implicit-flow authorize URL
// from configuration.
package idp

import (
	"fmt"

	"golang.org/x/oauth2"

	"github.com/desertthunder/shellauth/internal/shared"
)

// Client assembles authorize URLs for one identity provider.
type Client struct {
	config *oauth2.Config
}

// NewClient creates a Client from identity provider settings. The redirect
// URI is the application's private callback scheme.
func NewClient(cfg shared.IDPConfig, callbackScheme string) (*Client, error) {
	if cfg.ClientID == "" || cfg.AuthURL == "" {
		return nil, fmt.Errorf("%w: idp client_id and auth_url must be set", shared.ErrInvalidConfig)
	}

	config := &oauth2.Config{
		ClientID:    cfg.ClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthURL},
		RedirectURL: callbackScheme,
		Scopes:      cfg.Scopes,
	}

	return &Client{config: config}, nil
}

// AuthorizeURL returns the implicit-flow authorization URL for the given
// state token. The token is returned to the application as a query parameter
// on the redirect, so response_type is "token".
func (c *Client) AuthorizeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "token"))
}
