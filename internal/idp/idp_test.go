package idp

import (
	"errors"
	"net/url"
	"testing"

	"github.com/desertthunder/shellauth/internal/shared"
)

func TestNewClient(t *testing.T) {
	tc := []struct {
		name    string
		cfg     shared.IDPConfig
		wantErr bool
	}{
		{
			name: "complete config",
			cfg:  shared.IDPConfig{ClientID: "client-1", AuthURL: "https://idp.example/authorize"},
		},
		{
			name:    "missing client id",
			cfg:     shared.IDPConfig{AuthURL: "https://idp.example/authorize"},
			wantErr: true,
		},
		{
			name:    "missing auth url",
			cfg:     shared.IDPConfig{ClientID: "client-1"},
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg, "com.app://oauth_callback")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, shared.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuthorizeURL(t *testing.T) {
	client, err := NewClient(shared.IDPConfig{
		ClientID: "client-1",
		AuthURL:  "https://idp.example/authorize",
		Scopes:   []string{"profile", "email"},
	}, "com.app://oauth_callback")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw := client.AuthorizeURL("state-xyz")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("authorize URL does not parse: %v", err)
	}

	if u.Host != "idp.example" || u.Path != "/authorize" {
		t.Errorf("unexpected endpoint: %s", raw)
	}

	q := u.Query()
	if q.Get("response_type") != "token" {
		t.Errorf("expected implicit flow response_type=token, got %q", q.Get("response_type"))
	}
	if q.Get("client_id") != "client-1" {
		t.Errorf("unexpected client_id: %q", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "com.app://oauth_callback" {
		t.Errorf("unexpected redirect_uri: %q", q.Get("redirect_uri"))
	}
	if q.Get("state") != "state-xyz" {
		t.Errorf("unexpected state: %q", q.Get("state"))
	}
	if q.Get("scope") != "profile email" {
		t.Errorf("unexpected scope: %q", q.Get("scope"))
	}
}
