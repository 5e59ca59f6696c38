package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// PATAuthenticator implements Authenticator using a Personal Access Token
type PATAuthenticator struct {
	token string
	base  http.RoundTripper
}

// NewPATAuthenticator creates a new PAT authenticator
func NewPATAuthenticator(token string) *PATAuthenticator {
	return &PATAuthenticator{token: token}
}

// HTTPClient returns a client sending the token as a bearer credential.
func (p *PATAuthenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	if p.token == "" {
		return nil, fmt.Errorf("GitHub token is not configured")
	}
	if p.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: p.base})
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: p.token})
	return oauth2.NewClient(ctx, ts), nil
}

func (p *PATAuthenticator) GetAuthInfo() AuthInfo {
	return AuthInfo{Type: AuthTypePAT}
}

// SetTransport sets the underlying transport (useful for testing)
func (p *PATAuthenticator) SetTransport(rt http.RoundTripper) {
	p.base = rt
}
