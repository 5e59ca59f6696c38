package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
)

// GitHubAppAuthenticator implements Authenticator with a GitHub App
// installation token. ghinstallation mints and refreshes the token.
type GitHubAppAuthenticator struct {
	transport      *ghinstallation.Transport
	appID          int64
	installationID int64
}

// NewGitHubAppAuthenticator creates an authenticator from a PEM private key.
func NewGitHubAppAuthenticator(base http.RoundTripper, appID, installationID int64, privateKey []byte) (*GitHubAppAuthenticator, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	tr, err := ghinstallation.New(base, appID, installationID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	return &GitHubAppAuthenticator{transport: tr, appID: appID, installationID: installationID}, nil
}

// NewGitHubAppAuthenticatorFromFile creates an authenticator from a PEM key file.
func NewGitHubAppAuthenticatorFromFile(base http.RoundTripper, appID, installationID int64, keyPath string) (*GitHubAppAuthenticator, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	tr, err := ghinstallation.NewKeyFromFile(base, appID, installationID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	return &GitHubAppAuthenticator{transport: tr, appID: appID, installationID: installationID}, nil
}

// SetBaseURL points token minting at a GitHub Enterprise API.
func (g *GitHubAppAuthenticator) SetBaseURL(baseURL string) {
	if baseURL != "" {
		g.transport.BaseURL = baseURL
	}
}

func (g *GitHubAppAuthenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	if g.transport == nil {
		return nil, fmt.Errorf("GitHub App transport is not configured")
	}
	return &http.Client{Transport: g.transport}, nil
}

func (g *GitHubAppAuthenticator) GetAuthInfo() AuthInfo {
	return AuthInfo{Type: AuthTypeApp, AppID: g.appID, InstallationID: g.installationID}
}

