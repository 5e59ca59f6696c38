package auth

import (
	"fmt"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/benmed00/prmeta/internal/config"
)

// AuthenticatorBuilder builds an Authenticator from configuration
type AuthenticatorBuilder struct {
	config *config.Config
}

// NewAuthenticatorBuilder creates a new authenticator builder
func NewAuthenticatorBuilder(cfg *config.Config) *AuthenticatorBuilder {
	return &AuthenticatorBuilder{config: cfg}
}

// BuildAuthenticator picks the authenticator for the configured auth mode.
// In auto mode a GitHub App is preferred and a token is the fallback.
func (b *AuthenticatorBuilder) BuildAuthenticator() (Authenticator, error) {
	if b.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if err := b.config.ValidateGitHubConfig(); err != nil {
		return nil, fmt.Errorf("invalid GitHub configuration: %w", err)
	}

	switch b.config.GitHub.AuthMode {
	case config.AuthModeToken:
		return b.buildPATAuthenticator()
	case config.AuthModeApp:
		return b.buildAppAuthenticator()
	}

	if b.config.IsGitHubAppConfigured() {
		appAuth, err := b.buildAppAuthenticator()
		if err == nil {
			return appAuth, nil
		}
		if !b.config.IsGitHubTokenConfigured() {
			return nil, err
		}
		log.Warnf("GitHub App configuration failed, falling back to token: %v", err)
	}
	return b.buildPATAuthenticator()
}

func (b *AuthenticatorBuilder) buildPATAuthenticator() (Authenticator, error) {
	if !b.config.IsGitHubTokenConfigured() {
		return nil, fmt.Errorf("GitHub token is not configured")
	}
	return NewPATAuthenticator(b.config.GitHub.Token), nil
}

func (b *AuthenticatorBuilder) buildAppAuthenticator() (Authenticator, error) {
	app := b.config.GitHub.App

	var (
		appAuth *GitHubAppAuthenticator
		err     error
	)
	switch {
	case app.PrivateKeyPath != "":
		appAuth, err = NewGitHubAppAuthenticatorFromFile(nil, app.AppID, app.InstallationID, app.PrivateKeyPath)
	case app.PrivateKey != "":
		appAuth, err = NewGitHubAppAuthenticator(nil, app.AppID, app.InstallationID, []byte(app.PrivateKey))
	default:
		return nil, fmt.Errorf("no private key source configured")
	}
	if err != nil {
		return nil, err
	}
	appAuth.SetBaseURL(strings.TrimSuffix(b.config.GitHub.BaseURL, "/"))
	return appAuth, nil
}
