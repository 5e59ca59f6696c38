package github

import (
	"context"
	"fmt"

	"github.com/qiniu/x/log"

	"github.com/benmed00/prmeta/internal/config"
	"github.com/benmed00/prmeta/internal/github/auth"
)

// NewClientFromConfig authenticates with the configured method and returns
// a store for the configured repository.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	authenticator, err := auth.NewAuthenticatorBuilder(cfg).BuildAuthenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}
	httpClient, err := authenticator.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	info := authenticator.GetAuthInfo()
	if info.Type == auth.AuthTypeApp {
		log.Infof("Using GitHub App authentication: app=%d, installation=%d", info.AppID, info.InstallationID)
	} else {
		log.Infof("Using GitHub authentication: type=%s", info.Type)
	}

	return NewClient(httpClient, cfg.Owner(), cfg.Name(), cfg.GitHub.GraphQLURL,
		WithBaseURL(cfg.GitHub.BaseURL),
		WithRateLimitMonitor(NewRateLimitMonitor(cfg.GitHub.API)),
	)
}
