package auth

import (
	"context"
	"net/http"
)

// AuthType represents the type of authentication being used
type AuthType string

const (
	AuthTypePAT AuthType = "pat" // Personal Access Token
	AuthTypeApp AuthType = "app" // GitHub App installation
)

// AuthInfo describes the configured authentication.
type AuthInfo struct {
	Type           AuthType `json:"type"`
	AppID          int64    `json:"app_id,omitempty"`
	InstallationID int64    `json:"installation_id,omitempty"`
}

// Authenticator produces HTTP clients that authenticate against GitHub.
// The same client serves the REST and GraphQL APIs.
type Authenticator interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
	GetAuthInfo() AuthInfo
}
