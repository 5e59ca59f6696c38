package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmed00/prmeta/internal/config"
)

func testPrivateKey(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func TestPATAuthenticator(t *testing.T) {
	auth := NewPATAuthenticator("ghp_test_token")

	t.Run("GetAuthInfo", func(t *testing.T) {
		assert.Equal(t, AuthTypePAT, auth.GetAuthInfo().Type)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := NewPATAuthenticator("").HTTPClient(context.Background())
		assert.Error(t, err)
	})

	t.Run("sends bearer token", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		testAuth := NewPATAuthenticator("ghp_test_token")
		testAuth.SetTransport(http.DefaultTransport)
		client, err := testAuth.HTTPClient(context.Background())
		require.NoError(t, err)

		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "Bearer ghp_test_token", got)
	})
}

func TestGitHubAppAuthenticator(t *testing.T) {
	key := testPrivateKey(t)

	t.Run("from key", func(t *testing.T) {
		auth, err := NewGitHubAppAuthenticator(nil, 12345, 678, key)
		require.NoError(t, err)
		assert.Equal(t, AuthInfo{Type: AuthTypeApp, AppID: 12345, InstallationID: 678}, auth.GetAuthInfo())

		client, err := auth.HTTPClient(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, client.Transport)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.pem")
		require.NoError(t, os.WriteFile(path, key, 0o600))
		auth, err := NewGitHubAppAuthenticatorFromFile(nil, 12345, 678, path)
		require.NoError(t, err)
		auth.SetBaseURL("https://ghe.example.com/api/v3")
		assert.Equal(t, "https://ghe.example.com/api/v3", auth.transport.BaseURL)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := NewGitHubAppAuthenticator(nil, 12345, 678, []byte("not a key"))
		assert.Error(t, err)
	})
}

func TestAuthenticatorBuilder(t *testing.T) {
	key := string(testPrivateKey(t))
	app := config.GitHubAppConfig{AppID: 1, InstallationID: 2, PrivateKey: key}

	tests := []struct {
		name      string
		github    config.GitHubConfig
		want      AuthType
		expectErr bool
	}{
		{name: "token", github: config.GitHubConfig{AuthMode: config.AuthModeToken, Token: "ghp"}, want: AuthTypePAT},
		{name: "app", github: config.GitHubConfig{AuthMode: config.AuthModeApp, App: app}, want: AuthTypeApp},
		{name: "auto prefers app", github: config.GitHubConfig{AuthMode: config.AuthModeAuto, Token: "ghp", App: app}, want: AuthTypeApp},
		{
			name: "auto falls back to token on bad key",
			github: config.GitHubConfig{
				AuthMode: config.AuthModeAuto,
				Token:    "ghp",
				App:      config.GitHubAppConfig{AppID: 1, InstallationID: 2, PrivateKey: "bad"},
			},
			want: AuthTypePAT,
		},
		{
			name:      "auto with bad key only",
			github:    config.GitHubConfig{AuthMode: config.AuthModeAuto, App: config.GitHubAppConfig{AppID: 1, InstallationID: 2, PrivateKey: "bad"}},
			expectErr: true,
		},
		{name: "nothing configured", github: config.GitHubConfig{}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := NewAuthenticatorBuilder(&config.Config{GitHub: tt.github}).BuildAuthenticator()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, auth.GetAuthInfo().Type)
		})
	}

	t.Run("missing credential is reported", func(t *testing.T) {
		_, err := NewAuthenticatorBuilder(&config.Config{}).BuildAuthenticator()
		assert.ErrorIs(t, err, config.ErrMissingCredential)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewAuthenticatorBuilder(nil).BuildAuthenticator()
		assert.Error(t, err)
	})
}
