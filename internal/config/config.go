package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned by Validate when no GitHub credential is configured.
var ErrMissingCredential = errors.New("missing GitHub credential")

// Authentication modes
const (
	AuthModeAuto  = "auto"
	AuthModeToken = "token"
	AuthModeApp   = "app"
)

// Defaults of the metadata run.
const (
	DefaultMilestone          = "v1.3 - Quality & Polish"
	DefaultAssignee           = "benmed00"
	DefaultProjectID          = "PVT_kwHOAQ9qLM4BL0uO"
	DefaultRateLimitThreshold = 100
	DefaultLogLevel           = "info"
)

// DefaultLowPriorityPRs are PRs always labelled low priority.
var DefaultLowPriorityPRs = []int{85, 86}

type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Metadata MetadataConfig `yaml:"metadata"`
	Log      LogConfig      `yaml:"log"`
}

type GitHubConfig struct {
	Token      string `yaml:"token" env:"GITHUB_TOKEN, overwrite"`
	Repository string `yaml:"repository" env:"GITHUB_REPOSITORY, overwrite"`
	AuthMode   string `yaml:"auth_mode" env:"GITHUB_AUTH_MODE, overwrite"`
	// BaseURL points the REST client at a GitHub Enterprise API.
	BaseURL    string          `yaml:"base_url" env:"GITHUB_API_URL, overwrite"`
	GraphQLURL string          `yaml:"graphql_url" env:"GITHUB_GRAPHQL_URL, overwrite"`
	App        GitHubAppConfig `yaml:"app"`
	API        GitHubAPIConfig `yaml:"api"`
}

type GitHubAppConfig struct {
	AppID          int64  `yaml:"app_id" env:"GITHUB_APP_ID, overwrite"`
	InstallationID int64  `yaml:"installation_id" env:"GITHUB_APP_INSTALLATION_ID, overwrite"`
	PrivateKeyPath string `yaml:"private_key_path" env:"GITHUB_APP_PRIVATE_KEY_PATH, overwrite"`
	PrivateKey     string `yaml:"private_key" env:"GITHUB_APP_PRIVATE_KEY, overwrite"`
}

type GitHubAPIConfig struct {
	DisableRateMonitoring bool `yaml:"disable_rate_monitoring" env:"PRMETA_DISABLE_RATE_MONITORING, overwrite"`
	// Remaining calls below which a warning is logged.
	RateLimitThreshold int `yaml:"rate_limit_threshold" env:"PRMETA_RATE_LIMIT_THRESHOLD, overwrite"`
}

type MetadataConfig struct {
	Milestone      string `yaml:"milestone" env:"PRMETA_MILESTONE, overwrite"`
	Assignee       string `yaml:"assignee" env:"PRMETA_ASSIGNEE, overwrite"`
	ProjectID      string `yaml:"project_id" env:"PRMETA_PROJECT_ID, overwrite"`
	LowPriorityPRs []int  `yaml:"low_priority_prs" env:"PRMETA_LOW_PRIORITY_PRS, overwrite"`

	// Optional data files replacing the built-in tables.
	KnowledgeBase string `yaml:"knowledge_base" env:"PRMETA_KNOWLEDGE_BASE, overwrite"`
	Overrides     string `yaml:"overrides" env:"PRMETA_OVERRIDES, overwrite"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"PRMETA_LOG_LEVEL, overwrite"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills every unset field with its default.
func (c *Config) SetDefaults() {
	if c.GitHub.AuthMode == "" {
		c.GitHub.AuthMode = AuthModeAuto
	}
	if c.GitHub.API.RateLimitThreshold == 0 {
		c.GitHub.API.RateLimitThreshold = DefaultRateLimitThreshold
	}
	if c.Metadata.Milestone == "" {
		c.Metadata.Milestone = DefaultMilestone
	}
	if c.Metadata.Assignee == "" {
		c.Metadata.Assignee = DefaultAssignee
	}
	if c.Metadata.ProjectID == "" {
		c.Metadata.ProjectID = DefaultProjectID
	}
	if c.Metadata.LowPriorityPRs == nil {
		c.Metadata.LowPriorityPRs = append([]int(nil), DefaultLowPriorityPRs...)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Load reads the YAML file at configPath, when it exists, and overlays the
// environment. Relative data file paths are resolved against the file's
// directory.
func Load(ctx context.Context, configPath string) (*Config, error) {
	return load(ctx, configPath, envconfig.OsLookuper())
}

func load(ctx context.Context, configPath string, lookuper envconfig.Lookuper) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			config.resolvePaths(filepath.Dir(configPath))
		case errors.Is(err, os.ErrNotExist):
			// environment only
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   config,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	config.SetDefaults()
	return config, nil
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Metadata.KnowledgeBase, &c.Metadata.Overrides, &c.GitHub.App.PrivateKeyPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Owner and Name split GitHub.Repository ("owner/name").
func (c *Config) Owner() string {
	owner, _, _ := strings.Cut(c.GitHub.Repository, "/")
	return owner
}

func (c *Config) Name() string {
	_, name, _ := strings.Cut(c.GitHub.Repository, "/")
	return name
}

// IsGitHubTokenConfigured reports whether a personal access token is set.
func (c *Config) IsGitHubTokenConfigured() bool {
	return c.GitHub.Token != ""
}

// IsGitHubAppConfigured reports whether GitHub App credentials are complete.
func (c *Config) IsGitHubAppConfigured() bool {
	app := c.GitHub.App
	return app.AppID > 0 && app.InstallationID > 0 && (app.PrivateKeyPath != "" || app.PrivateKey != "")
}

// GetGitHubAuthMode returns the effective auth mode. In auto mode an App
// takes precedence over a token.
func (c *Config) GetGitHubAuthMode() string {
	if c.GitHub.AuthMode != "" && c.GitHub.AuthMode != AuthModeAuto {
		return c.GitHub.AuthMode
	}
	switch {
	case c.IsGitHubAppConfigured():
		return AuthModeApp
	case c.IsGitHubTokenConfigured():
		return AuthModeToken
	}
	return AuthModeAuto
}

// ValidateGitHubConfig checks that the selected auth mode has its credentials.
func (c *Config) ValidateGitHubConfig() error {
	switch c.GitHub.AuthMode {
	case "", AuthModeAuto:
		if !c.IsGitHubAppConfigured() && !c.IsGitHubTokenConfigured() {
			return fmt.Errorf("%w: GitHub authentication is required (GITHUB_TOKEN or GitHub App)", ErrMissingCredential)
		}
	case AuthModeToken:
		if !c.IsGitHubTokenConfigured() {
			return fmt.Errorf("%w: GitHub token is required", ErrMissingCredential)
		}
	case AuthModeApp:
		app := c.GitHub.App
		if app.AppID <= 0 {
			return fmt.Errorf("%w: GitHub App ID is required", ErrMissingCredential)
		}
		if app.InstallationID <= 0 {
			return fmt.Errorf("%w: GitHub App installation ID is required", ErrMissingCredential)
		}
		if app.PrivateKeyPath == "" && app.PrivateKey == "" {
			return fmt.Errorf("%w: GitHub App private key source is required", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("invalid GitHub auth_mode: %s", c.GitHub.AuthMode)
	}
	return nil
}

// Validate checks the whole configuration for an update or verify run.
func (c *Config) Validate() error {
	if err := c.ValidateGitHubConfig(); err != nil {
		return err
	}
	if owner, name, ok := strings.Cut(c.GitHub.Repository, "/"); !ok || owner == "" || name == "" {
		return fmt.Errorf("repository must be owner/name, got %q", c.GitHub.Repository)
	}
	if c.GitHub.API.RateLimitThreshold < 0 {
		return fmt.Errorf("invalid rate_limit_threshold: %d", c.GitHub.API.RateLimitThreshold)
	}
	return nil
}
