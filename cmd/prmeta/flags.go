package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qiniu/x/log"
	"github.com/spf13/pflag"

	"github.com/benmed00/prmeta/internal/compat"
	"github.com/benmed00/prmeta/internal/config"
	"github.com/benmed00/prmeta/internal/describe"
	gh "github.com/benmed00/prmeta/internal/github"
	"github.com/benmed00/prmeta/internal/labels"
	"github.com/benmed00/prmeta/internal/updater"
	"github.com/benmed00/prmeta/pkg/models"
)

// ConfigFlags locate the configuration shared by every subcommand.
type ConfigFlags struct {
	Path     string
	LogLevel string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{Path: "prmeta.yaml"}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path, "config", f.Path, "configuration file; missing files fall back to the environment")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "log level (debug,info,warn,error), overrides the configuration")
}

// Load reads the configuration and applies its log level unless one was
// given on the command line.
func (f *ConfigFlags) Load(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, f.Path)
	if err != nil {
		return nil, err
	}
	if f.LogLevel == "" {
		if err := setLogLevel(cfg.Log.Level); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SelectionFlags choose which PRs a command looks at.
type SelectionFlags struct {
	Numbers          []int
	OnlyDependencies bool
	ExcludeActions   bool
}

func (f *SelectionFlags) BindFlags(fs *pflag.FlagSet) {
	fs.IntSliceVar(&f.Numbers, "pr", f.Numbers, "PR numbers to process (default all open PRs)")
	fs.BoolVar(&f.OnlyDependencies, "only-deps", f.OnlyDependencies, "only process dependency bump PRs")
	fs.BoolVar(&f.ExcludeActions, "exclude-actions", f.ExcludeActions, "skip GitHub Actions bumps")
}

func (f *SelectionFlags) Filter() updater.Filter {
	return updater.Filter{OnlyDependencies: f.OnlyDependencies, ExcludeActions: f.ExcludeActions}
}

// newSynthesizer builds the label engine and description synthesizer from
// the configured data files, or the built-in tables. milestone is the title
// named in generated descriptions.
func newSynthesizer(cfg *config.Config, milestone string) (*labels.Engine, *describe.Synthesizer, error) {
	kb := compat.Default()
	if path := cfg.Metadata.KnowledgeBase; path != "" {
		var err error
		if kb, err = compat.Load(path); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", updater.ErrConfigurationMissing, err)
		}
		log.Debugf("Loaded %d knowledge base entries from %s", kb.Len(), path)
	}

	overrides := describe.DefaultOverrides()
	if path := cfg.Metadata.Overrides; path != "" {
		var err error
		if overrides, err = describe.LoadOverrides(path); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", updater.ErrConfigurationMissing, err)
		}
		log.Debugf("Loaded overrides for PRs %v from %s", overrides.Numbers(), path)
	}

	rules := labels.DefaultRules()
	rules.LowPriorityPRs = cfg.Metadata.LowPriorityPRs

	synth := describe.New(kb, overrides, describe.WithMilestone(milestone))
	return labels.NewEngine(rules), synth, nil
}

// newClient validates the configuration and connects to the repository.
func newClient(ctx context.Context, cfg *config.Config) (*gh.Client, error) {
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingCredential) {
			return nil, fmt.Errorf("%w: %v", updater.ErrConfigurationMissing, err)
		}
		return nil, err
	}
	return gh.NewClientFromConfig(ctx, cfg)
}

func parseAxes(names []string) ([]models.Axis, error) {
	var axes []models.Axis
	for _, name := range names {
		found := false
		for _, a := range models.Axes {
			if strings.EqualFold(name, string(a)) {
				axes = append(axes, a)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown axis %q, want one of %v", name, models.Axes)
		}
	}
	return axes, nil
}

func formatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = "#" + strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
