package main

import (
	"fmt"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/benmed00/prmeta/internal/config"
	"github.com/benmed00/prmeta/internal/updater"
)

type UpdateFlags struct {
	Selection        SelectionFlags
	DryRun           bool
	SkipUnrecognized bool
	Disable          []string
	Milestone        string
	Assignee         string
	ProjectID        string
}

func NewUpdateFlags() *UpdateFlags {
	return &UpdateFlags{}
}

func (f *UpdateFlags) BindFlags(fs *pflag.FlagSet) {
	f.Selection.BindFlags(fs)
	fs.BoolVar(&f.DryRun, "dry-run", f.DryRun, "compute every change without writing")
	fs.BoolVar(&f.SkipUnrecognized, "skip-unrecognized", f.SkipUnrecognized, "leave descriptions of PRs without a template untouched")
	fs.StringSliceVar(&f.Disable, "disable", f.Disable, "axes to skip (description,labels,milestone,assignee,project)")
	fs.StringVar(&f.Milestone, "milestone", f.Milestone, "milestone title, overrides the configuration")
	fs.StringVar(&f.Assignee, "assignee", f.Assignee, "assignee login, overrides the configuration")
	fs.StringVar(&f.ProjectID, "project", f.ProjectID, "project node id, overrides the configuration")
}

func NewUpdateCommand() *cobra.Command {
	f := NewUpdateFlags()

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Write descriptions, labels, milestone, assignee and project to open PRs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := rootFlags.Load(ctx)
			if err != nil {
				return err
			}
			client, err := newClient(ctx, cfg)
			if err != nil {
				return err
			}
			u, err := f.NewUpdater(cfg, client)
			if err != nil {
				return err
			}
			if len(f.Selection.Numbers) > 0 {
				log.Infof("Processing PRs %s in %s", formatNumbers(f.Selection.Numbers), client.Repository())
			} else {
				log.Infof("Processing open PRs in %s", client.Repository())
			}

			report, err := u.Run(ctx)
			client.Monitor().LogStatistics()
			if err != nil {
				return err
			}
			if n := report.Failures(); n > 0 {
				return fmt.Errorf("%d of %d PRs had failed updates", n, len(report.Results))
			}
			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}

// NewUpdater builds the orchestrator for store. Flag values take precedence
// over the configuration, and the milestone named in descriptions is the one
// that gets assigned.
func (f *UpdateFlags) NewUpdater(cfg *config.Config, store updater.Store) (*updater.Updater, error) {
	disabled, err := parseAxes(f.Disable)
	if err != nil {
		return nil, err
	}
	milestone := firstNonEmpty(f.Milestone, cfg.Metadata.Milestone)
	engine, synth, err := newSynthesizer(cfg, milestone)
	if err != nil {
		return nil, err
	}
	return updater.New(store, engine, synth, updater.Options{
		Numbers:          f.Selection.Numbers,
		Filter:           f.Selection.Filter(),
		Milestone:        milestone,
		Assignee:         firstNonEmpty(f.Assignee, cfg.Metadata.Assignee),
		ProjectID:        firstNonEmpty(f.ProjectID, cfg.Metadata.ProjectID),
		SkipUnrecognized: f.SkipUnrecognized,
		DryRun:           f.DryRun,
		Disabled:         disabled,
	}), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
