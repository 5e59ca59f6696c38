package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/benmed00/prmeta/internal/verify"
)

type VerifyFlags struct {
	Selection SelectionFlags
}

func NewVerifyFlags() *VerifyFlags {
	return &VerifyFlags{}
}

func (f *VerifyFlags) BindFlags(fs *pflag.FlagSet) {
	f.Selection.BindFlags(fs)
}

func NewVerifyCommand() *cobra.Command {
	f := NewVerifyFlags()

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report which open PRs are missing metadata",
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

			report, err := verify.Verify(ctx, client, verify.Options{
				Numbers:   f.Selection.Numbers,
				Filter:    f.Selection.Filter(),
				Milestone: cfg.Metadata.Milestone,
				Assignee:  cfg.Metadata.Assignee,
				ProjectID: cfg.Metadata.ProjectID,
			})
			client.Monitor().LogStatistics()
			if err != nil {
				return err
			}
			report.Write(cmd.OutOrStdout())
			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
