package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/benmed00/prmeta/pkg/models"
)

type RenderFlags struct {
	Title  string
	Body   string
	Labels bool
}

func NewRenderFlags() *RenderFlags {
	return &RenderFlags{}
}

func (f *RenderFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Title, "title", f.Title, "render offline for this title instead of fetching the PR")
	fs.StringVar(&f.Body, "body", f.Body, "current body used with --title")
	fs.BoolVar(&f.Labels, "labels", f.Labels, "print the derived labels before the description")
}

func NewRenderCommand() *cobra.Command {
	f := NewRenderFlags()

	cmd := &cobra.Command{
		Use:   "render <number>",
		Short: "Print the description prmeta would write for a PR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil || number <= 0 {
				return fmt.Errorf("invalid PR number %q", args[0])
			}

			ctx := cmd.Context()
			cfg, err := rootFlags.Load(ctx)
			if err != nil {
				return err
			}
			engine, synth, err := newSynthesizer(cfg, cfg.Metadata.Milestone)
			if err != nil {
				return err
			}

			pr := models.PullRequestRef{Number: number, Title: f.Title}
			if f.Body != "" {
				pr.Body = models.String(f.Body)
			}
			if f.Title == "" {
				client, err := newClient(ctx, cfg)
				if err != nil {
					return err
				}
				if pr, err = client.GetPullRequest(ctx, number); err != nil {
					return err
				}
			}

			set := engine.Labels(pr.Title, pr.Number)
			desc := synth.Render(pr, set)
			out := cmd.OutOrStdout()
			if f.Labels {
				fmt.Fprintf(out, "Labels: %v\nTemplate: %s\n\n", set.Names(), desc.Kind)
			}
			fmt.Fprint(out, desc.Markdown)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
