// Command prmeta fills in the metadata of a repository's open pull requests:
// descriptions, labels, milestone, assignee and project board.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var rootFlags = NewConfigFlags()

var rootCmd = &cobra.Command{
	Use:   "prmeta",
	Short: "Enrich pull request metadata",
	Long: `prmeta renders structured descriptions for dependency bumps and other PRs,
derives type, priority and module labels from their titles, and assigns the
milestone, assignee and project board of the current release.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setLogLevel(rootFlags.LogLevel)
	},
}

func main() {
	rootCmd.AddCommand(
		NewUpdateCommand(),
		NewRenderCommand(),
		NewVerifyCommand(),
	)
	rootFlags.BindFlags(rootCmd.PersistentFlags())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func setLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "":
		return nil
	case "debug":
		log.SetOutputLevel(log.Ldebug)
	case "info":
		log.SetOutputLevel(log.Linfo)
	case "warn", "warning":
		log.SetOutputLevel(log.Lwarn)
	case "error":
		log.SetOutputLevel(log.Lerror)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}
