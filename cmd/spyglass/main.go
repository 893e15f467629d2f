package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/yeongki/spyglass/internal/env"
	"github.com/yeongki/spyglass/internal/logging"
	"github.com/yeongki/spyglass/pkg/spyglass"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs after flags are parsed.
type app struct {
	opts env.Options
	log  logr.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{opts: env.LoadOptions(), log: logr.Discard()}

	root := &cobra.Command{
		Use:           "spyglass",
		Short:         "Scoped timing instrumentation demo",
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			l, err := logging.NewZap(a.opts.Development)
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.ArtifactsDir, "artifacts-dir", a.opts.ArtifactsDir, "directory for the JSON report (env ARTIFACTS_DIR)")
	pf.StringVar(&a.opts.RunID, "run-id", a.opts.RunID, "run id written into the report (env CI_RUN_ID)")
	pf.BoolVar(&a.opts.Enabled, "report", a.opts.Enabled, "write the JSON report (env SPYGLASS_ENABLED)")
	pf.BoolVar(&a.opts.Development, "dev", a.opts.Development, "development logging (env SPYGLASS_DEV)")

	root.AddCommand(newDemoCmd(a), newServeCmd(a), newWhereCmd())
	return root
}

func newWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Print the call site captured by spyglass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := spyglass.Here()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", loc, loc.Label(""))
			return err
		},
	}
}
