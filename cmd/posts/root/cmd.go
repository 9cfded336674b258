// Package rootcmd wires the root cobra.Command for the posts CLI binary.
package rootcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	addcmd "github.com/go-ports/postboard/cmd/posts/add"
	clearcmd "github.com/go-ports/postboard/cmd/posts/clear"
	configcmd "github.com/go-ports/postboard/cmd/posts/config"
	deletecmd "github.com/go-ports/postboard/cmd/posts/delete"
	exportcmd "github.com/go-ports/postboard/cmd/posts/export"
	initcmd "github.com/go-ports/postboard/cmd/posts/init"
	listcmd "github.com/go-ports/postboard/cmd/posts/list"
	mcpcmd "github.com/go-ports/postboard/cmd/posts/mcp"
	setupcmd "github.com/go-ports/postboard/cmd/posts/setup"
	"github.com/go-ports/postboard/cmd/posts/shared"
	uninstallcmd "github.com/go-ports/postboard/cmd/posts/uninstall"
	versioncmd "github.com/go-ports/postboard/cmd/posts/version"
	viewcmd "github.com/go-ports/postboard/cmd/posts/view"
)

// New creates and returns the root cobra.Command for the posts CLI.
func New() *cobra.Command {
	return NewWithContext(&shared.Context{})
}

// NewWithContext builds the command tree around ctx. A Logger already set on
// ctx is used as is; otherwise a production logger is built before the
// selected command runs.
func NewWithContext(ctx *shared.Context) *cobra.Command {
	root := &cobra.Command{
		Use:           "posts",
		Short:         "Postboard: a local board of titled text posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if ctx.Logger != nil {
				return nil
			}
			logger, err := newLogger(ctx.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			ctx.Logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if ctx.Logger != nil {
				_ = ctx.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(
		&ctx.Home, "posts-home", "",
		"Override posts home directory (default: $POSTS_HOME env → persisted config → ~/.posts)",
	)
	pf.BoolVarP(&ctx.Verbose, "verbose", "v", false, "Enable debug logging on stderr")

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		addcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		viewcmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		clearcmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}

// newLogger builds the stderr JSON logger. Without verbose only warnings and
// errors are written so normal command output stays readable.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
