// Package cli implements the grocer command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/config"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
)

const skipAppAnnotation = "grocer/skip-app"

// Options configure the root command. A preset App skips bootstrapping.
type Options struct {
	App     *App
	Version string
	Commit  string
}

type runtime struct {
	opts     Options
	app      *App
	owned    bool
	operator string
}

// NewRootCommand assembles every command group under one root.
func NewRootCommand(opts Options) *cobra.Command {
	root, _ := newRoot(opts)
	return root
}

func newRoot(opts Options) (*cobra.Command, *runtime) {
	rt := &runtime{opts: opts, app: opts.App}

	root := &cobra.Command{
		Use:           "grocer",
		Short:         "Grocery inventory management",
		Long:          "Track products, suppliers, stock movements, restock orders and low-stock alerts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipAppAnnotation] == "true" {
				return nil
			}
			return rt.ensureApp(cmd.Context(), cmd.OutOrStdout())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return rt.close()
		},
	}
	root.PersistentFlags().StringVar(&rt.operator, "operator", "", "name recorded as performed-by on stock movements")

	root.AddCommand(supplierCommands(rt)...)
	root.AddCommand(productCommands(rt)...)
	root.AddCommand(stockCommands(rt)...)
	root.AddCommand(alertCommands(rt)...)
	root.AddCommand(orderCommands(rt)...)
	root.AddCommand(reportCommands(rt)...)
	root.AddCommand(seedCommand(rt), versionCommand(rt))
	return root, rt
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, opts Options, args []string, stdout, stderr io.Writer) int {
	root, rt := newRoot(opts)
	defer func() { _ = rt.close() }()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		renderError(stderr, err)
		return exitCode(err)
	}
	return 0
}

func (rt *runtime) ensureApp(ctx context.Context, console io.Writer) error {
	if rt.app != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "grocer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	app, err := Bootstrap(ctx, cfg, logg, console, nil)
	if err != nil {
		return err
	}
	rt.app = app
	rt.owned = true
	return nil
}

func (rt *runtime) close() error {
	if !rt.owned || rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	rt.owned = false
	return err
}

// performer is the --operator flag, falling back to the configured operator.
func (rt *runtime) performer() string {
	if rt.operator != "" || rt.app.Config == nil {
		return rt.operator
	}
	return rt.app.Config.App.Operator
}

func versionCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the build version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			version := rt.opts.Version
			if version == "" {
				version = "dev"
			}
			if rt.opts.Commit != "" {
				version += " (" + rt.opts.Commit + ")"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "grocer %s\n", version)
		},
	}
}
