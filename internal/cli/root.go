// Package cli implements the routehub command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routehub-client/internal/config"
)

// Version is set at build time
var Version = "dev"

// state is shared by every command of one invocation
type state struct {
	configPath  string
	verbose     bool
	dumpMetrics bool
	metricsOut  io.Writer

	cfg *config.Config
	app *App
}

func (s *state) config() (*config.Config, error) {
	if s.cfg != nil {
		return s.cfg, nil
	}
	path := s.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	return cfg, nil
}

// appFor builds the application on first use
func (s *state) appFor(cmd *cobra.Command) (*App, error) {
	if s.app != nil {
		return s.app, nil
	}
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	app, err := NewApp(cmd.Context(), cfg, cmd.OutOrStdout(), s.verbose)
	if err != nil {
		return nil, err
	}
	s.app = app
	s.metricsOut = cmd.ErrOrStderr()
	return app, nil
}

func (s *state) close() {
	if s.app != nil {
		if s.dumpMetrics {
			if err := s.app.WriteMetrics(s.metricsOut); err != nil {
				s.app.Logger.Warn("Failed to write metrics", zap.Error(err))
			}
		}
		_ = s.app.Close()
		s.app = nil
	}
}

// NewRootCommand builds the command tree
func NewRootCommand() (*cobra.Command, func()) {
	st := &state{}

	rootCmd := &cobra.Command{
		Use:   "routehub",
		Short: "RouteHub - share and discuss travel routes",
		Long: `routehub is a command line client for the RouteHub API.

Browse public routes and their stops, read and write comment threads,
and manage your own routes.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (default: ~/.routehub/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&st.dumpMetrics, "metrics", false, "print client metrics to stderr on exit")

	rootCmd.AddCommand(newLoginCmd(st))
	rootCmd.AddCommand(newLogoutCmd(st))
	rootCmd.AddCommand(newRegisterCmd(st))
	rootCmd.AddCommand(newWhoamiCmd(st))
	rootCmd.AddCommand(newRoutesCmd(st))
	rootCmd.AddCommand(newCategoriesCmd(st))
	rootCmd.AddCommand(newStopsCmd(st))
	rootCmd.AddCommand(newCommentsCmd(st))
	rootCmd.AddCommand(newConfigCmd(st))

	return rootCmd, st.close
}

// Run executes the command line with the given arguments and streams
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd, cleanup := NewRootCommand()
	defer cleanup()

	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

// Main runs the command line against the process streams and returns the exit code
func Main(ctx context.Context) int {
	err := Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return 0
	}
	if !IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}
