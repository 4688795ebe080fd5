// Package commands defines the tkp CLI.
//
// Commands
//
//   - register, login, logout, whoami   Account and session
//   - content list|show|complete        Browse and complete knowledge pills
//   - stress list|latest|record|mock    Stress history
//   - recommendations                   What to read next
//   - home                              Interactive home screen
//
// The root command loads the client config and builds the object graph
// before any subcommand runs; subcommands take view-models from it.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"techknowledgepills/pkg/client/config"
	"techknowledgepills/pkg/client/di"
	"techknowledgepills/pkg/client/session"
)

var (
	configPath string
	serverURL  string
	debug      bool

	app     *di.App
	cleanup func()
)

// Execute runs the CLI
func Execute() error {
	return execute(newRootCmd(os.Stdout))
}

// execute runs root and releases the object graph even when the command fails
func execute(root *cobra.Command) error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return root.Execute()
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "tkp",
		Short:        "TechKnowledgePills command line client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if debug {
				cfg.Debug = true
			}

			app, cleanup, err = di.InitializeApp(cfg)
			return err
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "client config file (TOML)")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (overrides config)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log HTTP traffic to stderr")

	root.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		contentCmd(),
		stressCmd(),
		recommendationsCmd(),
		homeCmd(),
	)
	return root
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, session.DefaultDirName, "config.toml")
}

// commandContext bounds a single CLI call
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 60*time.Second)
}

func requireLogin() error {
	if !app.Tokens.IsLoggedIn() {
		return fmt.Errorf("not logged in, run `tkp login` first")
	}
	return nil
}
