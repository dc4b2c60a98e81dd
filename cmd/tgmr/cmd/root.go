/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/tgmreplays/pkg/config"
	"github.com/ssargent/tgmreplays/pkg/di"
	"github.com/ssargent/tgmreplays/pkg/scan"
	"github.com/ssargent/tgmreplays/pkg/steam"
	"github.com/ssargent/tgmreplays/pkg/storage"
)

// container holds the injected dependencies
var container *di.Container

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

type appKey struct{}

// app is the per-invocation state shared by the subcommands.
type app struct {
	config     *config.Config
	configPath string
	logCloser  io.Closer
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tgmr",
	Short: "tgmr - TGM4 replay manager",
	Long: `tgmr reads the replay files Tetris The Grand Master 4 keeps in its save
directory, sorts them by game mode and lets you list, export and serve them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if replayDir, _ := cmd.Flags().GetString("replay-dir"); replayDir != "" {
			cfg.ReplayDir = replayDir
		}
		if stateDir, _ := cmd.Flags().GetString("state-dir"); stateDir != "" {
			cfg.StateDir = stateDir
		}

		closer, err := config.SetupLogging(cfg.Logging)
		if err != nil {
			return err
		}
		config.Debugf("[tgmr] config %s, replays in %s", configPath, cfg.ReplayDir)

		// Store in command context
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{
			config:     cfg,
			configPath: configPath,
			logCloser:  closer,
		}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if a, ok := cmd.Context().Value(appKey{}).(*app); ok && a.logCloser != nil {
			return a.logCloser.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default is the user config dir)")
	rootCmd.PersistentFlags().String("replay-dir", "", "TGM4 save directory to read replays from")
	rootCmd.PersistentFlags().String("state-dir", "", "Directory for scan history and cached names")
}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	return a, nil
}

// scanReplays scans the configured replay directory.
func (a *app) scanReplays(ctx context.Context) (*scan.Result, error) {
	scanner := container.GetScannerFactory()(a.config.Workers)
	return scanner.ScanDir(ctx, a.config.ReplayDir, a.config.Pattern)
}

// openState opens the state store below the state directory.
func (a *app) openState() (*storage.DefaultStorage, error) {
	if err := os.MkdirAll(a.config.StateDir, 0750); err != nil {
		return nil, errors.Wrap(err, "failed to create state dir")
	}
	return container.GetStorageFactory()(filepath.Join(a.config.StateDir, "state"))
}

func (a *app) steamConfig() steam.Config {
	return steam.Config{
		APIKey:    a.config.Steam.APIKey,
		BaseURL:   a.config.Steam.BaseURL,
		BatchSize: a.config.Steam.BatchSize,
		Timeout:   a.config.Steam.Timeout,
	}
}
