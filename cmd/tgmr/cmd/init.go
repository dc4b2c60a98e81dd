/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/tgmreplays/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with the default settings for this platform.

Examples:
  tgmr init
  tgmr init --config ./tgmr.yaml --replay-dir /mnt/games/tgm4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(a.configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", a.configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(a.configPath, a.config.ReplayDir)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", a.configPath)
		cmd.Printf("Replay directory: %s\n", cfg.ReplayDir)
		cmd.Printf("State directory: %s\n", cfg.StateDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
