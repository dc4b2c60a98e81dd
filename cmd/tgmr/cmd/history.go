/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [scan-id]",
	Short: "Show saved scans",
	Long: `List the scans saved by 'tgmr scan', newest first, or show one of them.

Examples:
  tgmr history --limit 5
  tgmr history 2mJ8pW6vE1cOQn1Fa1tGqYx2u9A --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")

		st, err := a.openState()
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return errors.Wrapf(err, "scan id %q", args[0])
			}
			sum, err := st.ReadScan(id)
			if err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), sum)
		}

		scans, err := st.ListScans(limit)
		if err != nil {
			return err
		}
		if format == "json" {
			return outputJSON(cmd.OutOrStdout(), scans)
		}
		return outputScansTable(cmd.OutOrStdout(), scans, time.Local)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of scans to show (0 for all)")
	historyCmd.Flags().StringP("format", "f", "table", "Output format: table or json")
}
