/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// namesCmd represents the names command
var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Resolve the Steam names of every player in the replays",
	Long: `Look up every Steam id found in the replays and cache the names.

Needs a Steam Web API key in the config or STEAM_API_KEY for ids that are
not cached yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		res, err := a.scanReplays(cmd.Context())
		if err != nil {
			return err
		}
		ids := res.Store.SteamIDs()
		names, err := a.resolveNames(cmd.Context(), ids)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEAM ID\tNAME")
		for _, id := range ids {
			fmt.Fprintf(w, "%d\t%s\n", id, names(id))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(namesCmd)
}
