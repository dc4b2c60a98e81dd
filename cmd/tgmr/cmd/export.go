/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/tgmreplays/pkg/export"
	"github.com/ssargent/tgmreplays/pkg/store"
)

var defaultExportPaths = map[string]string{
	"json":   "replays.json",
	"sqlite": "replays.db",
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every replay to CSV, JSON or SQLite",
	Long: `Export the replays of every bucket to a file. An existing file is overwritten.

Examples:
  tgmr export
  tgmr export --format json --output replays.json
  tgmr export --format sqlite --output replays.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		withNames, _ := cmd.Flags().GetBool("names")

		if output == "" {
			output = a.config.Output
			if def, ok := defaultExportPaths[format]; ok {
				output = def
			}
		}

		res, err := a.scanReplays(cmd.Context())
		if err != nil {
			return err
		}

		var names export.NameFunc
		if withNames {
			if names, err = a.resolveNames(cmd.Context(), res.Store.SteamIDs()); err != nil {
				return err
			}
		}

		cmd.Printf("Writing %d replays to %s (existing file will be overwritten)\n", res.Store.Len(), output)
		return writeExport(cmd.Context(), format, output, res.Store, names)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv, json or sqlite")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default replays.csv, replays.json or replays.db)")
	exportCmd.Flags().Bool("names", false, "Include Steam player names (json only)")
}

// writeExport writes st to path in the given format.
func writeExport(ctx context.Context, format, path string, st *store.Store, names export.NameFunc) error {
	switch format {
	case "csv", "json":
	case "sqlite":
		_, err := export.WriteSQLite(ctx, path, st)
		return err
	default:
		return errors.Newf("unknown format %q (use csv, json or sqlite)", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	if format == "csv" {
		err = export.WriteStoreCSV(f, st)
	} else {
		err = export.WriteJSON(f, st, names)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
