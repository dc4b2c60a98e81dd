/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/tgmreplays/pkg/scan"
	"github.com/ssargent/tgmreplays/pkg/store"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the replay directory and show counts per mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		noSave, _ := cmd.Flags().GetBool("no-save")

		res, err := a.scanReplays(cmd.Context())
		if err != nil {
			return err
		}
		writeScanReport(cmd.OutOrStdout(), res)

		if noSave {
			return nil
		}
		st, err := a.openState()
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveScan(res.Summary())
		if err != nil {
			return err
		}
		cmd.Printf("Saved scan %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("no-save", false, "Do not record the scan in the history")
}

// writeScanReport prints bucket counts followed by the rejected files.
func writeScanReport(out io.Writer, res *scan.Result) {
	fmt.Fprintf(out, "Scanned %d files in %s\n\n", res.Files, res.Root)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUCKET\tREPLAYS")
	counts := res.Store.Counts()
	for _, b := range store.Buckets {
		fmt.Fprintf(w, "%s\t%d\n", b, counts[b])
	}
	fmt.Fprintf(w, "total\t%d\n", res.Store.Len())
	w.Flush()

	if len(res.Failures) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%d files skipped:\n", len(res.Failures))
	for _, f := range res.Failures {
		fmt.Fprintf(out, "  %s: %v\n", f.Source, f.Err)
	}
}
