/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/tgmreplays/pkg/export"
	"github.com/ssargent/tgmreplays/pkg/query"
	"github.com/ssargent/tgmreplays/pkg/replay"
	"github.com/ssargent/tgmreplays/pkg/store"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [bucket]",
	Short: "List the replays of one mode",
	Long: `List the replays of one bucket: normal, marathon, asuka, master, shiranui,
konoha or pvp (default master).

Examples:
  tgmr list
  tgmr list shiranui --names
  tgmr list pvp --format json
  tgmr list master --where "level>=999" --where rule=tgm --sort time`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		withNames, _ := cmd.Flags().GetBool("names")
		utc, _ := cmd.Flags().GetBool("utc")
		where, _ := cmd.Flags().GetStringArray("where")
		sortBy, _ := cmd.Flags().GetString("sort")

		if format != "table" && format != "json" {
			return errors.Newf("unknown format %q (use table or json)", format)
		}
		bucket, err := listBucket(args)
		if err != nil {
			return err
		}

		res, err := a.scanReplays(cmd.Context())
		if err != nil {
			return err
		}
		replays, err := selectReplays(res.Store.Replays(bucket), where, sortBy)
		if err != nil {
			return err
		}

		var names export.NameFunc
		if withNames {
			if names, err = a.resolveNames(cmd.Context(), res.Store.SteamIDs()); err != nil {
				return err
			}
		}

		if format == "json" {
			views := make([]export.ReplayView, 0, len(replays))
			for _, r := range replays {
				views = append(views, export.NewReplayView(r, names))
			}
			return outputJSON(cmd.OutOrStdout(), views)
		}

		loc := time.Local
		if utc {
			loc = time.UTC
		}
		return outputReplaysTable(cmd.OutOrStdout(), replays, names, loc)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("format", "f", "table", "Output format: table or json")
	listCmd.Flags().Bool("names", false, "Show Steam player names instead of ids")
	listCmd.Flags().Bool("utc", false, "Show dates in UTC instead of local time")
	listCmd.Flags().StringArray("where", nil, "Condition such as level>=500, rule=tgm or modifier=big (repeatable)")
	listCmd.Flags().String("sort", "", "Field to sort by, prefix with - for descending (e.g. -score)")
}

// listBucket picks the bucket named in args, master when there is none.
func listBucket(args []string) (store.Bucket, error) {
	if len(args) == 0 {
		return store.BucketMaster, nil
	}
	return store.ParseBucket(args[0])
}

// selectReplays applies the --where conditions and --sort order.
func selectReplays(replays []*replay.Replay, where []string, sortBy string) ([]*replay.Replay, error) {
	queries := make([]query.FieldQuery, 0, len(where))
	for _, w := range where {
		q, err := query.ParseFieldQuery(w)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}

	engine := query.NewEngine(nil)
	out, err := engine.Filter(replays, queries...)
	if err != nil {
		return nil, err
	}
	if err := engine.Sort(out, query.ParseSortOrder(sortBy)); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveNames looks ids up through the name cache and, with an API key,
// the Steam Web API. Lookup failures leave names unresolved.
func (a *app) resolveNames(ctx context.Context, ids []uint64) (export.NameFunc, error) {
	st, err := a.openState()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	resolver := container.GetResolverFactory()(a.steamConfig(), st)
	if err := resolver.Resolve(ctx, ids); err != nil {
		log.Printf("[steam] name lookup incomplete: %v", err)
	}
	return resolver.Name, nil
}
