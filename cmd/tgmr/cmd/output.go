package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ssargent/tgmreplays/pkg/export"
	"github.com/ssargent/tgmreplays/pkg/replay"
	"github.com/ssargent/tgmreplays/pkg/scan"
)

const dateLayout = "2006-01-02 15:04:05"

var numbers = message.NewPrinter(language.English)

// replayOptions is the rule followed by any modifiers.
func replayOptions(r *replay.Replay) string {
	parts := []string{r.Rule.String()}
	for _, m := range r.Modifiers {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, ", ")
}

// outputReplaysTable displays the replays of one bucket in table format
func outputReplaysTable(out io.Writer, replays []*replay.Replay, names export.NameFunc, loc *time.Location) error {
	if len(replays) == 0 {
		fmt.Fprintln(out, "No replays found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tNAME\tLEVEL\tOPTIONS\tPLAYTIME\tSCORE\tSEED\tDATE")
	for i, r := range replays {
		name := fmt.Sprintf("%d", r.SteamID)
		if names != nil {
			name = names(r.SteamID)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%d\t%s\n",
			i+1,
			name,
			r.Level,
			replayOptions(r),
			export.FormatPlaytime(r.Elapsed),
			numbers.Sprintf("%d", r.Score),
			r.Seed,
			r.PlayedAt.In(loc).Format(dateLayout),
		)
	}
	return w.Flush()
}

// outputJSON writes v indented
func outputJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputScansTable lists saved scan summaries
func outputScansTable(out io.Writer, scans []scan.Summary, loc *time.Location) error {
	if len(scans) == 0 {
		fmt.Fprintln(out, "No scans recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tFILES\tREPLAYS\tFAILURES\tDURATION")
	for _, s := range scans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID,
			s.StartedAt.In(loc).Format(dateLayout),
			numbers.Sprintf("%d", s.Files),
			numbers.Sprintf("%d", s.Replays),
			len(s.Failures),
			(time.Duration(s.DurationMS) * time.Millisecond).String(),
		)
	}
	return w.Flush()
}
