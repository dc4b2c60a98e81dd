package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/tgmreplays/pkg/replay"
	"github.com/ssargent/tgmreplays/pkg/store"
)

var csvHeader = []string{
	"SteamID",
	"Date",
	"Mode",
	"Level",
	"Rule",
	"Time (seconds)",
	"Seed",
}

// WriteCSV writes one row per replay after the header row.
func WriteCSV(w io.Writer, replays []*replay.Replay) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, r := range replays {
		row := []string{
			strconv.FormatUint(r.SteamID, 10),
			r.PlayedAt.Format(time.RFC3339),
			ModeName(r.Mode),
			strconv.FormatUint(uint64(r.Level), 10),
			r.Rule.String(),
			strconv.FormatInt(int64(r.Elapsed/time.Second), 10),
			strconv.FormatUint(uint64(r.Seed), 10),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write csv row for %d", r.SteamID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// WriteStoreCSV writes every bucket of st, in bucket order.
func WriteStoreCSV(w io.Writer, st *store.Store) error {
	var all []*replay.Replay
	for _, b := range store.Buckets {
		all = append(all, st.Replays(b)...)
	}
	return WriteCSV(w, all)
}
