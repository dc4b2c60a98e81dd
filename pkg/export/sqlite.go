package export

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/ssargent/tgmreplays/pkg/store"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS replays (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	bucket        TEXT    NOT NULL,
	steam_id      TEXT    NOT NULL,
	played_at     INTEGER NOT NULL,
	mode          TEXT    NOT NULL,
	rule          TEXT    NOT NULL,
	level         INTEGER NOT NULL,
	score         INTEGER NOT NULL,
	seed          INTEGER NOT NULL,
	time_ms       INTEGER NOT NULL,
	bravo         INTEGER NOT NULL,
	modifiers     TEXT    NOT NULL,
	opponent_seed INTEGER,
	opponent_rule TEXT
);
CREATE INDEX IF NOT EXISTS idx_replays_bucket ON replays(bucket);
CREATE INDEX IF NOT EXISTS idx_replays_steam_id ON replays(steam_id);
`

const insertReplay = `INSERT INTO replays
	(bucket, steam_id, played_at, mode, rule, level, score, seed, time_ms, bravo, modifiers, opponent_seed, opponent_rule)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// WriteSQLite replaces the replays table of the database at path with the
// contents of st. It returns the number of rows written.
func WriteSQLite(ctx context.Context, path string, st *store.Store) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, errors.Wrap(err, "open sqlite")
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return 0, errors.Wrap(err, "create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM replays`); err != nil {
		return 0, errors.Wrap(err, "clear replays")
	}

	stmt, err := tx.PrepareContext(ctx, insertReplay)
	if err != nil {
		return 0, errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	n := 0
	for _, b := range store.Buckets {
		for _, r := range st.Replays(b) {
			v := NewReplayView(r, nil)
			var oppSeed, oppRule any
			if v.Opponent != nil {
				oppSeed, oppRule = v.Opponent.Seed, v.Opponent.Rule
			}
			if _, err := stmt.ExecContext(ctx,
				b.String(), v.SteamID, r.PlayedAt.Unix(), v.Mode, v.Rule,
				v.Level, v.Score, v.Seed, v.TimeMS, v.Bravo,
				strings.Join(v.Modifiers, ","), oppSeed, oppRule,
			); err != nil {
				return n, errors.Wrapf(err, "insert replay %s", v.SteamID)
			}
			n++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit")
	}
	return n, nil
}
