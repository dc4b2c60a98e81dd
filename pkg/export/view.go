// Package export renders classified replays as CSV, JSON or SQLite.
package export

import (
	"fmt"
	"time"

	"github.com/ssargent/tgmreplays/pkg/replay"
	"github.com/ssargent/tgmreplays/pkg/store"
)

// NameFunc maps a steam id to a display name.
type NameFunc func(steamID uint64) string

// ReplayView is the flattened form of a replay used by the JSON outputs.
type ReplayView struct {
	SteamID   string        `json:"steam_id"`
	Name      string        `json:"name,omitempty"`
	PlayedAt  time.Time     `json:"played_at"`
	Mode      string        `json:"mode"`
	Rule      string        `json:"rule"`
	Level     uint32        `json:"level"`
	Score     uint32        `json:"score"`
	Seed      uint32        `json:"seed"`
	TimeMS    int64         `json:"time_ms"`
	Playtime  string        `json:"playtime"`
	Bravo     uint8         `json:"bravo"`
	Modifiers []string      `json:"modifiers"`
	Opponent  *OpponentView `json:"opponent,omitempty"`
}

// OpponentView is the second player of a versus replay.
type OpponentView struct {
	Seed uint32 `json:"seed"`
	Rule string `json:"rule"`
}

// NewReplayView flattens r. names may be nil.
func NewReplayView(r *replay.Replay, names NameFunc) ReplayView {
	v := ReplayView{
		// steam ids overflow JavaScript numbers
		SteamID:   fmt.Sprintf("%d", r.SteamID),
		PlayedAt:  r.PlayedAt,
		Mode:      ModeName(r.Mode),
		Rule:      r.Rule.String(),
		Level:     r.Level,
		Score:     r.Score,
		Seed:      r.Seed,
		TimeMS:    r.Elapsed.Milliseconds(),
		Playtime:  FormatPlaytime(r.Elapsed),
		Bravo:     r.Bravo,
		Modifiers: make([]string, 0, len(r.Modifiers)),
	}
	if names != nil {
		v.Name = names(r.SteamID)
	}
	for _, m := range r.Modifiers {
		v.Modifiers = append(v.Modifiers, m.String())
	}
	if r.Opponent != nil {
		v.Opponent = &OpponentView{Seed: r.Opponent.Seed, Rule: r.Opponent.Rule.String()}
	}
	return v
}

// NewBucketViews flattens every bucket of st, keyed by bucket name.
func NewBucketViews(st *store.Store, names NameFunc) map[string][]ReplayView {
	out := make(map[string][]ReplayView, len(store.Buckets))
	for _, b := range store.Buckets {
		rs := st.Replays(b)
		views := make([]ReplayView, 0, len(rs))
		for _, r := range rs {
			views = append(views, NewReplayView(r, names))
		}
		out[b.String()] = views
	}
	return out
}

// ModeName is the display label of a mode, empty for nil.
func ModeName(m replay.Mode) string {
	switch v := m.(type) {
	case nil:
		return ""
	case replay.Marathon, replay.Master, replay.Normal, replay.Asuka, replay.Versus,
		replay.Konoha, replay.Shiranui:
		return v.String()
	default:
		return fmt.Sprintf("Unknown (%T)", m)
	}
}

// FormatPlaytime renders d as mm'ss"cc, the way the game shows times.
func FormatPlaytime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := d.Milliseconds() / 10
	mins := cs / 6000
	secs := (cs / 100) % 60
	return fmt.Sprintf("%02d'%02d\"%02d", mins, secs, cs%100)
}
