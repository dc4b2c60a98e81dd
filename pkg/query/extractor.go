package query

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/tgmreplays/pkg/replay"
)

// ErrUnknownField is returned for fields a replay does not have.
var ErrUnknownField = errors.New("unknown field")

// Fields lists what ReplayFieldExtractor understands.
var Fields = []string{"level", "score", "seed", "bravo", "time", "steamid", "date", "rule", "mode", "modifier"}

// ReplayFieldExtractor reads fields straight off a decoded replay. Numeric
// fields come back as int64, the rest as lower-case strings. "modifier"
// yields every set modifier as []string.
type ReplayFieldExtractor struct{}

// Extract implements FieldExtractor
func (e *ReplayFieldExtractor) Extract(r *replay.Replay, field string) (interface{}, error) {
	if r == nil {
		return nil, errors.New("nil replay")
	}
	switch field {
	case "level":
		return int64(r.Level), nil
	case "score":
		return int64(r.Score), nil
	case "seed":
		return int64(r.Seed), nil
	case "bravo":
		return int64(r.Bravo), nil
	case "time":
		return r.Elapsed.Milliseconds(), nil
	case "steamid":
		// steam ids fit in int64 in practice; the top bit is never set
		return int64(r.SteamID), nil
	case "date":
		return r.PlayedAt.Unix(), nil
	case "rule":
		return strings.ToLower(r.Rule.String()), nil
	case "mode":
		if r.Mode == nil {
			return "", nil
		}
		return strings.ToLower(r.Mode.String()), nil
	case "modifier":
		mods := make([]string, 0, len(r.Modifiers))
		for _, m := range r.Modifiers {
			mods = append(mods, strings.ToLower(m.String()))
		}
		return mods, nil
	}
	return nil, errors.Wrapf(ErrUnknownField, "%q", field)
}
