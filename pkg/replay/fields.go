package replay

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

const (
	// MinRecordSize covers every field up to and including the shiranui tier
	// at 0x48. The tier is read for every record, not only shiranui ones, so
	// a record ending right after the bravo count (0x45 bytes) is truncated.
	MinRecordSize = 0x49
	// MinVersusRecordSize additionally covers the opponent seed.
	MinVersusRecordSize = 0x108
)

// field is one fixed-offset slot of the record layout.
type field struct {
	name   string
	offset int
	width  int
}

func (f field) end() int { return f.offset + f.width }

var (
	fieldShiranuiPoints = field{"shiranui_points", 0x0C, 1}
	fieldSteamID        = field{"steam_id", 0x10, 8}
	fieldTimestamp      = field{"timestamp", 0x18, 8}
	fieldAltTag         = field{"alt_tag", 0x20, 1}
	fieldModeTag        = field{"mode_tag", 0x24, 1}
	fieldPlayerRule     = field{"player_rule", 0x28, 1}
	fieldOpponentRule   = field{"opponent_rule", 0x2C, 1}
	fieldModifiers      = field{"modifiers", 0x30, 1}
	fieldSeed           = field{"seed", 0x34, 4}
	fieldFrameCount     = field{"frame_count", 0x38, 4}
	fieldLevel          = field{"level", 0x3C, 4}
	fieldScore          = field{"score", 0x40, 4}
	fieldBravo          = field{"bravo", 0x44, 1}
	fieldShiranuiTier   = field{"shiranui_tier", 0x48, 1}
	fieldOpponentSeed   = field{"opponent_seed", 0x104, 4}
)

// fieldReader reads fixed-offset little-endian scalars. It is the only place
// that checks the buffer length.
type fieldReader struct {
	buf []byte
}

func (r fieldReader) slice(f field) ([]byte, error) {
	if len(r.buf) < f.end() {
		return nil, errors.Wrapf(ErrTruncatedBuffer,
			"field %s needs %#x bytes, have %#x", f.name, f.end(), len(r.buf))
	}
	return r.buf[f.offset:f.end()], nil
}

func (r fieldReader) u8(f field) (uint8, error) {
	b, err := r.slice(f)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r fieldReader) u32(f field) (uint32, error) {
	b, err := r.slice(f)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r fieldReader) u64(f field) (uint64, error) {
	b, err := r.slice(f)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
