package replay

import (
	"encoding/binary"
	"log"
	"math"
	"time"

	"github.com/cockroachdb/errors"
)

// frameMillis is the length of one frame at 60 frames per second.
const frameMillis = 100.0 / 6.0

// FrameDuration converts a frame count to wall-clock time, rounded to the
// nearest millisecond.
func FrameDuration(frames uint32) time.Duration {
	return time.Duration(math.Round(float64(frames)*frameMillis)) * time.Millisecond
}

// DurationFrames is the inverse of FrameDuration.
func DurationFrames(d time.Duration) uint32 {
	return uint32(math.Round(float64(d.Milliseconds()) / frameMillis))
}

// Codec decodes and encodes replay records.
type Codec struct {
	// Logf receives decode warnings. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// NewCodec creates a codec that logs through the standard logger.
func NewCodec() *Codec {
	return &Codec{Logf: log.Printf}
}

var defaultCodec = NewCodec()

// Decode decodes buf with the default codec.
func Decode(buf []byte) (*Replay, error) {
	return defaultCodec.Decode(buf)
}

// Decode turns one record buffer into a Replay. It returns the first error it
// hits and never a partially filled record.
func (c *Codec) Decode(buf []byte) (*Replay, error) {
	fr := fieldReader{buf: buf}

	steamID, err := fr.u64(fieldSteamID)
	if err != nil {
		return nil, err
	}
	ts, err := fr.u64(fieldTimestamp)
	if err != nil {
		return nil, err
	}
	alt, err := fr.u8(fieldAltTag)
	if err != nil {
		return nil, err
	}
	modeTag, err := fr.u8(fieldModeTag)
	if err != nil {
		return nil, err
	}
	tier, err := fr.u8(fieldShiranuiTier)
	if err != nil {
		return nil, err
	}
	points, err := fr.u8(fieldShiranuiPoints)
	if err != nil {
		return nil, err
	}
	ruleByte, err := fr.u8(fieldPlayerRule)
	if err != nil {
		return nil, err
	}
	rule := RuleFromByte(ruleByte)

	mode, err := ResolveMode(alt, modeTag, points, tier, rule)
	if err != nil {
		return nil, err
	}

	modByte, err := fr.u8(fieldModifiers)
	if err != nil {
		return nil, err
	}
	if HasReservedModifierBits(modByte) {
		c.logf("[decode] modifier byte %#010b sets reserved bits", modByte)
	}

	seed, err := fr.u32(fieldSeed)
	if err != nil {
		return nil, err
	}
	frames, err := fr.u32(fieldFrameCount)
	if err != nil {
		return nil, err
	}
	level, err := fr.u32(fieldLevel)
	if err != nil {
		return nil, err
	}
	score, err := fr.u32(fieldScore)
	if err != nil {
		return nil, err
	}
	bravo, err := fr.u8(fieldBravo)
	if err != nil {
		return nil, err
	}

	var opponent *Opponent
	if alt == altTagVersus {
		oppSeed, err := fr.u32(fieldOpponentSeed)
		if err != nil {
			return nil, err
		}
		oppRule, err := fr.u8(fieldOpponentRule)
		if err != nil {
			return nil, err
		}
		opponent = &Opponent{Seed: oppSeed, Rule: RuleFromByte(oppRule)}
	}

	return &Replay{
		Mode:      mode,
		Rule:      rule,
		SteamID:   steamID,
		PlayedAt:  time.Unix(int64(ts), 0).UTC(),
		Modifiers: ParseModifiers(modByte),
		Score:     score,
		Seed:      seed,
		Elapsed:   FrameDuration(frames),
		Level:     level,
		Bravo:     bravo,
		Opponent:  opponent,
	}, nil
}

// Encode writes r in the on-disk layout. Versus records get the long layout.
// Bytes outside the known fields are left zero.
func (c *Codec) Encode(r *Replay) ([]byte, error) {
	if r == nil || r.Mode == nil {
		return nil, errors.New("replay has no mode")
	}
	alt, modeTag, points, tier, err := modeTags(r.Mode, r.Rule, r.IsVersus())
	if err != nil {
		return nil, errors.Wrap(err, "encode mode")
	}

	size := MinRecordSize
	if r.IsVersus() {
		size = MinVersusRecordSize
	}
	buf := make([]byte, size)

	buf[fieldShiranuiPoints.offset] = points
	binary.LittleEndian.PutUint64(buf[fieldSteamID.offset:], r.SteamID)
	binary.LittleEndian.PutUint64(buf[fieldTimestamp.offset:], uint64(r.PlayedAt.Unix()))
	buf[fieldAltTag.offset] = alt
	buf[fieldModeTag.offset] = modeTag
	buf[fieldPlayerRule.offset] = byte(r.Rule)
	buf[fieldModifiers.offset] = r.Modifiers.Byte()
	binary.LittleEndian.PutUint32(buf[fieldSeed.offset:], r.Seed)
	binary.LittleEndian.PutUint32(buf[fieldFrameCount.offset:], DurationFrames(r.Elapsed))
	binary.LittleEndian.PutUint32(buf[fieldLevel.offset:], r.Level)
	binary.LittleEndian.PutUint32(buf[fieldScore.offset:], r.Score)
	buf[fieldBravo.offset] = r.Bravo
	buf[fieldShiranuiTier.offset] = tier
	if r.Opponent != nil {
		buf[fieldOpponentRule.offset] = byte(r.Opponent.Rule)
		binary.LittleEndian.PutUint32(buf[fieldOpponentSeed.offset:], r.Opponent.Seed)
	}
	return buf, nil
}

func (c *Codec) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}
