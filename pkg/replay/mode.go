package replay

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Mode is the game mode of a replay. It is a closed set: the only
// implementations are the variant types below, so consumers switch on the
// concrete type.
type Mode interface {
	fmt.Stringer
	isMode()
}

type (
	Marathon struct{}
	Master   struct{}
	Normal   struct{}
	Konoha   struct{ Difficulty KonohaDifficulty }
	Shiranui struct{ Tier, Points uint8 }
	Asuka    struct{}
	// Versus marks a two-player record on the Shiranui tag. It is never a
	// valid terminal mode.
	Versus struct{}
)

func (Marathon) isMode() {}
func (Master) isMode()   {}
func (Normal) isMode()   {}
func (Konoha) isMode()   {}
func (Shiranui) isMode() {}
func (Asuka) isMode()    {}
func (Versus) isMode()   {}

func (Marathon) String() string { return "Marathon" }
func (Master) String() string   { return "Master" }
func (Normal) String() string   { return "Normal" }
func (Asuka) String() string    { return "Asuka" }
func (Versus) String() string   { return "Versus" }

func (k Konoha) String() string { return "Konoha " + k.Difficulty.String() }

func (s Shiranui) String() string {
	return fmt.Sprintf("Shiranui (Tier: %d, Points: %d)", s.Tier, s.Points)
}

// Raw mode tag values.
const (
	modeTagMarathonNormal byte = 0x00
	modeTagMaster         byte = 0x01
	modeTagKonoha         byte = 0x03
	modeTagShiranui       byte = 0x04
	modeTagAsuka          byte = 0x05

	altTagVersus byte = 0x03
)

// ResolveMode maps the tag bytes of a record to its Mode. Rules are tried in
// order and the first match wins:
//
//	mode 0, Standard rule  -> Marathon
//	mode 0, TGM rule       -> Normal
//	mode 1                 -> Master
//	mode 3                 -> Konoha(alt)
//	mode 4, alt 3          -> Versus
//	mode 4                 -> Shiranui(tier, points)
//	mode 5                 -> Asuka
//
// Anything else fails with ErrUnrecognizedMode.
func ResolveMode(alt, mode, shiranuiPoints, shiranuiTier byte, rule Rule) (Mode, error) {
	switch {
	case mode == modeTagMarathonNormal && rule == RuleStandard:
		return Marathon{}, nil
	case mode == modeTagMarathonNormal && rule == RuleTGM:
		return Normal{}, nil
	case mode == modeTagMaster:
		return Master{}, nil
	case mode == modeTagKonoha:
		return Konoha{Difficulty: KonohaDifficultyFromByte(alt)}, nil
	case mode == modeTagShiranui && alt == altTagVersus:
		return Versus{}, nil
	case mode == modeTagShiranui:
		return Shiranui{Tier: shiranuiTier, Points: shiranuiPoints}, nil
	case mode == modeTagAsuka:
		return Asuka{}, nil
	}
	return nil, errors.Wrapf(ErrUnrecognizedMode, "mode tag %#04x, alt tag %#04x, rule %s", mode, alt, rule)
}

// modeTags is the inverse of ResolveMode, used when encoding.
func modeTags(m Mode, rule Rule, versus bool) (alt, mode, points, tier byte, err error) {
	switch v := m.(type) {
	case Marathon:
		if rule != RuleStandard {
			return 0, 0, 0, 0, errors.Newf("marathon requires the %s rule", RuleStandard)
		}
		mode = modeTagMarathonNormal
	case Normal:
		if rule != RuleTGM {
			return 0, 0, 0, 0, errors.Newf("normal requires the %s rule", RuleTGM)
		}
		mode = modeTagMarathonNormal
	case Master:
		mode = modeTagMaster
	case Konoha:
		mode = modeTagKonoha
		if versus && v.Difficulty == KonohaEasy {
			return 0, 0, 0, 0, errors.New("easy konoha cannot carry the versus alt tag")
		}
		if v.Difficulty == KonohaHard {
			alt = 0x01
		}
	case Shiranui:
		if versus {
			return 0, 0, 0, 0, errors.New("shiranui cannot carry the versus alt tag")
		}
		mode, points, tier = modeTagShiranui, v.Points, v.Tier
	case Asuka:
		mode = modeTagAsuka
	case Versus:
		if !versus {
			return 0, 0, 0, 0, errors.New("versus requires an opponent")
		}
		mode, alt = modeTagShiranui, altTagVersus
	default:
		return 0, 0, 0, 0, errors.Newf("unknown mode %T", m)
	}
	if versus {
		alt = altTagVersus
	}
	return alt, mode, points, tier, nil
}
