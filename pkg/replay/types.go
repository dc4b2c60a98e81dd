package replay

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Rule is the ruleset a player picked for a match.
type Rule uint8

const (
	RuleStandard Rule = iota
	RuleTGM
)

// RuleFromByte maps the raw rule byte. Any non-zero value is TGM.
func RuleFromByte(b byte) Rule {
	if b == 0x00 {
		return RuleStandard
	}
	return RuleTGM
}

func (r Rule) String() string {
	if r == RuleStandard {
		return "Standard"
	}
	return "TGM"
}

// KonohaDifficulty is carried by the alt tag of a Konoha record.
type KonohaDifficulty uint8

const (
	KonohaEasy KonohaDifficulty = iota
	KonohaHard
)

// KonohaDifficultyFromByte maps the raw alt tag. Any non-zero value is Hard.
func KonohaDifficultyFromByte(b byte) KonohaDifficulty {
	if b == 0x00 {
		return KonohaEasy
	}
	return KonohaHard
}

func (d KonohaDifficulty) String() string {
	if d == KonohaEasy {
		return "Easy"
	}
	return "Hard"
}

// Opponent is the second player of a versus match.
type Opponent struct {
	Seed uint32
	Rule Rule
}

// Replay is one decoded replay record.
type Replay struct {
	Mode      Mode
	Rule      Rule
	SteamID   uint64
	PlayedAt  time.Time
	Modifiers Modifiers
	Score     uint32
	Seed      uint32
	Elapsed   time.Duration
	Level     uint32
	Bravo     uint8
	Opponent  *Opponent // nil unless the versus flag was set
}

// IsVersus reports whether the record was written for a two-player match.
func (r *Replay) IsVersus() bool {
	return r.Opponent != nil
}

// Errors
var (
	ErrTruncatedBuffer  = errors.New("truncated buffer")
	ErrUnrecognizedMode = errors.New("unrecognized mode")
)
