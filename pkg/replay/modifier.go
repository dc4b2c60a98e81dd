package replay

import "strings"

// Modifier is an optional gameplay flag attached to a match.
type Modifier uint8

const (
	ModDaily Modifier = iota
	ModEasy
	ModBig
	ModMaxG
)

func (m Modifier) String() string {
	switch m {
	case ModDaily:
		return "Daily"
	case ModEasy:
		return "Easy"
	case ModBig:
		return "Big"
	case ModMaxG:
		return "MaxG"
	default:
		return "Unknown"
	}
}

// Bit masks of the modifier byte. Easy and the reserved pair are two-bit
// masks and only match when both bits are set.
const (
	maskDaily    byte = 0b01000000
	maskEasy     byte = 0b00110000
	maskReserved byte = 0b00001100
	maskBig      byte = 0b00000010
	maskMaxG     byte = 0b00000001
)

// Modifiers is the set of modifiers on one replay, in mask order.
type Modifiers []Modifier

// Has reports whether m is in the set.
func (ms Modifiers) Has(m Modifier) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}

func (ms Modifiers) String() string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

// Byte packs the set back into a modifier byte.
func (ms Modifiers) Byte() byte {
	var b byte
	for _, m := range ms {
		switch m {
		case ModDaily:
			b |= maskDaily
		case ModEasy:
			b |= maskEasy
		case ModBig:
			b |= maskBig
		case ModMaxG:
			b |= maskMaxG
		}
	}
	return b
}

// ParseModifiers decodes a modifier byte. Every mask is tested on its own,
// so any combination of tags may come back. The reserved bits never produce
// a tag; see HasReservedModifierBits.
func ParseModifiers(b byte) Modifiers {
	ms := make(Modifiers, 0, 4)
	if b&maskDaily == maskDaily {
		ms = append(ms, ModDaily)
	}
	if b&maskEasy == maskEasy {
		ms = append(ms, ModEasy)
	}
	if b&maskBig == maskBig {
		ms = append(ms, ModBig)
	}
	if b&maskMaxG == maskMaxG {
		ms = append(ms, ModMaxG)
	}
	return ms
}

// HasReservedModifierBits reports whether b sets the unused 0b00001100 pair.
func HasReservedModifierBits(b byte) bool {
	return b&maskReserved == maskReserved
}
