package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseModifiers(t *testing.T) {
	testCases := []struct {
		name string
		in   byte
		want Modifiers
	}{
		{"all bits", 0b11111111, Modifiers{ModDaily, ModEasy, ModBig, ModMaxG}},
		{"high bit only", 0b10000000, Modifiers{}},
		{"daily", 0b01000000, Modifiers{ModDaily}},
		{"easy", 0b00110000, Modifiers{ModEasy}},
		{"easy needs both bits", 0b00010000, Modifiers{}},
		{"easy and big", 0b00110010, Modifiers{ModEasy, ModBig}},
		{"reserved pair", 0b00001100, Modifiers{}},
		{"big", 0b00000010, Modifiers{ModBig}},
		{"max gravity", 0b00000001, Modifiers{ModMaxG}},
		{"none", 0x00, Modifiers{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseModifiers(tc.in))
		})
	}
}

func TestParseModifiers_MembershipMatchesMasks(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		ms := ParseModifiers(b)

		assert.Equal(t, b&0b01000000 != 0, ms.Has(ModDaily), "byte %08b", b)
		assert.Equal(t, b&0b00110000 == 0b00110000, ms.Has(ModEasy), "byte %08b", b)
		assert.Equal(t, b&0b00000010 != 0, ms.Has(ModBig), "byte %08b", b)
		assert.Equal(t, b&0b00000001 != 0, ms.Has(ModMaxG), "byte %08b", b)
		assert.LessOrEqual(t, len(ms), 4)
	}
}

func TestHasReservedModifierBits(t *testing.T) {
	assert.True(t, HasReservedModifierBits(0b00001100))
	assert.True(t, HasReservedModifierBits(0b11111111))
	assert.False(t, HasReservedModifierBits(0b00000100))
	assert.False(t, HasReservedModifierBits(0b00001000))
}

func TestModifiers_ByteRoundTrip(t *testing.T) {
	ms := Modifiers{ModDaily, ModBig}
	assert.Equal(t, byte(0b01000010), ms.Byte())
	assert.Equal(t, ms, ParseModifiers(ms.Byte()))
	assert.Equal(t, "Daily, Big", ms.String())
}
