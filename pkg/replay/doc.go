// Package replay decodes the fixed-layout replay files written by TGM4.
//
// Each replay file holds exactly one record. All integers are little-endian
// and every field lives at a fixed absolute offset:
//
//	0x0C  shiranui points    u8
//	0x10  steam id           u64
//	0x18  played at          i64 (unix seconds)
//	0x20  alt tag            u8   (0x03 marks a versus match)
//	0x24  mode tag           u8
//	0x28  player rule        u8
//	0x2C  opponent rule      u8
//	0x30  modifier bitmask   u8
//	0x34  seed               u32
//	0x38  frame count        u32  (60 frames per second)
//	0x3C  level              u32
//	0x40  score              u32
//	0x44  bravo count        u8
//	0x48  shiranui tier      u8
//	0x104 opponent seed      u32  (versus only)
//
// A single-player record therefore needs at least MinRecordSize bytes and a
// versus record needs MinVersusRecordSize bytes.
//
// # Modes
//
// The mode tag alone is not enough to tell every mode apart. Tag 0 is both
// Marathon and Normal and is split by the player's rule byte. Tag 4 is both
// Shiranui and a raw two-player match and is split by the alt tag. ResolveMode
// applies these rules in a fixed priority order and returns one of the Mode
// variants. The Versus variant is a rejection marker: a record that resolves
// to it decodes fine but must not be stored as a regular mode.
//
// # Usage
//
//	r, err := replay.Decode(buf)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(r.Mode, r.Rule, r.Score)
//
// # Errors
//
// Decode returns ErrTruncatedBuffer when a field lies past the end of the
// buffer and ErrUnrecognizedMode when the tag bytes match no mode. Both are
// wrapped with the offending field or bytes and can be tested with errors.Is.
// No checksum is validated and no field value is range-checked.
//
// # Thread Safety
//
// Decode is a pure function of its input. Codec values are safe for
// concurrent use and a decoded Replay is never mutated.
package replay
