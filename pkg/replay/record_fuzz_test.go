//go:build fuzz
// +build fuzz

package replay

import (
	"testing"

	"github.com/cockroachdb/errors"
)

// FuzzDecode checks that arbitrary input either decodes or fails with one of
// the two decode errors, and never panics.
func FuzzDecode(f *testing.F) {
	codec := quietCodec()

	f.Add([]byte{})
	f.Add(buildRecord(rawRecord{mode: 0x01}, MinRecordSize))
	f.Add(buildRecord(rawRecord{alt: 0x03, mode: 0x04}, MinVersusRecordSize))
	f.Add(buildRecord(rawRecord{alt: 0x03, mode: 0x04}, MinRecordSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		r, err := codec.Decode(data)
		if err != nil {
			if r != nil {
				t.Fatalf("partial replay returned with error %v", err)
			}
			if !errors.Is(err, ErrTruncatedBuffer) && !errors.Is(err, ErrUnrecognizedMode) {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}

		versus := len(data) > 0x20 && data[0x20] == 0x03
		if versus != r.IsVersus() {
			t.Fatalf("versus flag %v but opponent %v", versus, r.Opponent)
		}
	})
}
