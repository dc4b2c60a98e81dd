package export

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"github.com/ssargent/tgmreplays/pkg/store"
)

// Document is the JSON export of a whole store.
type Document struct {
	Counts  map[string]int          `json:"counts"`
	Buckets map[string][]ReplayView `json:"buckets"`
}

// NewDocument builds the JSON export of st.
func NewDocument(st *store.Store, names NameFunc) Document {
	counts := make(map[string]int, len(store.Buckets))
	for b, n := range st.Counts() {
		counts[b.String()] = n
	}
	return Document{Counts: counts, Buckets: NewBucketViews(st, names)}
}

// WriteJSON writes st as an indented JSON document.
func WriteJSON(w io.Writer, st *store.Store, names NameFunc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(st, names)); err != nil {
		return errors.Wrap(err, "encode json export")
	}
	return nil
}
