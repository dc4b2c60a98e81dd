package store

import (
	"github.com/cockroachdb/errors"
	"github.com/ssargent/tgmreplays/pkg/replay"
)

// Store buckets decoded replays by mode. Each bucket keeps insertion order
// and the buckets are disjoint. A Store is filled once per batch; build a new
// one to refresh.
type Store struct {
	buckets [numBuckets][]*replay.Replay
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// BucketFor picks the bucket for r. Records carrying an opponent go to the
// pvp bucket unless they are Shiranui. A Versus record has no bucket and
// fails with ErrClassificationAnomaly.
func BucketFor(r *replay.Replay) (Bucket, error) {
	if r == nil {
		return 0, errors.New("nil replay")
	}
	if _, ok := r.Mode.(replay.Versus); ok {
		return 0, errors.Wrap(ErrClassificationAnomaly, "replay resolved to the versus marker")
	}
	if _, ok := r.Mode.(replay.Shiranui); r.Opponent != nil && !ok {
		return BucketPvp, nil
	}

	switch r.Mode.(type) {
	case replay.Marathon:
		return BucketMarathon, nil
	case replay.Master:
		return BucketMaster, nil
	case replay.Normal:
		return BucketNormal, nil
	case replay.Konoha:
		return BucketKonoha, nil
	case replay.Shiranui:
		return BucketShiranui, nil
	case replay.Asuka:
		return BucketAsuka, nil
	}
	return 0, errors.Newf("replay has unknown mode %T", r.Mode)
}

// Add appends r to its bucket and reports which one.
func (s *Store) Add(r *replay.Replay) (Bucket, error) {
	b, err := BucketFor(r)
	if err != nil {
		return 0, err
	}
	s.buckets[b] = append(s.buckets[b], r)
	return b, nil
}

// Replays returns the replays of bucket b in insertion order. The returned
// slice is a copy; the replays themselves must not be modified.
func (s *Store) Replays(b Bucket) []*replay.Replay {
	if b < 0 || int(b) >= numBuckets {
		return nil
	}
	out := make([]*replay.Replay, len(s.buckets[b]))
	copy(out, s.buckets[b])
	return out
}

// Len returns the number of replays across all buckets.
func (s *Store) Len() int {
	n := 0
	for _, rs := range s.buckets {
		n += len(rs)
	}
	return n
}

// Counts returns the size of every bucket.
func (s *Store) Counts() map[Bucket]int {
	counts := make(map[Bucket]int, numBuckets)
	for _, b := range Buckets {
		counts[b] = len(s.buckets[b])
	}
	return counts
}

// SteamIDs returns the distinct player ids in the store, in first-seen order
// walking the buckets in display order.
func (s *Store) SteamIDs() []uint64 {
	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, b := range Buckets {
		for _, r := range s.buckets[b] {
			if _, ok := seen[r.SteamID]; ok {
				continue
			}
			seen[r.SteamID] = struct{}{}
			ids = append(ids, r.SteamID)
		}
	}
	return ids
}

// Classify builds a store from decoded replays. Entries that cannot be
// bucketed are returned as failures and do not stop the batch.
func Classify(entries []Entry) (*Store, []Failure) {
	s := New()
	var failures []Failure
	for _, e := range entries {
		if _, err := s.Add(e.Replay); err != nil {
			failures = append(failures, Failure{Source: e.Source, Err: err})
		}
	}
	return s, failures
}
