// Package storage keeps scan history and resolved player names in pebble.
package storage

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/goccy/go-json"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/tgmreplays/pkg/scan"
)

var (
	scanPrefix = []byte("scan/")
	namePrefix = []byte("name/")
)

// ErrNotFound is returned when a scan id has no stored summary.
var ErrNotFound = errors.New("not found")

type DefaultStorage struct {
	db *pebble.DB
}

func NewDefaultStorage(path string) (*DefaultStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open state db %s", path)
	}
	return &DefaultStorage{db: db}, nil
}

func scanKey(id ksuid.KSUID) []byte {
	return append(append([]byte{}, scanPrefix...), id.Bytes()...)
}

func nameKey(steamID uint64) []byte {
	key := append([]byte{}, namePrefix...)
	return binary.BigEndian.AppendUint64(key, steamID)
}

// SaveScan stores a scan summary under its id, or a new id when the summary
// has none.
func (s *DefaultStorage) SaveScan(sum scan.Summary) (ksuid.KSUID, error) {
	id := ksuid.New()
	if sum.ID != "" {
		parsed, err := ksuid.Parse(sum.ID)
		if err != nil {
			return ksuid.Nil, errors.Wrapf(err, "scan id %q", sum.ID)
		}
		id = parsed
	}
	sum.ID = id.String()

	data, err := json.Marshal(sum)
	if err != nil {
		return ksuid.Nil, errors.Wrap(err, "marshal scan summary")
	}
	if err := s.db.Set(scanKey(id), data, pebble.Sync); err != nil {
		return ksuid.Nil, errors.Wrap(err, "save scan summary")
	}
	return id, nil
}

func (s *DefaultStorage) ReadScan(id ksuid.KSUID) (*scan.Summary, error) {
	data, closer, err := s.db.Get(scanKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "scan %s", id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var sum scan.Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, errors.Wrapf(err, "decode scan %s", id)
	}
	return &sum, nil
}

// ListScans returns up to limit summaries, newest first. limit <= 0 means all.
func (s *DefaultStorage) ListScans(limit int) ([]scan.Summary, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: scanPrefix,
		UpperBound: prefixEnd(scanPrefix),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open scan iterator")
	}
	defer iter.Close()

	var out []scan.Summary
	// ksuids sort by creation time, so walking backwards yields newest first
	for iter.Last(); iter.Valid(); iter.Prev() {
		var sum scan.Summary
		if err := json.Unmarshal(iter.Value(), &sum); err != nil {
			return nil, errors.Wrapf(err, "decode scan at %x", iter.Key())
		}
		out = append(out, sum)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, iter.Error()
}

func (s *DefaultStorage) DeleteScan(id ksuid.KSUID) error {
	return s.db.Delete(scanKey(id), pebble.Sync)
}

// GetName implements steam.NameCache.
func (s *DefaultStorage) GetName(steamID uint64) (string, bool, error) {
	data, closer, err := s.db.Get(nameKey(steamID))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer closer.Close()
	return string(data), true, nil
}

// PutName implements steam.NameCache.
func (s *DefaultStorage) PutName(steamID uint64, name string) error {
	return s.db.Set(nameKey(steamID), []byte(name), pebble.NoSync)
}

func (s *DefaultStorage) Close() error {
	return s.db.Close()
}

func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
