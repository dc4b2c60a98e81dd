package store

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/tgmreplays/pkg/replay"
)

// Bucket names one of the seven per-mode sequences of a Store.
type Bucket int

const (
	BucketNormal Bucket = iota
	BucketMarathon
	BucketAsuka
	BucketMaster
	BucketShiranui
	BucketKonoha
	BucketPvp

	numBuckets = int(BucketPvp) + 1
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{
	BucketNormal,
	BucketMarathon,
	BucketAsuka,
	BucketMaster,
	BucketShiranui,
	BucketKonoha,
	BucketPvp,
}

var bucketNames = [numBuckets]string{
	BucketNormal:   "normal",
	BucketMarathon: "marathon",
	BucketAsuka:    "asuka",
	BucketMaster:   "master",
	BucketShiranui: "shiranui",
	BucketKonoha:   "konoha",
	BucketPvp:      "pvp",
}

func (b Bucket) String() string {
	if b < 0 || int(b) >= numBuckets {
		return fmt.Sprintf("bucket(%d)", int(b))
	}
	return bucketNames[b]
}

// ParseBucket accepts a bucket name case-insensitively. "versus" is an alias
// for the pvp bucket.
func ParseBucket(s string) (Bucket, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "versus" {
		return BucketPvp, nil
	}
	for i, n := range bucketNames {
		if n == name {
			return Bucket(i), nil
		}
	}
	return 0, errors.Newf("unknown bucket %q", s)
}

// Entry is a decoded replay paired with where it came from.
type Entry struct {
	Replay *replay.Replay
	Source string
}

// Failure is an input that did not make it into a Store.
type Failure struct {
	Source string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Errors
var (
	ErrClassificationAnomaly = errors.New("classification anomaly")
)
