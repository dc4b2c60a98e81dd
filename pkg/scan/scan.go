// Package scan finds replay files on disk, decodes them and classifies the
// results into a store.
package scan

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/tgmreplays/pkg/replay"
	"github.com/ssargent/tgmreplays/pkg/store"
)

// DefaultPattern matches the replay files below a TGM4 save directory.
const DefaultPattern = "**/replay_data/**/*.bin"

// Result is the outcome of one scan.
type Result struct {
	ID        ksuid.KSUID
	Root      string
	StartedAt time.Time
	Duration  time.Duration
	Files     int
	Store     *store.Store
	Failures  []store.Failure
}

// Scanner decodes replay files with bounded parallelism.
type Scanner struct {
	Workers int           // 0 means GOMAXPROCS
	Codec   *replay.Codec // nil means replay.NewCodec()
	Logf    func(format string, args ...any)
}

// NewScanner creates a scanner with the given worker count.
func NewScanner(workers int) *Scanner {
	return &Scanner{Workers: workers, Codec: replay.NewCodec(), Logf: log.Printf}
}

// Discover lists the files in fsys matching pattern, sorted.
func Discover(fsys fs.FS, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Newf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "glob %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// ScanDir scans the replay files below root.
func (s *Scanner) ScanDir(ctx context.Context, root, pattern string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "replay directory")
	}
	if !info.IsDir() {
		return nil, errors.Newf("replay directory %s is not a directory", root)
	}
	return s.scan(ctx, os.DirFS(root), root, pattern, func(p string) string {
		return filepath.Join(root, filepath.FromSlash(p))
	})
}

// ScanFS scans the replay files of fsys. Sources are reported as fsys paths.
func (s *Scanner) ScanFS(ctx context.Context, fsys fs.FS, pattern string) (*Result, error) {
	return s.scan(ctx, fsys, ".", pattern, path.Clean)
}

type outcome struct {
	replay *replay.Replay
	err    error
}

func (s *Scanner) scan(ctx context.Context, fsys fs.FS, root, pattern string, source func(string) string) (*Result, error) {
	started := time.Now()
	res := &Result{ID: ksuid.New(), Root: root, StartedAt: started}

	paths, err := Discover(fsys, pattern)
	if err != nil {
		return nil, err
	}
	res.Files = len(paths)

	codec := s.Codec
	if codec == nil {
		codec = replay.NewCodec()
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]outcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		if gctx.Err() != nil {
			break
		}
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				outcomes[i].err = errors.Wrap(err, "read replay")
				return nil
			}
			outcomes[i].replay, outcomes[i].err = codec.Decode(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]store.Entry, 0, len(paths))
	for i, o := range outcomes {
		src := source(paths[i])
		if o.err != nil {
			s.logf("[scan] error on path %s: %v", src, o.err)
			res.Failures = append(res.Failures, store.Failure{Source: src, Err: o.err})
			continue
		}
		entries = append(entries, store.Entry{Replay: o.replay, Source: src})
	}

	st, anomalies := store.Classify(entries)
	for _, f := range anomalies {
		s.logf("[scan] %s is an incorrect versus record: %v", f.Source, f.Err)
	}
	res.Store = st
	res.Failures = append(res.Failures, anomalies...)
	res.Duration = time.Since(started)

	s.logf("[scan] %d files, %d replays, %d failures in %s", res.Files, st.Len(), len(res.Failures), res.Duration.Round(time.Millisecond))
	return res, nil
}

func (s *Scanner) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}
