package api

import (
	"context"
	"sync"

	"github.com/ssargent/tgmreplays/pkg/scan"
)

// DirLibrary serves scans of one replay directory. A rescan replaces the
// current result wholesale; results are never updated in place.
type DirLibrary struct {
	scanner *scan.Scanner
	root    string
	pattern string
	onScan  func(*scan.Result)

	scanMu sync.Mutex
	mu     sync.RWMutex
	cur    *scan.Result
}

// NewDirLibrary creates a library. onScan, when set, runs after every
// successful scan.
func NewDirLibrary(scanner *scan.Scanner, root, pattern string, onScan func(*scan.Result)) *DirLibrary {
	return &DirLibrary{scanner: scanner, root: root, pattern: pattern, onScan: onScan}
}

// Current returns the latest scan, or nil before the first one.
func (l *DirLibrary) Current() *scan.Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}

// Rescan scans the directory again. Concurrent calls are serialized.
func (l *DirLibrary) Rescan(ctx context.Context) (*scan.Result, error) {
	l.scanMu.Lock()
	defer l.scanMu.Unlock()

	res, err := l.scanner.ScanDir(ctx, l.root, l.pattern)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cur = res
	l.mu.Unlock()

	if l.onScan != nil {
		l.onScan(res)
	}
	return res, nil
}
