package api

import (
	"context"
	"time"

	"github.com/ssargent/tgmreplays/pkg/scan"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string // optional; when set every /api/v1 route requires X-API-Key
}

// ReplayLibrary hands out the latest scan and rebuilds it on demand.
type ReplayLibrary interface {
	Current() *scan.Result
	Rescan(ctx context.Context) (*scan.Result, error)
}

// NameResolver maps steam ids to display names.
type NameResolver interface {
	Resolve(ctx context.Context, ids []uint64) error
	Name(steamID uint64) string
}

// BucketCount is one row of the bucket listing.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// ScanInfo describes the scan a response was built from.
type ScanInfo struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	StartedAt time.Time `json:"started_at"`
	Files     int       `json:"files"`
	Replays   int       `json:"replays"`
	Failures  int       `json:"failures"`
}

func newScanInfo(res *scan.Result) ScanInfo {
	return ScanInfo{
		ID:        res.ID.String(),
		Root:      res.Root,
		StartedAt: res.StartedAt.UTC(),
		Files:     res.Files,
		Replays:   res.Store.Len(),
		Failures:  len(res.Failures),
	}
}
