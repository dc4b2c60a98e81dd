package scan

import (
	"time"

	"github.com/ssargent/tgmreplays/pkg/store"
)

// Summary is the persisted, JSON-friendly view of a scan Result.
type Summary struct {
	ID         string           `json:"id"`
	Root       string           `json:"root"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMS int64            `json:"duration_ms"`
	Files      int              `json:"files"`
	Replays    int              `json:"replays"`
	Counts     map[string]int   `json:"counts"`
	Failures   []FailureSummary `json:"failures,omitempty"`
}

// FailureSummary is one rejected input.
type FailureSummary struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Summary condenses the result for storage and display.
func (r *Result) Summary() Summary {
	sum := Summary{
		ID:         r.ID.String(),
		Root:       r.Root,
		StartedAt:  r.StartedAt.UTC(),
		DurationMS: r.Duration.Milliseconds(),
		Files:      r.Files,
		Counts:     make(map[string]int, len(store.Buckets)),
		Failures:   SummarizeFailures(r.Failures),
	}
	if r.Store != nil {
		sum.Replays = r.Store.Len()
		for b, n := range r.Store.Counts() {
			sum.Counts[b.String()] = n
		}
	}
	return sum
}

// SummarizeFailures flattens failures to strings.
func SummarizeFailures(failures []store.Failure) []FailureSummary {
	out := make([]FailureSummary, 0, len(failures))
	for _, f := range failures {
		out = append(out, FailureSummary{Source: f.Source, Error: f.Err.Error()})
	}
	return out
}
