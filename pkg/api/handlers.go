package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/tgmreplays/pkg/export"
	"github.com/ssargent/tgmreplays/pkg/scan"
	"github.com/ssargent/tgmreplays/pkg/store"
)

// BucketsResponse is the body of GET /buckets.
type BucketsResponse struct {
	Scan    ScanInfo      `json:"scan"`
	Buckets []BucketCount `json:"buckets"`
}

// BucketResponse is the body of GET /buckets/{bucket}.
type BucketResponse struct {
	Bucket  string              `json:"bucket"`
	Replays []export.ReplayView `json:"replays"`
}

// Server holds the API server state
type Server struct {
	library ReplayLibrary
	names   NameResolver
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server. names may be nil.
func NewServer(library ReplayLibrary, names NameResolver, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		library: library,
		names:   names,
		config:  config,
		metrics: metrics,
	}
}

// current returns the latest scan or writes a 503 when there is none yet.
func (s *Server) current(w http.ResponseWriter) *scan.Result {
	res := s.library.Current()
	if res == nil {
		sendError(w, "no scan available", http.StatusServiceUnavailable)
	}
	return res
}

func (s *Server) nameFunc() export.NameFunc {
	if s.names == nil {
		return nil
	}
	return s.names.Name
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "healthy"}
	if res := s.library.Current(); res != nil {
		status["scan"] = res.ID.String()
	}
	sendSuccess(w, status)
}

func (s *Server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	res := s.current(w)
	if res == nil {
		return
	}

	counts := res.Store.Counts()
	body := BucketsResponse{
		Scan:    newScanInfo(res),
		Buckets: make([]BucketCount, 0, len(store.Buckets)),
	}
	for _, b := range store.Buckets {
		body.Buckets = append(body.Buckets, BucketCount{Bucket: b.String(), Count: counts[b]})
	}
	sendSuccess(w, body)
}

func (s *Server) handleBucket(w http.ResponseWriter, r *http.Request) {
	b, err := store.ParseBucket(chi.URLParam(r, "bucket"))
	if err != nil {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	res := s.current(w)
	if res == nil {
		return
	}

	names := s.nameFunc()
	replays := res.Store.Replays(b)
	body := BucketResponse{Bucket: b.String(), Replays: make([]export.ReplayView, 0, len(replays))}
	for _, rp := range replays {
		body.Replays = append(body.Replays, export.NewReplayView(rp, names))
	}
	sendSuccess(w, body)
}

func (s *Server) handleFailures(w http.ResponseWriter, r *http.Request) {
	res := s.current(w)
	if res == nil {
		return
	}
	sendSuccess(w, scan.SummarizeFailures(res.Failures))
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	res, err := s.library.Rescan(r.Context())
	if err != nil {
		s.metrics.RecordScanFailure()
		log.Printf("[api] rescan failed: %v", err)
		sendError(w, "rescan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordScan(res)

	if s.names != nil {
		if err := s.names.Resolve(r.Context(), res.Store.SteamIDs()); err != nil {
			log.Printf("[api] name lookup skipped: %v", err)
		}
	}
	sendSuccess(w, res.Summary())
}
