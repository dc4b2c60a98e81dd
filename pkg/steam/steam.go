// Package steam resolves steam ids to display names through the Steam Web API.
package steam

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

const (
	DefaultBaseURL   = "http://api.steampowered.com"
	DefaultBatchSize = 100

	// UnknownSpoofed is recorded for ids the API did not return.
	UnknownSpoofed = "Unknown/Spoofed"
	// UnknownUnparsed is returned for ids that were never looked up.
	UnknownUnparsed = "Unknown/Unparsed"
)

// NameCache persists resolved names between runs.
type NameCache interface {
	GetName(steamID uint64) (string, bool, error)
	PutName(steamID uint64, name string) error
}

// Config holds the client settings.
type Config struct {
	APIKey    string
	BaseURL   string
	BatchSize int
	Timeout   time.Duration
}

// Resolver looks up and remembers player names.
type Resolver struct {
	config Config
	client *http.Client
	cache  NameCache
	logf   func(format string, args ...any)

	mu    sync.RWMutex
	names map[uint64]string
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(config Config, cache NameCache) *Resolver {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.BatchSize <= 0 || config.BatchSize > DefaultBatchSize {
		config.BatchSize = DefaultBatchSize
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Resolver{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		cache:  cache,
		logf:   log.Printf,
		names:  make(map[uint64]string),
	}
}

type player struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
}

type summariesResponse struct {
	Response struct {
		Players []player `json:"players"`
	} `json:"response"`
}

// Resolve looks up every id not already known. Cached names are used first.
// A batch that fails is logged and skipped; its ids stay unresolved.
func (r *Resolver) Resolve(ctx context.Context, ids []uint64) error {
	pending := r.unknown(ids)
	if len(pending) == 0 {
		return nil
	}
	if r.config.APIKey == "" {
		return errors.New("steam api key is not configured")
	}

	for start := 0; start < len(pending); start += r.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+r.config.BatchSize, len(pending))
		chunk := pending[start:end]

		players, err := r.fetch(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logf("[steam] lookup of %d ids failed: %v", len(chunk), err)
			continue
		}

		received := make(map[uint64]string, len(players))
		for _, p := range players {
			id, err := strconv.ParseUint(p.SteamID, 10, 64)
			if err != nil {
				continue
			}
			received[id] = p.PersonaName
		}
		// the API returns players in no particular order and drops unknown ids
		for _, id := range chunk {
			name, ok := received[id]
			if !ok {
				name = UnknownSpoofed
			}
			r.remember(id, name, ok)
		}
	}
	return nil
}

// Name returns the resolved name of id, or UnknownUnparsed.
func (r *Resolver) Name(id uint64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.names[id]; ok {
		return name
	}
	return UnknownUnparsed
}

// unknown returns the ids that are neither in memory nor in the cache.
func (r *Resolver) unknown(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	var pending []uint64
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		r.mu.RLock()
		_, known := r.names[id]
		r.mu.RUnlock()
		if known {
			continue
		}
		if r.cache != nil {
			name, ok, err := r.cache.GetName(id)
			if err != nil {
				r.logf("[steam] name cache read for %d: %v", id, err)
			} else if ok {
				r.remember(id, name, false)
				continue
			}
		}
		pending = append(pending, id)
	}
	return pending
}

func (r *Resolver) remember(id uint64, name string, persist bool) {
	r.mu.Lock()
	r.names[id] = name
	r.mu.Unlock()
	if persist && r.cache != nil {
		if err := r.cache.PutName(id, name); err != nil {
			r.logf("[steam] name cache write for %d: %v", id, err)
		}
	}
}

func (r *Resolver) fetch(ctx context.Context, ids []uint64) ([]player, error) {
	list := make([]string, len(ids))
	for i, id := range ids {
		list[i] = strconv.FormatUint(id, 10)
	}
	q := url.Values{}
	q.Set("key", r.config.APIKey)
	q.Set("steamids", strings.Join(list, ","))
	endpoint := strings.TrimRight(r.config.BaseURL, "/") + "/ISteamUser/GetPlayerSummaries/v0002/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get player summaries")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Newf("get player summaries: status %d", resp.StatusCode)
	}

	var body summariesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode player summaries")
	}
	return body.Response.Players, nil
}
