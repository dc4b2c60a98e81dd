package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu    sync.Mutex
	names map[uint64]string
}

func newMemCache() *memCache { return &memCache{names: map[uint64]string{}} }

func (c *memCache) GetName(id uint64) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[id]
	return name, ok, nil
}

func (c *memCache) PutName(id uint64, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[id] = name
	return nil
}

// fakeAPI answers with a persona for every id in known, in reverse order.
func fakeAPI(t *testing.T, known map[string]string, calls *[][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamUser/GetPlayerSummaries/v0002/", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		ids := strings.Split(r.URL.Query().Get("steamids"), ",")
		*calls = append(*calls, ids)

		var players []string
		for i := len(ids) - 1; i >= 0; i-- {
			if name, ok := known[ids[i]]; ok {
				players = append(players, fmt.Sprintf(`{"steamid":%q,"personaname":%q}`, ids[i], name))
			}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"response":{"players":[%s]}}`, strings.Join(players, ","))
	}))
}

func TestResolver_Resolve(t *testing.T) {
	var calls [][]string
	srv := fakeAPI(t, map[string]string{
		"76561197960435530": "Robin",
		"76561198001860904": "Kai",
	}, &calls)
	defer srv.Close()

	r := NewResolver(Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	err := r.Resolve(context.Background(), []uint64{76561197960435530, 101, 76561198001860904, 101})
	require.NoError(t, err)

	assert.Equal(t, "Robin", r.Name(76561197960435530))
	assert.Equal(t, "Kai", r.Name(76561198001860904))
	assert.Equal(t, UnknownSpoofed, r.Name(101))
	assert.Equal(t, UnknownUnparsed, r.Name(5))
	require.Len(t, calls, 1)
	assert.Len(t, calls[0], 3)
}

func TestResolver_Batches(t *testing.T) {
	var calls [][]string
	srv := fakeAPI(t, map[string]string{}, &calls)
	defer srv.Close()

	ids := make([]uint64, 250)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}

	r := NewResolver(Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	require.NoError(t, r.Resolve(context.Background(), ids))

	require.Len(t, calls, 3)
	assert.Len(t, calls[0], 100)
	assert.Len(t, calls[1], 100)
	assert.Len(t, calls[2], 50)
	assert.Equal(t, UnknownSpoofed, r.Name(250))
}

func TestResolver_SkipsKnownAndCached(t *testing.T) {
	var calls [][]string
	srv := fakeAPI(t, map[string]string{"3": "Three"}, &calls)
	defer srv.Close()

	cache := newMemCache()
	cache.names[1] = "Cached"

	r := NewResolver(Config{APIKey: "secret", BaseURL: srv.URL}, cache)
	require.NoError(t, r.Resolve(context.Background(), []uint64{1, 2, 3}))
	require.NoError(t, r.Resolve(context.Background(), []uint64{1, 2, 3}))

	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []string{"2", "3"}, calls[0])
	assert.Equal(t, "Cached", r.Name(1))
	assert.Equal(t, "Three", r.Name(3))

	// only real names are persisted
	assert.Equal(t, "Three", cache.names[3])
	_, spoofed := cache.names[2]
	assert.False(t, spoofed)
}

func TestResolver_FailedBatchIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewResolver(Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	r.logf = func(string, ...any) {}

	require.NoError(t, r.Resolve(context.Background(), []uint64{1}))
	assert.Equal(t, UnknownUnparsed, r.Name(1))
}

func TestResolver_RequiresAPIKey(t *testing.T) {
	r := NewResolver(Config{}, nil)
	assert.Error(t, r.Resolve(context.Background(), []uint64{1}))
	assert.NoError(t, r.Resolve(context.Background(), nil))
}
