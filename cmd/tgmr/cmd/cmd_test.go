package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/tgmreplays/pkg/api"
	"github.com/ssargent/tgmreplays/pkg/config"
	"github.com/ssargent/tgmreplays/pkg/di"
	"github.com/ssargent/tgmreplays/pkg/export"
	"github.com/ssargent/tgmreplays/pkg/replay"
	"github.com/ssargent/tgmreplays/pkg/scan"
	"github.com/ssargent/tgmreplays/pkg/store"
)

type testEnv struct {
	configPath string
	replayDir  string
	stateDir   string
	dir        string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		replayDir:  filepath.Join(dir, "tgm4"),
		stateDir:   filepath.Join(dir, "state"),
	}

	played := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	files := map[string]*replay.Replay{
		"replay_data/1/a.bin": {Mode: replay.Master{}, Rule: replay.RuleTGM, SteamID: 76561197960435530, PlayedAt: played, Level: 999, Score: 123456, Seed: 42, Elapsed: 8050 * time.Millisecond, Modifiers: replay.Modifiers{replay.ModBig}},
		"replay_data/1/b.bin": {Mode: replay.Asuka{}, SteamID: 2, PlayedAt: played, Level: 100},
		"replay_data/1/c.bin": {Mode: replay.Normal{}, Rule: replay.RuleTGM, SteamID: 3, PlayedAt: played, Opponent: &replay.Opponent{Seed: 7}},
	}
	for name, r := range files {
		buf, err := (&replay.Codec{}).Encode(r)
		require.NoError(t, err)
		path := filepath.Join(env.replayDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, buf, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(env.replayDir, "replay_data", "1", "broken.bin"), []byte{1}, 0o644))

	SetContainer(di.NewContainer())
	return env
}

// resetFlags puts every flag back to its default between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args,
		"--config", e.configPath,
		"--replay-dir", e.replayDir,
		"--state-dir", e.stateDir,
	))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+env.configPath)

	cfg, err := config.LoadConfig(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, env.replayDir, cfg.ReplayDir)

	out, err = env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = env.run(t, "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
}

func TestScanAndHistoryCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Scanned 4 files")
	assert.Regexp(t, `master\s+1`, out)
	assert.Regexp(t, `asuka\s+1`, out)
	assert.Regexp(t, `pvp\s+1`, out)
	assert.Regexp(t, `total\s+3`, out)
	assert.Contains(t, out, "1 files skipped")
	assert.Contains(t, out, "broken.bin")
	assert.Contains(t, out, "Saved scan")

	out, err = env.run(t, "history", "--format", "json")
	require.NoError(t, err)
	var scans []scan.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &scans))
	require.Len(t, scans, 1)
	assert.Equal(t, 3, scans[0].Replays)
	assert.Equal(t, 1, scans[0].Counts["pvp"])

	out, err = env.run(t, "history", scans[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, scans[0].ID)

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "REPLAYS")
	assert.Contains(t, out, scans[0].ID)

	_, err = env.run(t, "history", "not-a-ksuid")
	assert.Error(t, err)
}

func TestScanCommand_NoSave(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "scan", "--no-save")
	require.NoError(t, err)
	assert.NotContains(t, out, "Saved scan")

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No scans recorded")
}

func TestScanCommand_MissingReplayDir(t *testing.T) {
	env := newTestEnv(t)
	env.replayDir = filepath.Join(env.dir, "nowhere")

	_, err := env.run(t, "scan")
	assert.Error(t, err)
}

func TestListCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("default bucket table", func(t *testing.T) {
		out, err := env.run(t, "list", "--utc")
		require.NoError(t, err)
		assert.Contains(t, out, "PLAYTIME")
		assert.Contains(t, out, "76561197960435530")
		assert.Contains(t, out, "TGM, Big")
		assert.Contains(t, out, `00'08"05`)
		assert.Contains(t, out, "123,456")
		assert.Contains(t, out, "2025-03-04 05:06:07")
	})

	t.Run("json", func(t *testing.T) {
		out, err := env.run(t, "list", "versus", "--format", "json")
		require.NoError(t, err)
		var views []export.ReplayView
		require.NoError(t, json.Unmarshal([]byte(out), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "3", views[0].SteamID)
		require.NotNil(t, views[0].Opponent)
		assert.Equal(t, uint32(7), views[0].Opponent.Seed)
	})

	t.Run("where and sort", func(t *testing.T) {
		out, err := env.run(t, "list", "--where", "level>=1000")
		require.NoError(t, err)
		assert.Contains(t, out, "No replays found")

		out, err = env.run(t, "list", "--where", "modifier=big", "--sort", "-score")
		require.NoError(t, err)
		assert.Contains(t, out, "76561197960435530")

		_, err = env.run(t, "list", "--where", "colour=red")
		assert.Error(t, err)
	})

	t.Run("empty bucket", func(t *testing.T) {
		out, err := env.run(t, "list", "konoha")
		require.NoError(t, err)
		assert.Contains(t, out, "No replays found")
	})

	t.Run("unknown bucket", func(t *testing.T) {
		_, err := env.run(t, "list", "sprint")
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := env.run(t, "list", "--format", "xml")
		assert.Error(t, err)
	})
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(env.dir, "out.csv")
		out, err := env.run(t, "export", "--output", path)
		require.NoError(t, err)
		assert.Contains(t, out, "overwritten")

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "SteamID", rows[0][0])
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(env.dir, "out.json")
		_, err := env.run(t, "export", "--format", "json", "--output", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var doc export.Document
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, 1, doc.Counts["master"])
		assert.Len(t, doc.Buckets["asuka"], 1)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(env.dir, "out.db")
		_, err := env.run(t, "export", "--format", "sqlite", "--output", path)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := env.run(t, "export", "--format", "xlsx", "--output", filepath.Join(env.dir, "x"))
		assert.Error(t, err)
	})
}

func TestNamesCommand_WithoutAPIKey(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("STEAM_API_KEY", "")

	out, err := env.run(t, "names")
	require.NoError(t, err)
	assert.Contains(t, out, "76561197960435530")
	assert.Contains(t, out, "Unknown/Unparsed")
}

type recordingStarter struct {
	config  api.ServerConfig
	library api.ReplayLibrary
}

func (s *recordingStarter) StartServer(ctx context.Context, library api.ReplayLibrary, names api.NameResolver, config api.ServerConfig) error {
	s.config = config
	s.library = library
	_, err := library.Rescan(ctx)
	return err
}

type recordingFactory struct{ starter *recordingStarter }

func (f recordingFactory) CreateServerStarter() api.ServerStarter { return f.starter }

func TestServeCommand(t *testing.T) {
	env := newTestEnv(t)
	starter := &recordingStarter{}
	container.SetServerFactory(recordingFactory{starter: starter})

	_, err := env.run(t, "serve", "--port", "8123", "--api-key", "k")
	require.NoError(t, err)
	assert.Equal(t, 8123, starter.config.Port)
	assert.Equal(t, "127.0.0.1", starter.config.Bind)
	assert.Equal(t, "k", starter.config.APIKey)
	require.NotNil(t, starter.library.Current())
	assert.Equal(t, 3, starter.library.Current().Store.Len())

	// the library's scan hook records history
	out, err := env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, starter.library.Current().ID.String())
}

func TestListBucket(t *testing.T) {
	b, err := listBucket(nil)
	require.NoError(t, err)
	assert.Equal(t, store.BucketMaster, b)

	b, err = listBucket([]string{"Versus"})
	require.NoError(t, err)
	assert.Equal(t, store.BucketPvp, b)

	_, err = listBucket([]string{"sprint"})
	assert.Error(t, err)
}

func TestListCommand_DefaultsToMaster(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "list", "--format", "json")
	require.NoError(t, err)
	var views []export.ReplayView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Master", views[0].Mode)
	assert.Equal(t, "76561197960435530", views[0].SteamID)
}

func TestReplayOptions(t *testing.T) {
	r := &replay.Replay{Rule: replay.RuleStandard, Modifiers: replay.Modifiers{replay.ModDaily, replay.ModMaxG}}
	assert.Equal(t, "Standard, Daily, MaxG", replayOptions(r))
	assert.Equal(t, "TGM", replayOptions(&replay.Replay{Rule: replay.RuleTGM}))
}

func TestOutputScansTable(t *testing.T) {
	var buf bytes.Buffer
	err := outputScansTable(&buf, []scan.Summary{{
		ID: "abc", StartedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Files: 1500, Replays: 1200, DurationMS: 250,
	}}, time.UTC)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "250ms")
	assert.True(t, strings.HasPrefix(out, "ID"))
}
