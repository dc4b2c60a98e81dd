package config

import (
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

var debugEnabled atomic.Bool

// SetupLogging points the standard logger at stderr, plus the configured log
// file. It returns a closer for the file.
func SetupLogging(cfg Logging) (io.Closer, error) {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	switch level {
	case "", "info", "warn":
	case "debug":
	default:
		return nil, errors.Newf("unknown log level %q", cfg.Level)
	}
	debugEnabled.Store(level == "debug")

	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "open log file %s", cfg.File)
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = f
	}

	log.SetFlags(log.LstdFlags)
	if debugEnabled.Load() {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}
	log.SetOutput(out)
	return closer, nil
}

// Debugf logs only when the level is debug.
func Debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Printf(format, args...)
	}
}
