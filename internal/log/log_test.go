package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrig/fsuipcgen/ini"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": slog.LevelDebug,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLevelFilterSplitsConsole(t *testing.T) {
	var out, errs bytes.Buffer
	h := NewMultiHandler(
		NewLevelFilter(func(l slog.Level) bool { return l < slog.LevelError }, slog.NewTextHandler(&out, &slog.HandlerOptions{Level: LevelTrace})),
		NewLevelFilter(func(l slog.Level) bool { return l >= slog.LevelError }, slog.NewTextHandler(&errs, nil)),
	)
	logger := slog.New(h)
	logger.Info("generated", "section", "Buttons")
	logger.Error("failed")

	assert.Contains(t, out.String(), "generated")
	assert.NotContains(t, out.String(), "failed")
	assert.Contains(t, errs.String(), "failed")
	assert.NotContains(t, errs.String(), "generated")
	assert.True(t, h.Enabled(context.Background(), LevelTrace))
}

func TestSetupLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.log")
	logger, closers, err := SetupLoggerTo("debug", path, &bytes.Buffer{})
	require.NoError(t, err)
	logger.Debug("resolved profile", "sections", 2)
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "resolved profile")
}

func TestRecordLogger(t *testing.T) {
	var buf bytes.Buffer
	rl := &recordLogger{w: &buf, now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }}
	rl.Log(ini.Record{Section: "Buttons", Index: 3, Token: "PA,1,C65725,0", Comment: "a12"})

	assert.Equal(t, "2024/05/01 12:00:00 [Buttons] 3=PA,1,C65725,0 ;a12\n", buf.String())

	NewRecords(nil).Log(ini.Record{Section: "Buttons", Index: 1})
}
