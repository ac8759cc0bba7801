package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/welcome/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), "level %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, logger.FormatText, logger.ParseFormat("text"))
	assert.Equal(t, logger.FormatText, logger.ParseFormat(" TEXT "))
	assert.Equal(t, logger.FormatJSON, logger.ParseFormat("json"))
	assert.Equal(t, logger.FormatJSON, logger.ParseFormat("logfmt"))
}

func TestNew_JSONIncludesSource(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelInfo, logger.FormatJSON)

	log.Debug("hidden")
	log.Info("page rendered", "app_name", "Acme")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "page rendered", entry["msg"])
	assert.Equal(t, "Acme", entry["app_name"])
	assert.Contains(t, entry, "source")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelDebug, logger.FormatText)

	log.Debug("rendering", "locale", "en_US")

	assert.Contains(t, buf.String(), "msg=rendering")
	assert.Contains(t, buf.String(), "locale=en_US")
}

func TestSetup_WritesToGivenWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger.Setup(&buf, slog.LevelWarn, logger.FormatText)

	slog.Info("dropped")
	slog.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")
}
