package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"loud":    zapcore.InfoLevel,
	}

	for input, want := range tests {
		require.Equal(t, want, ParseLevel(input), "ParseLevel(%q)", input)
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.log")

	log := New(Config{Level: "warn", File: path, Production: true})
	log.Info("dropped below level")
	log.Warn("question refresh failed")
	_ = log.Sync()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"question refresh failed"`)
	require.False(t, strings.Contains(string(contents), "dropped below level"))
}
