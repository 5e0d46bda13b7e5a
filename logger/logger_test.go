package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// capture points the global logger at a buffer for the duration of the test.
func capture(t *testing.T, jsonOutput bool, lvl zapcore.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, jsonOutput, lvl))
	t.Cleanup(func() {
		Logger = zap.NewNop().Sugar()
		JSONOutput = false
		SetLevel(zapcore.WarnLevel)
	})
	return &buf
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.jsonOutput, zapcore.InfoLevel)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Infow("server started", FieldTransport, "stdio")
			Cleanup()
			assert.Contains(t, buf.String(), "server started")
		})
	}
}

func TestJSONOutputIsStructured(t *testing.T) {
	buf := capture(t, true, zapcore.InfoLevel)

	Logger.Named("server").Infow("published diagnostics", FieldURI, "file:///a.py", FieldDiagnostics, 2)
	Cleanup()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "published diagnostics", entry["msg"])
	assert.Equal(t, "server", entry["logger"])
	assert.Equal(t, "file:///a.py", entry[FieldURI])
	assert.EqualValues(t, 2, entry[FieldDiagnostics])
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, false, zapcore.WarnLevel)

	Infow("hidden")
	Debugw("hidden too")
	Warnw("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	SetLevel(zapcore.DebugLevel)
	assert.Equal(t, zapcore.DebugLevel, Level())
	Debugw("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestEffectiveLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, EffectiveLevel("warn", 0))
	assert.Equal(t, zapcore.InfoLevel, EffectiveLevel("warn", 1))
	assert.Equal(t, zapcore.InfoLevel, EffectiveLevel("INFO", 0))
	assert.Equal(t, zapcore.DebugLevel, EffectiveLevel("info", 2))
	assert.Equal(t, zapcore.WarnLevel, EffectiveLevel("nonsense", 0))
	assert.Equal(t, zapcore.ErrorLevel, EffectiveLevel("error", 0))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputDiagnostics))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputProgress))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputTokens))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputTokens))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))
	assert.Equal(t, "timing", CategoryName(OutputTiming))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
}

func TestLoggerFromContext(t *testing.T) {
	buf := capture(t, true, zapcore.InfoLevel)

	ctx := WithURI(WithSessionID(context.Background(), "3f1c"), "file:///b.py")
	assert.Equal(t, []interface{}{FieldSessionID, "3f1c", FieldURI, "file:///b.py"}, FieldsFromContext(ctx))

	LoggerFromContext(ctx).Info("opened")
	Cleanup()
	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, `"session_id":"3f1c"`)
	assert.Contains(t, line, `"uri":"file:///b.py"`)

	assert.Same(t, Logger, LoggerFromContext(context.Background()))
}
