package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	return ansi.ReplaceAllString(str, "")
}

func encode(t *testing.T, enc zapcore.Encoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	return stripANSI(buf.String())
}

func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "server.documents",
		Message:    "published diagnostics",
	}

	tests := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldURI, "file:///a.py"), "file:///a.py"},
		{zap.Int32(FieldVersion, 3), "v3"},
		{zap.Int(FieldDiagnostics, 2), "2 diagnostics"},
		{zap.Int64(FieldDurationMS, 4), "4ms"},
		{zap.String("random_field_xyz", "important_data"), "random_field_xyz=important_data"},
		{zap.Bool("truncated", true), "truncated=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
	}

	fields := make([]zapcore.Field, len(tests))
	for i, tt := range tests {
		fields[i] = tt.field
	}
	out := encode(t, newMinimalEncoder(), entry, fields...)

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "s.documents")
	assert.Contains(t, out, "published diagnostics")
	for _, tt := range tests {
		assert.Contains(t, out, tt.mustFind)
	}
	assert.NotContains(t, out, "INFO")
}

func TestMinimalEncoderLevels(t *testing.T) {
	enc := newMinimalEncoder()
	now := time.Now()

	out := encode(t, enc, zapcore.Entry{Level: zapcore.WarnLevel, Time: now, Message: "slow parse"})
	assert.Contains(t, out, "WARN")

	out = encode(t, enc, zapcore.Entry{Level: zapcore.ErrorLevel, Time: now, Message: "listen failed"},
		zap.Error(assert.AnError))
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, assert.AnError.Error())
}

func TestMinimalEncoderKeepsContextFields(t *testing.T) {
	enc := newMinimalEncoder()
	child := enc.Clone()
	zap.String(FieldSessionID, "0123456789abcdef").AddTo(child)
	zap.String(FieldTransport, "tcp").AddTo(child)

	out := encode(t, child, zapcore.Entry{Time: time.Now(), Message: "connected"})
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "transport=tcp")

	// The parent encoder is untouched by the child's fields
	out = encode(t, enc, zapcore.Entry{Time: time.Now(), Message: "connected"})
	assert.NotContains(t, out, "transport=tcp")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "server", abbreviateName("server"))
	assert.Equal(t, "s.documents", abbreviateName("server.documents"))
	assert.Equal(t, "c.watcher.reload", abbreviateName("config.watcher.reload"))
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("everforest") })

	SetTheme("gruvbox")
	assert.Same(t, &gruvbox, currentTheme)
	SetTheme("unknown")
	assert.Same(t, &gruvbox, currentTheme)
	SetTheme("everforest")
	assert.Same(t, &everforest, currentTheme)
}
