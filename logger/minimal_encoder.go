package logger

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Color palettes for different themes
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

type palette struct {
	fg       string
	time     string
	name     []string // rotated per component for visual grouping
	id       string
	number   string
	warn     string
	warnBg   string
	err      string
	errBg    string
	fieldKey string
}

// Everforest Dark: natural forest greens
var everforest = palette{
	fg:       "\x1b[38;5;223m",
	time:     "\x1b[38;5;107m",
	name:     []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	id:       "\x1b[38;5;109m",
	number:   "\x1b[38;5;108m",
	warn:     "\x1b[38;5;179m",
	warnBg:   "\x1b[48;5;58m",
	err:      "\x1b[38;5;167m",
	errBg:    "\x1b[48;5;52m",
	fieldKey: "\x1b[38;5;245m",
}

// Gruvbox Dark: warm, muted
var gruvbox = palette{
	fg:       "\x1b[38;5;223m",
	time:     "\x1b[38;5;108m",
	name:     []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	id:       "\x1b[38;5;109m",
	number:   "\x1b[38;5;175m",
	warn:     "\x1b[38;5;214m",
	warnBg:   "\x1b[48;5;58m",
	err:      "\x1b[38;5;167m",
	errBg:    "\x1b[48;5;88m",
	fieldKey: "\x1b[38;5;245m",
}

var currentTheme = &everforest

// SetTheme configures the color scheme for log output ("everforest" or "gruvbox").
func SetTheme(theme string) {
	switch theme {
	case "everforest":
		currentTheme = &everforest
	case "gruvbox":
		currentTheme = &gruvbox
	}
}

func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	return currentTheme.name[hash%len(currentTheme.name)]
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  s.documents  published diagnostics  file:///a.py v3 2 diagnostics 4ms"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	context         []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		context: append([]zapcore.Field(nil), enc.context...),
	}
}

// AddString and friends are reached through Logger.With; keep the fields so
// EncodeEntry can print them next to the per-entry ones.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.context = append(enc.context, zap.String(key, value))
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.context = append(enc.context, zap.Int64(key, value))
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.context = append(enc.context, zap.Bool(key, value))
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(currentTheme.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for non-INFO levels with bold + background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(currentTheme.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := append(append([]zapcore.Field(nil), enc.context...), fields...)
	if rendered := renderFields(all); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-INFO levels
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return currentTheme.fieldKey + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + currentTheme.warnBg + currentTheme.warn + "WARN" + colorReset
	default:
		return colorBold + currentTheme.errBg + currentTheme.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: server.documents -> s.documents
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// fieldValue extracts the value from a zap field, handling different field types
func fieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(field.Integer)))
	case zapcore.DurationType:
		return fmt.Sprintf("%dms", field.Integer/1e6)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// renderFields prints well-known fields compactly and everything else as
// key=value, so no field is ever dropped.
func renderFields(fields []zapcore.Field) string {
	var known, rest []string

	for _, field := range fields {
		val := fieldValue(field)
		switch field.Key {
		case FieldURI, FieldFile, FieldAddress:
			known = append(known, currentTheme.id+val+colorReset)
		case FieldSessionID:
			if len(val) > 8 {
				val = val[:8]
			}
			known = append(known, currentTheme.id+val+colorReset)
		case FieldVersion:
			known = append(known, currentTheme.number+"v"+val+colorReset)
		case FieldDiagnostics, FieldTokens, FieldCount:
			known = append(known, currentTheme.number+val+colorReset+" "+field.Key)
		case FieldDurationMS:
			known = append(known, currentTheme.number+val+colorReset+"ms")
		default:
			rest = append(rest, currentTheme.fieldKey+field.Key+"="+colorReset+val)
		}
	}

	sort.Strings(rest)
	return strings.Join(append(known, rest...), " ")
}
