package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across sith.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldSessionID = "session_id"
	FieldComponent = "component"

	// Documents
	FieldURI         = "uri"
	FieldVersion     = "version"
	FieldDiagnostics = "diagnostics"
	FieldTokens      = "tokens"
	FieldFile        = "file"

	// Operations
	FieldMethod = "method"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"

	// Network
	FieldTransport = "transport"
	FieldAddress   = "address"
)

// Context keys for propagating logging context
type contextKey string

const (
	sessionIDKey contextKey = "logger_session_id"
	uriKey       contextKey = "logger_uri"
)

// WithSessionID adds an editor session ID to the context for logging
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithURI adds a document URI to the context for logging
func WithURI(ctx context.Context, uri string) context.Context {
	return context.WithValue(ctx, uriKey, uri)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
		fields = append(fields, FieldSessionID, id)
	}
	if uri, ok := ctx.Value(uriKey).(string); ok && uri != "" {
		fields = append(fields, FieldURI, uri)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Server struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func New() *Server {
//	    return &Server{logger: logger.ComponentLogger("server")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
