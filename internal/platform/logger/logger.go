package logger

import (
	"context"
	"log"
	"strings"
)

type requestIDKey struct{}

// WithRequestID stores the request id on a standard context.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from a standard context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var minLevel = levelInfo

// SetLevel applies LOG_LEVEL. Unknown values keep info.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		minLevel = levelDebug
	case "warn", "warning":
		minLevel = levelWarn
	case "error":
		minLevel = levelError
	default:
		minLevel = levelInfo
	}
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID}
}

// Background is used by timers and cron jobs that run outside a request.
func Background(name string) *Logger {
	return &Logger{requestID: name}
}

func (l *Logger) LogError(operation string, err error) {
	if minLevel > levelError {
		return
	}
	log.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
}

func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	if minLevel > levelError {
		return
	}
	log.Printf("[error] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

func (l *Logger) LogInfo(operation string, message string) {
	if minLevel > levelInfo {
		return
	}
	log.Printf("[info] request_id=%s operation=%s message=%s", l.requestID, operation, message)
}

func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	if minLevel > levelInfo {
		return
	}
	log.Printf("[info] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

func (l *Logger) LogWarn(operation string, message string) {
	if minLevel > levelWarn {
		return
	}
	log.Printf("[warn] request_id=%s operation=%s message=%s", l.requestID, operation, message)
}

func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	if minLevel > levelWarn {
		return
	}
	log.Printf("[warn] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

func (l *Logger) LogDebugf(operation string, format string, args ...interface{}) {
	if minLevel > levelDebug {
		return
	}
	log.Printf("[debug] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}
