package utils

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the structured logging interface passed around the service.
// Arguments follow the slog key-value convention.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	With(args ...interface{}) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a slog.Logger in the Logger interface.
func NewSlogLogger(logger *slog.Logger) Logger {
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...interface{}) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...interface{})  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...interface{})  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...interface{}) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...interface{}) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

type loggerContextKey struct{}

// ContextLogger stores a request-scoped logger, tagged with the request
// id, in both the gin and request contexts.
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestLogger := logger
		if requestID := c.GetString("request_id"); requestID != "" {
			requestLogger = logger.With("request_id", requestID)
		}

		ctx := context.WithValue(c.Request.Context(), loggerContextKey{}, requestLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set("logger", requestLogger)

		c.Next()
	}
}

// LoggerFromContext returns the request-scoped logger, or the fallback
// when the context carries none.
func LoggerFromContext(ctx context.Context, fallback Logger) Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(Logger); ok {
		return logger
	}
	return fallback
}

// LoggerMiddleware logs one line per request with method, path, status
// and latency.
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("request completed",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		)
	}
}
