package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	zap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// responseWriter is a minimal wrapper for http.ResponseWriter that allows the
// written HTTP status code to be captured for logging.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	size        int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (rw *responseWriter) Status() int {
	if !rw.wroteHeader {
		return http.StatusOK
	}
	return rw.status
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriter) Write(body []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(body)
	rw.size += n
	return n, err
}

// LoggingMiddleware logs the incoming HTTP request & its duration.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			logger := LoggerFrom(r.Context(), logger)

			defer func() {
				if err := recover(); err != nil {
					wrapped.WriteHeader(http.StatusInternalServerError)
					logger.Error("Internal Server Error",
						zap.Any("panic", err),
						zap.String("stack", string(debug.Stack())),
					)
				}

				duration := time.Since(start)
				logger.Debug("Request completed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.EscapedPath()),
					zap.Int("status", wrapped.Status()),
					zap.Int("size", wrapped.size),
					zap.Duration("duration", duration),
					zap.String("client_ip", r.RemoteAddr),
					zap.String("user_agent", r.UserAgent()),
					zap.Object("headers", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
						for k, v := range r.Header {
							enc.AddString(k, fmt.Sprintf("%v", v))
						}
						return nil
					})),
				)

				// Log slow requests
				if duration > 1*time.Second {
					logger.Warn("Slow request",
						zap.String("method", r.Method),
						zap.String("path", r.URL.EscapedPath()),
						zap.Duration("duration", duration),
					)
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	LoggerKey    ctxKey = "logger"
)

// RequestIDMiddleware adds a unique request ID to each request, and a logger
// carrying it to the request context.
func RequestIDMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = generateRequestID()
			}
			w.Header().Set("X-Request-ID", requestID)

			logger := logger.With(zap.String("request_id", requestID))
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = context.WithValue(ctx, LoggerKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFrom returns the request logger, or fallback outside a request.
func LoggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}

func generateRequestID() string {
	return "req-" + uuid.New().String()
}

// Chain applies middlewares so that the first one is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
