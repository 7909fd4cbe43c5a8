package logging

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for the signed-in user's ID
	UserIDKey contextKey = "user_id"
)

// Config holds logging configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

// New creates a zerolog logger for the given configuration.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "text" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Install builds a logger from cfg and makes it the global logger.
func Install(cfg Config) zerolog.Logger {
	logger := New(cfg)
	log.Logger = logger
	return logger
}

// requestState is shared by every context derived from one request, so
// values recorded by inner middleware reach the completion log line.
type requestState struct {
	mu     sync.Mutex
	userID int64
}

const stateKey contextKey = "request_state"

// WithUserID records the signed-in user on the context for later log lines.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if st, ok := ctx.Value(stateKey).(*requestState); ok {
		st.mu.Lock()
		st.userID = userID
		st.mu.Unlock()
	}
	return context.WithValue(ctx, UserIDKey, userID)
}

// RequestID returns the request ID stored on ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func userID(ctx context.Context) (int64, bool) {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id, true
	}
	st, ok := ctx.Value(stateKey).(*requestState)
	if !ok {
		return 0, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.userID, st.userID != 0
}

// FromContext returns the global logger annotated with the request and user
// IDs carried by ctx.
func FromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With()

	if requestID := RequestID(ctx); requestID != "" {
		logger = logger.Str("request_id", requestID)
	}
	if id, ok := userID(ctx); ok {
		logger = logger.Int64("user_id", id)
	}

	contextLogger := logger.Logger()
	return &contextLogger
}
