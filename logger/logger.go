// Package logger builds the JSON logger shared by the console. Every record
// carries the service name and the hostname; call sites add an action.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

func New(service string, w io.Writer, level slog.Leveler) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	hostname, _ := os.Hostname()
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(
		slog.String("service", service),
		slog.String("hostname", hostname),
	)
}

// ParseLevel maps debug/info/warn/error onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func Action(name string) slog.Attr { return slog.String("action", name) }

func Err(err error) slog.Attr { return slog.Any("error", err) }

// Discard is used by tests and by components built without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type ctxKey struct{}

// WithRequestID stores the request id so that FromContext can attach it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns l annotated with the request id held by ctx, if any.
func FromContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return l.With(slog.String("request_id", id))
	}
	return l
}
