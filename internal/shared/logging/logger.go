package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const redacted = "[REDACTED]"

// Config captures the settings used to build the process logger.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Service and Host, when set, are attached to every record.
	Service string
	Host    string
}

// ParseLevel converts textual levels into slog levels, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "dbg":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	case "trace":
		return slog.LevelDebug - 2
	default:
		return slog.LevelInfo
	}
}

// New builds a slog.Logger for w. Attributes named like credentials are
// masked before they reach the handler.
func New(w io.Writer, cfg Config) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	handlerOpts := &slog.HandlerOptions{
		Level:       ParseLevel(cfg.Level),
		AddSource:   cfg.AddSource,
		ReplaceAttr: redactSecrets,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	if service := strings.TrimSpace(cfg.Service); service != "" {
		logger = logger.With(slog.String("service", service))
	}
	if host := strings.TrimSpace(cfg.Host); host != "" {
		logger = logger.With(slog.String("host", host))
	}
	return logger
}

func redactSecrets(_ []string, attr slog.Attr) slog.Attr {
	if IsSecretKey(attr.Key) && attr.Value.Kind() == slog.KindString && attr.Value.String() != "" {
		return slog.String(attr.Key, redacted)
	}
	return attr
}

// IsSecretKey reports whether a log or payload key names a credential.
func IsSecretKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	switch lower {
	case "token", "password", "secret", "authorization":
		return true
	}
	return strings.HasSuffix(lower, "password") || strings.HasSuffix(lower, "token")
}
