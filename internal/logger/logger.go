// Package logger configures the process-wide structured logger and
// provides context helpers to correlate log lines across layers.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/LucasNunez12345/bot-hexadec/internal/buildinfo"
	"github.com/LucasNunez12345/bot-hexadec/internal/config"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	logFile  *os.File
	levelVar slog.LevelVar

	// L is the base logger all component loggers derive from.
	L *slog.Logger

	// APP logs application lifecycle events.
	APP *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// DLG logs conversation flow transitions.
	DLG *slog.Logger
	// PRC logs price book and quote activity.
	PRC *slog.Logger
	// DB logs database-related events.
	DB *slog.Logger
	// NTF logs operator notification delivery.
	NTF *slog.Logger
)

func init() {
	// Usable before Init for early failures; Init replaces the handler.
	wire(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// Init configures the global structured logger. It may be called only once.
func Init(cfg *config.Config) error {
	var initErr error
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg))

		out := io.Writer(os.Stdout)
		if cfg != nil && cfg.Logging.File != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
				initErr = err
				return
			}
			f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				initErr = err
				return
			}
			logFile = f
			out = io.MultiWriter(os.Stdout, f)
		}

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		if selectFormat(cfg) == "text" {
			handler = slog.NewTextHandler(out, opts)
		} else {
			handler = slog.NewJSONHandler(out, opts)
		}

		logger := slog.New(handler)
		wire(logger)
		slog.SetDefault(logger)

		APP.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build_version", buildinfo.Version),
			slog.String("build_commit", buildinfo.Commit),
		)
	})
	return initErr
}

func wire(base *slog.Logger) {
	L = base
	APP = base.With("component", "app")
	TG = base.With("component", "tg")
	DLG = base.With("component", "dialog")
	PRC = base.With("component", "pricing")
	DB = base.With("component", "db")
	NTF = base.With("component", "notify")
}

// Component returns a child logger tagged with the given component name.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default()
	}
	return L.With("component", name)
}

// Shutdown flushes and closes the optional file sink.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

func selectLevel(cfg *config.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	}
	return slog.LevelInfo
}

func selectFormat(cfg *config.Config) string {
	if cfg == nil {
		return "json"
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "text", "kv", "pretty":
		return "text"
	case "json":
		return "json"
	}
	// Prefer human-friendly format when profile indicates debug/dev mode.
	if strings.EqualFold(cfg.Logging.Profile, "debug") || strings.EqualFold(cfg.Logging.Profile, "dev") {
		return "text"
	}
	return "json"
}

// LogEvent emits an event line enriched with correlation metadata from ctx.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if log == nil {
		log = L
	}
	all := make([]slog.Attr, 0, len(attrs)+4)
	all = append(all, slog.String("event", event))
	all = append(all, attrs...)
	if rid := RIDFrom(ctx); rid != "" {
		all = append(all, slog.String("rid", rid))
	}
	if userID := UserIDFrom(ctx); userID != 0 {
		all = append(all, slog.Int64("user_id", userID))
	}
	if chatID := ChatIDFrom(ctx); chatID != 0 {
		all = append(all, slog.Int64("chat_id", chatID))
	}
	log.LogAttrs(ctx, level, event, all...)
}

// Debug logs a debug event for the named component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an info event for the named component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs a warning event for the named component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event for the named component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}
