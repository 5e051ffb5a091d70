// Package ui is the user-interaction boundary: logging plus the branch
// selection prompts. The UI interface has two implementations, interactive
// (blocking prompts) and batch (deterministic auto-selection), chosen once at
// startup.
package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileEnvVar, when set, enables rotating file logging to the given path
const LogFileEnvVar = "ARBOR_LOG_FILE"

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// consoleHandler is a slog handler that writes level-prefixed, colored
// messages without timestamps
type consoleHandler struct {
	writer    io.Writer
	colored   bool
	debugMode bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	msg := record.Message
	switch record.Level {
	case slog.LevelWarn:
		msg = "Warning: " + msg
		if h.colored {
			msg = warningStyle.Render(msg)
		}
	case slog.LevelError:
		msg = "Error: " + msg
		if h.colored {
			msg = errorStyle.Render(msg)
		}
	case slog.LevelInfo:
		msg = "Info: " + msg
		if h.colored {
			msg = infoStyle.Render(msg)
		}
	}
	_, err := fmt.Fprintln(h.writer, msg)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// createLumberjackLogger creates a rotating file writer, with sizing
// overridable through environment variables
func createLumberjackLogger(logFilePath string) *lumberjack.Logger {
	config := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1,  // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}

	if maxSizeStr := os.Getenv("ARBOR_LOG_MAX_SIZE"); maxSizeStr != "" {
		if maxSize, err := strconv.Atoi(maxSizeStr); err == nil && maxSize > 0 {
			config.MaxSize = maxSize
		}
	}
	if maxBackupsStr := os.Getenv("ARBOR_LOG_MAX_BACKUPS"); maxBackupsStr != "" {
		if maxBackups, err := strconv.Atoi(maxBackupsStr); err == nil && maxBackups >= 0 {
			config.MaxBackups = maxBackups
		}
	}
	if maxAgeStr := os.Getenv("ARBOR_LOG_MAX_AGE"); maxAgeStr != "" {
		if maxAge, err := strconv.Atoi(maxAgeStr); err == nil && maxAge > 0 {
			config.MaxAge = maxAge
		}
	}

	return config
}

// Logger writes leveled messages to the console and, optionally, to a
// rotating log file
type Logger struct {
	logger    *slog.Logger
	logWriter io.WriteCloser
}

// NewLogger creates a console logger. File logging is enabled when
// ARBOR_LOG_FILE is set; a failure to set it up degrades to console-only.
func NewLogger() *Logger {
	logger, err := NewLoggerWithFile(os.Getenv(LogFileEnvVar))
	if err != nil {
		logger, _ = NewLoggerWithFile("")
		logger.Warning("failed to set up log file: %v", err)
	}
	return logger
}

// NewLoggerWithFile creates a logger that also writes to the given file path.
// An empty path means console-only.
func NewLoggerWithFile(logFilePath string) (*Logger, error) {
	console := &consoleHandler{
		writer:    os.Stdout,
		colored:   isatty.IsTerminal(os.Stdout.Fd()),
		debugMode: os.Getenv("ARBOR_DEBUG") != "",
	}

	l := &Logger{}
	handlers := []slog.Handler{console}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		fileWriter := createLumberjackLogger(logFilePath)
		l.logWriter = fileWriter

		fileHandler := slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		handlers = append(handlers, fileHandler)
	}

	l.logger = slog.New(&multiHandler{handlers: handlers})
	return l, nil
}

// Close releases the file writer, if any
func (l *Logger) Close() error {
	if l.logWriter != nil {
		return l.logWriter.Close()
	}
	return nil
}

func (l *Logger) log(level slog.Level, format string, args []any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.logger.Log(context.Background(), level, msg)
}

// Info writes an info message
func (l *Logger) Info(format string, args ...any) {
	l.log(slog.LevelInfo, format, args)
}

// Warning writes a warning message
func (l *Logger) Warning(format string, args ...any) {
	l.log(slog.LevelWarn, format, args)
}

// Error writes an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(slog.LevelError, format, args)
}

// Debug writes a debug message, shown only when ARBOR_DEBUG is set
// (always recorded in the log file)
func (l *Logger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args)
}
