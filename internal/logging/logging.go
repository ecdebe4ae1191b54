package logging

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ANSI color codes for terminal output
const (
	colorRed    = "\033[97;41m" // White text on red background
	colorGreen  = "\033[97;42m" // White text on green background
	colorYellow = "\033[90;43m" // Black text on yellow background
	colorBlue   = "\033[97;44m" // White text on blue background
	colorCyan   = "\033[97;46m" // White text on cyan background
	colorReset  = "\033[0m"
)

// Log levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

type Logger struct {
	*log.Logger
	writer io.Closer
	level  int
}

func NewLogger(config *Config) (*Logger, error) {
	logFile, err := expandHome(config.File)
	if err != nil {
		return nil, err
	}

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Set up log rotation
	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    config.MaxSize, // MB
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge, // days
		Compress:   true,
	}

	var out io.Writer = writer
	if !config.Quiet {
		out = io.MultiWriter(writer, os.Stdout)
	}

	return &Logger{
		Logger: log.New(out, "", log.LstdFlags),
		writer: writer,
		level:  rankOf(config.Level),
	}, nil
}

// NewDiscard returns a logger that drops everything. Used by tests and
// library callers that don't care about output.
func NewDiscard() *Logger {
	return &Logger{
		Logger: log.New(io.Discard, "", 0),
		level:  levelRank[LevelError] + 1,
	}
}

func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

func rankOf(level string) int {
	if r, ok := levelRank[strings.ToLower(level)]; ok {
		return r
	}
	return levelRank[LevelInfo]
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

func (l *Logger) logf(level, prefix, format string, v ...interface{}) {
	if levelRank[level] < l.level {
		return
	}
	l.Printf(prefix+" "+format, v...)
}

// Log methods with colors (always enabled for better visibility)
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(LevelDebug, colorBlue+"[DEBUG]"+colorReset, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(LevelInfo, colorGreen+"[INFO]"+colorReset, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.logf(LevelWarn, colorYellow+"[WARN]"+colorReset, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(LevelError, colorRed+"[ERROR]"+colorReset, format, v...)
}

// Error handling utilities
type ErrorWithContext struct {
	Err     error
	Context string
}

func (e *ErrorWithContext) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{
		Err:     err,
		Context: context,
	}
}

// Common errors
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrConnection    = errors.New("connection error")
)

// FormatHTTPMethod returns a colored string based on the HTTP method
func (l *Logger) FormatHTTPMethod(method string) string {
	var color string
	switch method {
	case http.MethodGet:
		color = colorBlue
	case http.MethodPost:
		color = colorCyan
	case http.MethodPut, http.MethodPatch:
		color = colorYellow
	case http.MethodDelete:
		color = colorRed
	default:
		color = colorBlue
	}
	return fmt.Sprintf("%s %s %s", color, method, colorReset)
}

// FormatHTTPStatus returns a colored string based on the status code
func (l *Logger) FormatHTTPStatus(status int) string {
	var color string
	switch {
	case status >= 500:
		color = colorRed
	case status >= 400:
		color = colorYellow
	case status >= 300:
		color = colorCyan
	case status >= 200:
		color = colorGreen
	default:
		color = colorBlue
	}
	return fmt.Sprintf("%s %d %s", color, status, colorReset)
}

// LogHTTPRequest logs a dashboard API request with colored output
func (l *Logger) LogHTTPRequest(method, path, requestID string, status int, latency string) {
	l.logf(LevelInfo, "[HTTP]", "%s | %-17s | %s | %s | %s",
		l.FormatHTTPStatus(status),
		l.FormatHTTPMethod(method),
		path,
		requestID,
		latency,
	)
}

// LogHTTPError logs a dashboard API error with colored output
func (l *Logger) LogHTTPError(method, path string, status int, message string, err error) {
	l.logf(LevelError, "[HTTP-ERROR]", "%s | %-17s | %s | %s: %v",
		l.FormatHTTPStatus(status),
		l.FormatHTTPMethod(method),
		path,
		message,
		err,
	)
}
