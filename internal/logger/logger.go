// Package logger provides centralized logging for chatllm.
// Everything is written through charmbracelet/log so the terminal shell and the
// browser server share one structured format.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// EnvLogLevel is consulted when no explicit level is configured.
const EnvLogLevel = "CHATLLM_LOG_LEVEL"

// Logger is the global logger instance used throughout chatllm.
var Logger *log.Logger

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stderr
	logFile  *os.File
)

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.InfoLevel)
}

// Configure sets up the logger from CLI flags and environment variables.
// An explicit level wins over CHATLLM_LOG_LEVEL. A non-empty logFile redirects
// output to that file in append mode.
func Configure(logLevel string, file string, testMode bool) error {
	level := strings.ToLower(strings.TrimSpace(logLevel))
	if level == "" {
		level = strings.ToLower(os.Getenv(EnvLogLevel))
	}

	var out io.Writer = os.Stderr
	var opened *os.File
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		opened = f
		out = f
	}

	outputMu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = opened
	output = out
	outputMu.Unlock()

	Logger = log.New(out)
	Logger.SetTimeFormat("")
	Logger.SetLevel(ParseLevel(level))

	if testMode {
		// keep transcripts stable
		Logger.SetTimeFormat("")
		Logger.SetReportTimestamp(false)
	}

	return nil
}

// SetOutput redirects the global logger, mostly for tests.
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
	Logger.SetOutput(w)
}

// Close releases a log file opened by Configure.
func Close() error {
	outputMu.Lock()
	defer outputMu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	output = os.Stderr
	Logger.SetOutput(os.Stderr)
	return err
}

// ParseLevel converts a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs a fatal message with optional key-value pairs and exits.
func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}

// ServiceOperation logs service operation details for debugging.
func ServiceOperation(service string, operation string, details ...interface{}) {
	Debug("Service operation", "service", service, "operation", operation, "details", details)
}

// StoreOperation logs a conversation store transition for debugging.
func StoreOperation(operation string, label string) {
	Debug("Store operation", "operation", operation, "label", label)
}

// NewStyledLogger creates a prefixed logger for a component, e.g. "Server" or "Shell".
func NewStyledLogger(prefix string) *log.Logger {
	styles := log.DefaultStyles()

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("33")).
		Foreground(lipgloss.Color("15"))

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("196")).
		Foreground(lipgloss.Color("15"))

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("240")).
		Foreground(lipgloss.Color("15"))

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("214")).
		Foreground(lipgloss.Color("15"))

	styles.Levels[log.FatalLevel] = lipgloss.NewStyle().
		SetString("FATAL").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("88")).
		Foreground(lipgloss.Color("15"))

	styles.Keys["label"] = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))    // Purple
	styles.Keys["model"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))    // Blue
	styles.Keys["provider"] = lipgloss.NewStyle().Foreground(lipgloss.Color("51")) // Cyan
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))   // Red
	styles.Keys["remote"] = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))   // Green

	styles.Values["label"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	outputMu.Lock()
	out := output
	outputMu.Unlock()

	componentLogger := log.NewWithOptions(out, log.Options{
		Prefix: prefix + " ",
	})
	componentLogger.SetStyles(styles)
	componentLogger.SetLevel(Logger.GetLevel())

	return componentLogger
}
