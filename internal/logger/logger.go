// Package logger holds the process-wide logger of the console.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// EnvLevel names the environment variable consulted when no level flag is
// given.
const EnvLevel = "CMDCONSOLE_LOG_LEVEL"

// Logger is the global logger. It writes to stderr without timestamps until
// Configure is called.
var Logger = newLogger(os.Stderr, log.WarnLevel)

// out is where Logger and component loggers currently write.
var out io.Writer = os.Stderr

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.New(w)
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure replaces Logger according to the command line. An empty level
// falls back to CMDCONSOLE_LOG_LEVEL and then to warn; an empty file keeps
// stderr. Test mode pins the level to warn so golden output stays stable.
func Configure(level, file string, testMode bool) error {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	if testMode {
		lvl = log.WarnLevel
	}

	out = w
	Logger = newLogger(w, lvl)
	return nil
}

// ParseLevel maps a level name to a log level. The empty string is warn.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	}
	return log.WarnLevel, fmt.Errorf("unknown log level %q", level)
}

// Debug logs at debug level.
func Debug(msg any, keyvals ...any) { Logger.Debug(msg, keyvals...) }

// Info logs at info level.
func Info(msg any, keyvals ...any) { Logger.Info(msg, keyvals...) }

// Warn logs at warn level.
func Warn(msg any, keyvals ...any) { Logger.Warn(msg, keyvals...) }

// Error logs at error level.
func Error(msg any, keyvals ...any) { Logger.Error(msg, keyvals...) }

// Fatal logs at fatal level and exits.
func Fatal(msg any, keyvals ...any) { Logger.Fatal(msg, keyvals...) }

// CommandExecution records a parsed invocation about to run.
func CommandExecution(id, path string, args map[string]any) {
	Debug("Executing command", "id", id, "command", path, "args", args)
}

// CompletionRequest records a completion round trip.
func CompletionRequest(line string, cursor int, match string) {
	Debug("Completion", "input", line, "cursor", cursor, "match", match)
}

// CatalogEvent records catalog loading and reload activity.
func CatalogEvent(event, path string, keyvals ...any) {
	Info("Catalog "+event, append([]any{"path", path}, keyvals...)...)
}

var levelColors = map[log.Level]string{
	log.DebugLevel: "240",
	log.InfoLevel:  "33",
	log.WarnLevel:  "214",
	log.ErrorLevel: "196",
	log.FatalLevel: "88",
}

// NewStyledLogger returns a component logger with badge-style levels. It
// shares the destination and level of Logger.
func NewStyledLogger(prefix string) *log.Logger {
	styles := log.DefaultStyles()
	for lvl, bg := range levelColors {
		styles.Levels[lvl] = lipgloss.NewStyle().
			SetString(strings.ToUpper(lvl.String())).
			Padding(0, 1).
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color("15"))
	}
	styles.Keys["command"] = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styles.Keys["input"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["path"] = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	l := log.NewWithOptions(out, log.Options{Prefix: prefix})
	l.SetStyles(styles)
	l.SetLevel(Logger.GetLevel())
	return l
}
