// Package log provides structured logging for stitchcap.
// It wraps zerolog with a console writer for terminals and an optional
// systemd-journald sink for units.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger zerolog.Logger
	ready  bool
)

// Init initializes the global logger with the specified level.
// Valid levels: "debug", "info", "warn", "error".
// When toJournal is set and journald is reachable, entries are sent there
// instead of stderr. Calling it again replaces the logger, including one
// created implicitly by an earlier log call.
func Init(level string, toJournal bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = build(level, toJournal)
	ready = true
}

func build(level string, toJournal bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	if toJournal && journal.Enabled() {
		w = journalWriter{}
	}

	return New(w).Level(lvl)
}

// New returns a logger writing to w. Tests use it to capture output.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// L returns the global logger instance, creating an info level console
// logger if Init has not run yet.
func L() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !ready {
		logger = build("info", false)
		ready = true
	}
	return &logger
}

// Debug starts a debug level entry.
func Debug() *zerolog.Event {
	return L().Debug()
}

// Info starts an info level entry.
func Info() *zerolog.Event {
	return L().Info()
}

// Warn starts a warn level entry.
func Warn() *zerolog.Event {
	return L().Warn()
}

// Error starts an error level entry.
func Error() *zerolog.Event {
	return L().Error()
}

// With returns a child logger context.
func With() zerolog.Context {
	return L().With()
}

// journalWriter forwards each JSON encoded entry to journald with the
// matching syslog priority.
type journalWriter struct{}

func (journalWriter) Write(p []byte) (int, error) {
	return journalWriter{}.WriteLevel(zerolog.InfoLevel, p)
}

func (journalWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if err := journal.Send(string(p), priority(level), nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

func priority(level zerolog.Level) journal.Priority {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return journal.PriDebug
	case zerolog.WarnLevel:
		return journal.PriWarning
	case zerolog.ErrorLevel:
		return journal.PriErr
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return journal.PriCrit
	default:
		return journal.PriInfo
	}
}
