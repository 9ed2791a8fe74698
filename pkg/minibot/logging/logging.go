// Package logging provides component loggers backed by a rotating log file.
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logging.Get("scanner").Info("scan started", "root", "/home/user")
//
// Loggers obtained before Init discard everything, so library code can log
// unconditionally.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level is a logging severity.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lower-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when a level string is not recognised.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses debug, info, warn (or warning) and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Config configures the logging system.
type Config struct {
	// Level is the default level for every component.
	Level string

	// Path is the log file. Empty uses DefaultLogPath().
	Path string

	Rotation RotationConfig

	// Components overrides Level per component name.
	Components map[string]string

	// ConsoleLevel mirrors records at or above this level to stderr.
	// Empty disables console output.
	ConsoleLevel string

	// Interactive suppresses console output while a full-screen view or
	// prompt session owns the terminal.
	Interactive bool
}

// Logger is a component-scoped logger. It is safe for concurrent use and
// picks up reconfiguration by Init and Close.
type Logger struct {
	component string
	sinks     atomic.Pointer[sinks]
}

type sinks struct {
	file    *log.Logger
	console *log.Logger
}

func newLogger(component string, s *sinks) *Logger {
	l := &Logger{component: component}
	l.sinks.Store(s)
	return l
}

// Component returns the component name the logger was created for.
func (l *Logger) Component() string { return l.component }

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) { l.emit(LevelDebug, msg, keyvals) }

// Info logs an info message.
func (l *Logger) Info(msg string, keyvals ...any) { l.emit(LevelInfo, msg, keyvals) }

// Warn logs a warning.
func (l *Logger) Warn(msg string, keyvals ...any) { l.emit(LevelWarn, msg, keyvals) }

// Error logs an error.
func (l *Logger) Error(msg string, keyvals ...any) { l.emit(LevelError, msg, keyvals) }

func (l *Logger) emit(level Level, msg string, keyvals []any) {
	s := l.sinks.Load()
	s.file.Log(level.charm(), msg, keyvals...)
	if s.console != nil {
		s.console.Log(level.charm(), msg, keyvals...)
	}
}

// With returns a logger that adds keyvals to every record. The derived
// logger keeps the configuration current at the time of the call.
func (l *Logger) With(keyvals ...any) *Logger {
	s := l.sinks.Load()
	out := &sinks{file: s.file.With(keyvals...)}
	if s.console != nil {
		out.console = s.console.With(keyvals...)
	}
	return newLogger(l.component, out)
}

type registry struct {
	mu         sync.RWMutex
	ready      bool
	writer     *RotatingWriter
	level      Level
	components map[string]Level
	console    *Level
	loggers    map[string]*Logger
}

var global = &registry{
	components: map[string]Level{},
	loggers:    map[string]*Logger{},
}

// Init opens the log file and reconfigures every logger handed out so far.
// Calling Init again replaces the previous configuration.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]Level, len(cfg.Components))
	for name, raw := range cfg.Components {
		lvl, err := ParseLevel(raw)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", name, err)
		}
		components[name] = lvl
	}

	var console *Level
	if cfg.ConsoleLevel != "" && !cfg.Interactive {
		lvl, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
		console = &lvl
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer != nil {
		_ = global.writer.Close()
	}

	global.ready = true
	global.writer = writer
	global.level = level
	global.components = components
	global.console = console

	for name, l := range global.loggers {
		l.sinks.Store(global.build(name))
	}

	return nil
}

// Get returns the logger for component, creating it on first use.
func Get(component string) *Logger {
	global.mu.RLock()
	l, ok := global.loggers[component]
	global.mu.RUnlock()
	if ok {
		return l
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if l, ok := global.loggers[component]; ok {
		return l
	}
	l = newLogger(component, global.build(component))
	global.loggers[component] = l
	return l
}

// build creates the sinks for component. Caller holds r.mu.
func (r *registry) build(component string) *sinks {
	level := r.level
	if override, ok := r.components[component]; ok {
		level = override
	}

	if !r.ready {
		return &sinks{file: log.NewWithOptions(io.Discard, log.Options{Prefix: component})}
	}

	s := &sinks{
		file: log.NewWithOptions(r.writer, log.Options{
			Level:           level.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          component,
		}),
	}

	if r.console != nil {
		s.console = log.NewWithOptions(os.Stderr, log.Options{
			Level:           r.console.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          component,
		})
	}

	return s
}

// Close closes the log file. Loggers keep working but discard output.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.ready {
		return nil
	}

	var err error
	if global.writer != nil {
		err = global.writer.Close()
		global.writer = nil
	}

	global.ready = false
	global.components = map[string]Level{}
	global.console = nil
	for name, l := range global.loggers {
		l.sinks.Store(global.build(name))
	}

	if err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// DefaultLogPath returns $XDG_STATE_HOME/minibot/minibot.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "minibot", "minibot.log")
}
