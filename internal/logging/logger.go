// Package logging provides the leveled, named logger used across bikeshare.
// Output goes to a rotating log file and, in verbose mode, to stderr;
// stdout is left to the interactive session.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/runnerr0/bikeshare/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05"

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the logging surface the rest of the module depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Named(name string) Logger
	With(key, value string) Logger
}

type logger struct {
	mu     *sync.Mutex
	out    io.Writer
	closer io.Closer
	name   string
	fields [][2]string
	level  Level
	json   bool
}

type entry struct {
	Timestamp string            `json:"timestamp"`
	Level     string            `json:"level"`
	Service   string            `json:"service,omitempty"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// New builds a logger from the logging config. When cfg.File is empty and
// verbose is false, logs are discarded. The returned close func releases the
// log file.
func New(cfg config.LoggingConfig, verbose bool) (Logger, func() error) {
	var writers []io.Writer
	var closer io.Closer

	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
		writers = append(writers, fileWriter)
		closer = fileWriter
	}

	if verbose {
		writers = append(writers, os.Stderr)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}

	level := ParseLevel(cfg.Level)
	if verbose {
		level = LevelDebug
	}

	l := &logger{
		mu:     &sync.Mutex{},
		out:    out,
		closer: closer,
		level:  level,
		json:   cfg.JSON,
	}

	return l, l.close
}

// NewWriter returns a logger writing to w at the given level. Used by tests
// and by callers that already own an output stream.
func NewWriter(w io.Writer, level Level, asJSON bool) Logger {
	return &logger{mu: &sync.Mutex{}, out: w, level: level, json: asJSON}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewWriter(io.Discard, LevelError+1, false)
}

func (l *logger) close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *logger) log(level Level, msg string, args ...any) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format(timeFormat)
	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.json {
		e := entry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.name,
			Message:   formatted,
		}
		if len(l.fields) > 0 {
			e.Fields = make(map[string]string, len(l.fields))
			for _, f := range l.fields {
				e.Fields[f[0]] = f[1]
			}
		}
		data, _ := json.Marshal(e)
		fmt.Fprintf(l.out, "%s\n", data)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s", timestamp, level)
	if l.name != "" {
		fmt.Fprintf(&b, " [%s]", l.name)
	}
	b.WriteString(" ")
	b.WriteString(formatted)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%s", f[0], f[1])
	}
	fmt.Fprintln(l.out, b.String())
}

func (l *logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// Named returns a child logger whose name is appended to the parent's.
func (l *logger) Named(name string) Logger {
	child := l.clone()
	if l.name == "" {
		child.name = name
	} else {
		child.name = l.name + "/" + name
	}
	return child
}

// With returns a child logger that appends key=value to every line.
func (l *logger) With(key, value string) Logger {
	child := l.clone()
	child.fields = append(child.fields, [2]string{key, value})
	return child
}

func (l *logger) clone() *logger {
	fields := make([][2]string, len(l.fields))
	copy(fields, l.fields)
	return &logger{
		mu:     l.mu,
		out:    l.out,
		name:   l.name,
		fields: fields,
		level:  l.level,
		json:   l.json,
	}
}
