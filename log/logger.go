package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const DefaultTimeFormat = "2006-01-02 15:04:05"

// exit terminates the process after a Fatal message.
var exit = os.Exit

// Logger writes leveled lines for one component. Loggers derived through
// Named share the writer and serialize their writes on it, since completions
// are logged from pool workers and the loop goroutine at the same time.
type Logger struct {
	writer io.Writer
	mu     *sync.Mutex

	Name  string
	Level LogLevel

	TimeFormat string
	File       string
	NoColor    bool
	JSON       bool
	NoTerminal bool
	Rotation   *LoggerRotation
}

type LoggerRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

// NewLogger writes to stderr unless noTerminal is set, and additionally into
// a rotated file when file is not empty.
func NewLogger(name string, level LogLevel, file string, noTerminal bool) *Logger {
	l := &Logger{
		mu:         &sync.Mutex{},
		Name:       name,
		Level:      level,
		File:       file,
		NoTerminal: noTerminal,
		TimeFormat: DefaultTimeFormat,
		Rotation: &LoggerRotation{
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
		},
	}
	l.writer = l.openWriter()
	return l
}

// NewWriterLogger creates a logger that writes uncolored lines into w.
func NewWriterLogger(name string, level LogLevel, w io.Writer) *Logger {
	return &Logger{
		writer:     w,
		mu:         &sync.Mutex{},
		Name:       name,
		Level:      level,
		TimeFormat: DefaultTimeFormat,
		NoColor:    true,
		NoTerminal: true,
	}
}

// NewDiscardLogger returns a logger that drops everything.
func NewDiscardLogger() *Logger {
	return NewWriterLogger("", Fatal+1, io.Discard)
}

func (l *Logger) openWriter() io.Writer {
	var writers []io.Writer
	if !l.NoTerminal {
		writers = append(writers, os.Stderr)
	}

	if l.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   l.File,
			MaxSize:    l.Rotation.MaxSize,
			MaxBackups: l.Rotation.MaxBackups,
			MaxAge:     l.Rotation.MaxAge,
			Compress:   l.Rotation.Compress,
		})
	}

	switch len(writers) {
	case 0:
		return os.Stderr
	case 1:
		return writers[0]
	default:
		return io.MultiWriter(writers...)
	}
}

// Enabled reports whether messages of the given level are written.
func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.Level
}

func (l *Logger) colored() bool {
	return !l.NoTerminal && !l.NoColor && !l.JSON
}

// format renders one complete line, including the trailing newline.
func (l *Logger) format(now time.Time, level LogLevel, msg string) []byte {
	timestamp := now.Format(l.TimeFormat)

	if l.JSON {
		line, err := json.Marshal(logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.Name,
			Message:   msg,
		})
		if err != nil {
			line = fmt.Appendf(nil, `{"level":"ERROR","message":%q}`, err.Error())
		}
		return append(line, '\n')
	}

	var buf bytes.Buffer
	if l.colored() {
		buf.WriteString(Color(level))
	}
	fmt.Fprintf(&buf, "[%s] %-5s", timestamp, level)
	if l.Name != "" {
		fmt.Fprintf(&buf, " [%s]", l.Name)
	}
	buf.WriteByte(' ')
	buf.WriteString(msg)
	if l.colored() {
		buf.WriteString(colorReset)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	line := l.format(time.Now(), level, fmt.Sprintf(msg, args...))
	if l.mu != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	_, _ = l.writer.Write(line)

	if level == Fatal {
		exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

// Fatal writes the message and exits the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}

func (l *Logger) clone() *Logger {
	c := *l
	if c.mu == nil {
		c.mu = &sync.Mutex{}
	}
	return &c
}

// Named returns a child logger sharing the writer, with name appended to the service path.
func (l *Logger) Named(name string) *Logger {
	c := l.clone()
	if l.Name != "" {
		c.Name = l.Name + "/" + name
	} else {
		c.Name = name
	}
	return c
}
