package database

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Level is a logging severity. Higher is more severe; a message is emitted
// when its level is at least the logger's threshold.
type Level int

const (
	LevelOff     Level = 0
	LevelInfo    Level = 200
	LevelNotice  Level = 250
	LevelWarning Level = 300
	LevelError   Level = 400
)

var levelNames = map[Level]string{
	LevelOff:     "OFF",
	LevelInfo:    "INFO",
	LevelNotice:  "NOTICE",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
}

// ParseLevel maps a level name (case-insensitive) onto a Level.
func ParseLevel(name string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == upper {
			return level, nil
		}
	}
	return LevelOff, errors.Errorf("unknown log level %q", name)
}

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

func (l Level) logrus() log.Level {
	switch l {
	case LevelInfo:
		return log.DebugLevel
	case LevelNotice:
		return log.InfoLevel
	case LevelWarning:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// Logger filters messages by the engine's levels and forwards them to logrus.
// Messages above NOTICE may also be flagged for display once the page is set
// up; pageReady reports that.
type Logger struct {
	mu        sync.RWMutex
	level     Level
	display   bool
	out       *log.Logger
	pageReady func() bool
}

// NewLogger returns a Logger writing to out with threshold ERROR. A nil out
// uses the logrus standard logger; a nil pageReady never displays.
func NewLogger(out *log.Logger, pageReady func() bool) *Logger {
	if out == nil {
		out = log.StandardLogger()
	}
	return &Logger{level: LevelError, out: out, pageReady: pageReady}
}

// SetLevel sets the threshold. LevelOff silences the logger.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetLevelName sets the threshold by name.
func (l *Logger) SetLevelName(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.SetLevel(level)
	return nil
}

func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetDisplay flags WARNING and ERROR messages for display to the user.
func (l *Logger) SetDisplay(display bool) {
	l.mu.Lock()
	l.display = display
	l.mu.Unlock()
}

// Log emits msg at level and reports whether it was written. The message
// must pass both the engine threshold and the logrus logger's own level.
// A zero level means NOTICE.
func (l *Logger) Log(msg string, level Level) bool {
	return l.log(level, msg, nil)
}

func (l *Logger) Error(msg string) bool  { return l.log(LevelError, msg, nil) }
func (l *Logger) Warn(msg string) bool   { return l.log(LevelWarning, msg, nil) }
func (l *Logger) Notice(msg string) bool { return l.log(LevelNotice, msg, nil) }
func (l *Logger) Info(msg string) bool   { return l.log(LevelInfo, msg, nil) }

// Dump writes data at ERROR severity regardless of the threshold.
func (l *Logger) Dump(data any, display bool) {
	l.emit(LevelError, fmt.Sprintf("%+v", data), display, nil)
}

func (l *Logger) log(level Level, msg string, fields log.Fields) bool {
	if level == LevelOff {
		level = LevelNotice
	}
	if _, ok := levelNames[level]; !ok {
		return false
	}
	l.mu.RLock()
	threshold, display := l.level, l.display
	l.mu.RUnlock()
	if threshold == LevelOff || level < threshold {
		return false
	}
	if !l.out.IsLevelEnabled(level.logrus()) {
		return false
	}
	l.emit(level, msg, display && level > LevelNotice, fields)
	return true
}

func (l *Logger) emit(level Level, msg string, display bool, fields log.Fields) {
	if display && (l.pageReady == nil || !l.pageReady()) {
		display = false
	}
	entry := l.out.WithField("severity", level.String())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	if display {
		entry = entry.WithField("display", true)
	}
	entry.Log(level.logrus(), msg)
}
