// Package log wraps the leveled backend every package in this module
// logs through. Masters and workers often share a terminal during
// development, so each record carries the emitting module name.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// Wrapper levels mapped onto the backend's.
var backendLevels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

// One line per record: time, abbreviated level, module, message.
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s} %{module}:%{color:reset} %{message}`,
)

var backend logging.LeveledBackend

// The subset of the backend's logger surface the module uses. Both the
// coordinator and the workers log through this.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a named logger. The name becomes the module field of every
// record the logger emits.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Redirect all loggers to a new sink. Resets verbosity to Notice.
func SetSink(sink io.Writer) {
	raw := logging.NewLogBackend(sink, "", 0)
	backend = logging.AddModuleLevel(logging.NewBackendFormatter(raw, format))
	backend.SetLevel(backendLevels[Notice], "")
	logging.SetBackend(backend)
}

// Set the verbosity of all loggers.
func SetLevel(level Level) {
	if lvl, known := backendLevels[level]; known {
		backend.SetLevel(lvl, "")
	}
}

func init() {
	SetSink(os.Stderr)
}
