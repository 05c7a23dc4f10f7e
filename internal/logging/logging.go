// Package logging builds the leveled JSON loggers used across the service.
// It relies on gommon's logger, which is the same implementation Echo uses
// for e.Logger, so request logs and component logs share one format.
package logging

import (
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

// Logger is the subset of the gommon logger that components depend on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

const header = `{"time":"${time_rfc3339}","level":"${level}","component":"${prefix}","file":"${short_file}","line":"${line}"}`

// New returns a logger tagged with component and filtered at level
// ("debug", "info", "warn", "error" or "off"; unknown values mean info).
func New(component, level string) *log.Logger {
	l := log.New(component)
	l.SetHeader(header)
	l.SetLevel(ParseLevel(level))
	return l
}

// Discard returns a logger that drops everything.  Tests use it.
func Discard() *log.Logger {
	l := log.New("discard")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

// ParseLevel maps a level name onto gommon's levels.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off", "none":
		return log.OFF
	}
	return log.INFO
}
