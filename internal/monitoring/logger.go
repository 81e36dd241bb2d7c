// Package monitoring holds the diagnostic logger shared by the peripheral
// packages (loaders, pipeline, reports and the CLI).
package monitoring

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

// Logf is the package-level diagnostic logger. It defaults to the logrus
// logger's Infof but may be replaced by SetLogger. Tests or production code
// can redirect or mute it.
var Logf func(format string, v ...interface{}) = logger.Infof

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Logger returns the logrus logger that backs the default Logf.
func Logger() *logrus.Logger {
	return logger
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Configure sets the level and output format of the logrus backend and
// points Logf back at it. level is any name accepted by logrus.ParseLevel;
// an empty level keeps the current one.
func Configure(level string, json bool) error {
	if level = strings.TrimSpace(level); level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		logger.SetLevel(lvl)
	}
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	Logf = logger.Infof
	return nil
}

// Debugf logs at debug level through the logrus backend. It is not routed
// through Logf, so muting Logf does not affect it.
func Debugf(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}
