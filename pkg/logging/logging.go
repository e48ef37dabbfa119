// Package logging provides the shared logrus logger used by every package.
// Packages obtain a named entry once and log through it; the CLI sets the
// level for all of them with SetLevel.
package logging

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// AvailableLevels lists the accepted level names, most severe first.
var AvailableLevels = []string{"panic", "fatal", "error", "warn", "info", "debug", "trace"}

var root = &logrus.Logger{
	Out: os.Stderr,
	Formatter: &callerFormatter{
		TextFormatter: logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
			// the caller goes into the message prefix, not into func/file fields
			CallerPrettyfier: func(*runtime.Frame) (string, string) { return "", "" },
		},
	},
	Hooks:        make(logrus.LevelHooks),
	Level:        logrus.InfoLevel,
	ReportCaller: true,
}

// NamedLogger returns an entry tagged with the component name.
func NamedLogger(name string) *logrus.Entry {
	return root.WithField("component", name)
}

// SetLevel changes the level of the shared logger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid logging level %q, expected one of: %s",
			level, strings.Join(AvailableLevels, ", "))
	}
	root.SetLevel(lvl)
	return nil
}

// Level reports the current level of the shared logger.
func Level() logrus.Level {
	return root.GetLevel()
}

// callerFormatter prefixes each message with the file and line that logged
// it. logrus resolves entry.Caller past its own frames, so the prefix is
// right for every Entry method.
type callerFormatter struct {
	logrus.TextFormatter
}

// Format renders a single log entry.
func (f *callerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Message = fmt.Sprintf("[%s:%03d] %s", path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)
	}
	return f.TextFormatter.Format(entry)
}
