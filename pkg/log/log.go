// Package log provides the structured logger shared across the tool, a
// thin wrapper over logrus matching pkg/log/log.go's dev/prod split —
// minus the GUI's hidden log file, since this is a batch command-line
// tool with nothing to hide output behind.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing JSON-formatted entries to stderr. Debug
// mode lowers the level to Debug and leaves output on stderr; non-debug
// mode logs only errors, matching newProductionLogger's level choice
// but without discarding output (there's no GUI to keep it out of).
func New(debug bool, version string) *logrus.Entry {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &logrus.JSONFormatter{}

	if debug || os.Getenv("DEBUG") == "TRUE" {
		logger.SetLevel(levelFromEnv())
	} else {
		logger.SetLevel(logrus.ErrorLevel)
	}

	return logger.WithFields(logrus.Fields{
		"debug":   debug,
		"version": version,
	})
}

func levelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

// Discard returns a logger that writes nowhere, for tests that need a
// *logrus.Entry but don't care about its output.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.Out = io.Discard
	return logrus.NewEntry(logger)
}
