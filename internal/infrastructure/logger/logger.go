// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures Log from LOG_LEVEL and LOG_FORMAT.
// Call it once from main.
func Init() {
	Log.SetLevel(levelFromEnv())

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Silence discards all output (tests, benchmarks).
func Silence() {
	Log.SetOutput(io.Discard)
}

func levelFromEnv() logrus.Level {
	raw, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
