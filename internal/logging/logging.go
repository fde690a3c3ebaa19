package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const EnvLogLevel = "ESIMTRACE_LOG_LEVEL"

// NewWithWriter returns a logger writing text to w at the given level.
// ESIMTRACE_LOG_LEVEL, when set to a valid level, takes precedence.
// Unknown levels fall back to info.
func NewWithWriter(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if env, err := ParseLevel(os.Getenv(EnvLogLevel)); err == nil {
		lvl = env
	}
	logger.SetLevel(lvl)
	return logger
}

// ParseLevel accepts the logrus level names plus off, none, disabled and
// quiet, which only let panics through.
func ParseLevel(raw string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return logrus.InfoLevel, fmt.Errorf("empty log level")
	case "off", "none", "disabled", "quiet":
		return logrus.PanicLevel, nil
	}
	return logrus.ParseLevel(strings.TrimSpace(raw))
}
