package internal

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return logger
}

// InitLogging configures the package logger from config. Verbose enables
// debug output; quiet routes everything below error to /dev/null so stdio
// transports (MCP) stay clean.
func InitLogging(config *Config) {
	switch {
	case config.Verbose:
		log.SetLevel(logrus.DebugLevel)
	case config.Quiet:
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
}

// SetLogOutput redirects diagnostics, used by the MCP server to keep
// stdout reserved for the protocol.
func SetLogOutput(w io.Writer) {
	log.SetOutput(w)
}

// Logger exposes the package logger for commands that want structured fields.
func Logger() *logrus.Logger {
	return log
}
