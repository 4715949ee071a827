// Package debug configures the diagnostic log written to stderr.
package debug

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/glbpack/internal/errors"
)

// EnvLevel names the environment variable holding the default log level.
const EnvLevel = "GLBPACK_LOG_LEVEL"

// DefaultLevel is used when neither a flag nor the environment set a level.
const DefaultLevel = "warn"

// LevelFromEnv returns the log level configured in the environment, or
// DefaultLevel.
func LevelFromEnv() string {
	if s := strings.TrimSpace(os.Getenv(EnvLevel)); s != "" {
		return s
	}
	return DefaultLevel
}

// Setup sends the standard logrus logger to w with the given level.
func Setup(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
	return nil
}
