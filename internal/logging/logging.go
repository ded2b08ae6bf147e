package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultLevel = "warn"

	LogFieldRunID        = "run_id"
	LogFieldEnvironment  = "environment"
	LogFieldDeploymentID = "deployment_id"
	LogFieldMethod       = "method"
	LogFieldPath         = "path"
	LogFieldStatus       = "status"
	LogFieldDuration     = "duration"
	LogFieldPage         = "page"
)

// New builds a human-readable zerolog logger writing to w. An empty level
// falls back to DefaultLevel.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger(), nil
}
