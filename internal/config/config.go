// Package config reads the settings of a completion run from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/e4s-project/e4s-cl-completion/internal/core"
	"go.uber.org/zap"
)

// Environment variables read by FromEnv.
const (
	LineVar     = "COMP_LINE"
	PointVar    = "COMP_POINT"
	CommandVar  = "E4S_CL_COMPLETION_COMMAND"
	GrammarVar  = "E4S_CL_COMPLETION_GRAMMAR"
	ProfilesVar = "E4S_CL_COMPLETION_PROFILES"
	LogVar      = "E4S_CL_COMPLETION_LOG"
	LogLevelVar = "E4S_CL_COMPLETION_LOG_LEVEL"
	DebugVar    = "E4S_CL_COMPLETION_DEBUG"
)

const (
	DefaultCommand  = "e4s-cl"
	defaultLogLevel = zap.DebugLevel
)

// Config holds the settings of one completion run.
type Config struct {
	// Line is the command line being completed; HasLine is false when bash
	// did not invoke us for completion.
	Line    string
	HasLine bool
	// Point is the cursor byte offset in Line, or -1 when unknown.
	Point int

	// CommandName is the command the completion is registered for.
	CommandName string
	// GrammarFile overrides the embedded grammar when set.
	GrammarFile      string
	ProfileStoreFile string

	// LogFile receives the logs; logging is off when empty.
	LogFile  string
	LogLevel zap.AtomicLevel
}

// DefaultConfig returns the settings used when the environment sets nothing.
func DefaultConfig() *Config {
	return &Config{
		Point:            -1,
		CommandName:      DefaultCommand,
		ProfileStoreFile: core.ProfileStoreFile(),
		LogLevel:         zap.NewAtomicLevelAt(defaultLogLevel),
	}
}

// FromEnv builds a Config from the variables returned by lookup. Invalid
// values are reported in the returned errors and replaced by defaults.
func FromEnv(lookup func(string) (string, bool)) (*Config, []error) {
	cfg := DefaultConfig()
	var errs []error

	cfg.Line, cfg.HasLine = lookup(LineVar)

	if value, ok := lookup(PointVar); ok && value != "" {
		point, err := strconv.Atoi(strings.TrimSpace(value))
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", PointVar, value, err))
		case point < 0:
			errs = append(errs, fmt.Errorf("invalid %s %q: negative offset", PointVar, value))
		default:
			cfg.Point = point
		}
	}

	if value, ok := lookup(CommandVar); ok && value != "" {
		cfg.CommandName = value
	}
	if value, ok := lookup(GrammarVar); ok {
		cfg.GrammarFile = value
	}
	if value, ok := lookup(ProfilesVar); ok && value != "" {
		cfg.ProfileStoreFile = value
	}

	if value, ok := lookup(LogVar); ok && value != "" {
		cfg.LogFile = value
	} else if value, ok := lookup(DebugVar); ok && isTruthy(value) {
		cfg.LogFile = core.LogFile()
	}

	if value, ok := lookup(LogLevelVar); ok && value != "" {
		level, err := zap.ParseAtomicLevel(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", LogLevelVar, err))
		} else {
			cfg.LogLevel = level
		}
	}

	return cfg, errs
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
