package config

import (
	"github.com/rshade/footprint/internal/logging"
)

const outputTypeFile = "file"

// ToLoggingConfig converts the logging section into logging.Config. A
// configured file switches output to that file; otherwise logs go to
// stderr.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := "stderr"
	if lc.File != "" {
		output = outputTypeFile
	}

	format := lc.Format
	if format == "text" {
		format = "console"
	}

	return logging.Config{
		Level:  lc.Level,
		Format: format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global configuration's logging
// section. Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
