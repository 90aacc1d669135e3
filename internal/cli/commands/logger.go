package commands

import (
	"os"

	"github.com/aki/hookrunner/internal/core/logger"
)

// createLogger builds the logger the global flags ask for. Logs go to
// stderr so stdout stays reserved for decisions and JSON output.
func createLogger() logger.Logger {
	opts := []logger.Option{
		logger.WithOutput(os.Stderr),
		logger.WithFormat(logger.FormatText),
	}

	switch {
	case flagDebug:
		opts = append(opts, logger.WithDebug())
	case flagQuiet:
		opts = append(opts, logger.WithQuiet())
	}

	return logger.New(opts...)
}
