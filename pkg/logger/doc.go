// Package logger provides the structured logging interface used across
// socialharvest.
//
// It wraps zerolog with a small interface so components can take a Logger
// in their constructors and tests can substitute NewTestLogger or
// NewNopLogger:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("platform", "discord")
//	log.InfoWithFields("Server scraped", map[string]interface{}{
//	    "channels": 14,
//	    "members":  230,
//	})
//
// Console output is colored and written to stderr. Setting logging.file
// additionally appends JSON lines to that file.
package logger
