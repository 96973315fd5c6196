package configs

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging configures the standard logrus logger for JSON output. With
// LOG_FILE set the output is a size-rotated file.
func SetupLogging(cfg *Config) *log.Logger {
	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    32, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	logger := log.StandardLogger()
	logger.SetOutput(out)
	logger.SetLevel(parseLevel(cfg.LogLevel))
	logger.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	return logger
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
