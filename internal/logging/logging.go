package logging

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/tally/internal/config"
)

// Setup builds the diagnostic logger writing to out. Commands pass their
// stderr so logs never mix with menu and table output on stdout.
func Setup(out io.Writer, cfg config.LogConfig) *logrus.Logger {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	if cfg.JSON {
		formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		}
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(formatter)
	logger.SetLevel(level)
	return logger
}
