// Package log sets up the dlog logger used by the turnstile command and its
// workloads.
package log

import (
	"context"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "15:04:05.0000"

// MakeBaseLogger returns a context whose dlog logger writes through logrus at
// the given level. An unknown or empty level falls back to info.
func MakeBaseLogger(ctx context.Context, logLevel string) context.Context {
	logrusLogger := logrus.StandardLogger()
	logrusLogger.SetFormatter(NewFormatter(timestampFormat))
	SetLevel(logrusLogger, logLevel)

	logger := dlog.WrapLogrus(logrusLogger)
	dlog.SetFallbackLogger(logger)
	return dlog.WithLogger(ctx, logger)
}

// SetLevel sets the level of logrusLogger from its name, logging an error and
// using info if the name does not parse.
func SetLevel(logrusLogger *logrus.Logger, logLevel string) {
	const defaultLevel = logrus.InfoLevel
	level := defaultLevel
	if logLevel != "" {
		var err error
		if level, err = logrus.ParseLevel(logLevel); err != nil {
			level = defaultLevel
			logrusLogger.Errorf("%v, falling back to default %q", err, level)
		}
	}
	logrusLogger.SetLevel(level)
}
