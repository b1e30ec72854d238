package types

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFrom returns the context logger, or one that discards everything.
func LoggerFrom(ctx context.Context) logrus.FieldLogger {
	if v := ctx.Value(loggerKey{}); v != nil {
		if l, ok := v.(logrus.FieldLogger); ok && l != nil {
			return l
		}
	}
	return discard
}

// LogFailure writes a debug line for an error that a stage is about to swallow.
func LogFailure(ctx context.Context, stage string, err error) {
	LoggerFrom(ctx).WithFields(logrus.Fields{
		"stage": stage,
		"kind":  Kind(err),
	}).Debugf("%s: %v", stage, err)
}
