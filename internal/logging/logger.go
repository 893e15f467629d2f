// Package logging holds the logging contract shared by the spyglass
// consumers and its zap/logr backend.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Logger is the minimal logging contract. Packages depend on this instead of
// a concrete backend.
type Logger interface {
	Logf(format string, args ...any)
}

// NewLogf returns a safe log function.
// If l is nil, it returns a no-op func.
func NewLogf(l Logger) func(string, ...any) {
	if l == nil {
		return func(string, ...any) {}
	}
	return l.Logf
}

type logrLogger struct {
	l logr.Logger
}

// FromLogr adapts a logr.Logger to Logger. Messages are logged at info level
// with the formatted text as the message.
func FromLogr(l logr.Logger) Logger {
	return logrLogger{l: l}
}

func (a logrLogger) Logf(format string, args ...any) {
	a.l.Info(fmt.Sprintf(format, args...))
}

// NewZap builds a zap-backed logr.Logger. development switches to the
// console encoder with debug level enabled.
func NewZap(development bool) (logr.Logger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if development {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return logr.Discard(), fmt.Errorf("build zap logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}
