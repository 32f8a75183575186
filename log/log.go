package log

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/silinternational/assetcover-api/domain"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	if domain.Env.GoEnv == domain.EnvDevelopment {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if hook := NewSentryHook(domain.Env.GoEnv); hook != nil {
		logger.AddHook(hook)
	}
}

// SetOutput redirects log output, used by tests to keep output quiet
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func WithContext(ctx context.Context) *logrus.Entry {
	return logger.WithContext(ctx)
}

func WithFields(fields map[string]any) *logrus.Entry {
	return logger.WithFields(fields)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}
