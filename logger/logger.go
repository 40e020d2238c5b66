// Package logger is the structured key-value logger shared by the server and the study client.
package logger

import (
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[redacted]"

var secretKeys = []string{"password", "token", "api_key", "apikey", "authorization", "secret"}

type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a JSON logger at info level for "prod"/"production" and a console logger at
// debug level otherwise.
func New(mode string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if m := strings.ToLower(mode); m == "prod" || m == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar().With("app", "smartstudy")}, nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() { _ = l.sugar.Sync() }

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, redact(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, redact(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, redact(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, redact(kv)...) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, kv ...any) { l.sugar.Fatalw(msg, redact(kv)...) }

// With returns a child logger that adds kv to every entry.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.sugar.With(redact(kv)...)}
}

// redact replaces the value of any pair whose key names a credential. A trailing key
// without a value is passed through for zap to report.
func redact(kv []any) []any {
	out := append([]any(nil), kv...)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && isSecret(key) {
			out[i+1] = redacted
		}
	}
	return out
}

func isSecret(key string) bool {
	key = strings.ToLower(key)
	return lo.ContainsBy(secretKeys, func(s string) bool { return strings.Contains(key, s) })
}
