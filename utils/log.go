package utils

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrUnknownLogLevel = fmt.Errorf(
	"unknown log level (known: %s, %s, %s, %s, %s)",
	TRACE, DEBUG, INFO, WARN, ERROR,
)

type Level int8

const (
	TRACE Level = iota - 2
	DEBUG
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case TRACE:
		return "trace"
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int8(l))
	}
}

// LogLevel is an atomically adjustable level shared by every logger built from it
type LogLevel struct {
	atomicLevel zap.AtomicLevel
}

// The following are necessary for Cobra and Viper, respectively, to unmarshal log level
// CLI/config parameters properly.
var (
	_ pflag.Value              = (*LogLevel)(nil)
	_ encoding.TextUnmarshaler = (*LogLevel)(nil)
)

func NewLogLevel(level Level) *LogLevel {
	return &LogLevel{atomicLevel: zap.NewAtomicLevelAt(zapcore.Level(level))}
}

func (l *LogLevel) GetAtomicLevel() zap.AtomicLevel {
	return l.atomicLevel
}

func (l *LogLevel) Level() Level {
	return Level(l.atomicLevel.Level())
}

func (l *LogLevel) String() string {
	return l.Level().String()
}

func (l LogLevel) MarshalYAML() (any, error) {
	return l.String(), nil
}

func (l *LogLevel) MarshalJSON() ([]byte, error) {
	return json.RawMessage(`"` + l.String() + `"`), nil
}

func (l *LogLevel) Set(s string) error {
	var level Level
	switch strings.ToLower(s) {
	case "trace":
		level = TRACE
	case "debug":
		level = DEBUG
	case "info":
		level = INFO
	case "warn":
		level = WARN
	case "error":
		level = ERROR
	default:
		return ErrUnknownLogLevel
	}
	if l.atomicLevel == (zap.AtomicLevel{}) {
		l.atomicLevel = zap.NewAtomicLevelAt(zapcore.Level(level))
		return nil
	}
	l.atomicLevel.SetLevel(zapcore.Level(level))
	return nil
}

func (l *LogLevel) Type() string {
	return "LogLevel"
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	return l.Set(string(text))
}

type SimpleLogger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type StructuredLogger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

type Logger interface {
	SimpleLogger
	StructuredLogger
	Trace(msg string, fields ...zap.Field)
	IsTraceEnabled() bool
}

type ZapLogger struct {
	*zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

func NewNopZapLogger() *ZapLogger {
	return &ZapLogger{zap.NewNop()}
}

func NewZapLogger(logLevel *LogLevel, colour bool) (*ZapLogger, error) {
	config := zap.NewProductionConfig()
	config.Sampling = nil
	config.Encoding = "console"
	config.EncoderConfig.EncodeLevel = capitalLevelEncoder(colour)
	config.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("15:04:05.000 02/01/2006 -07:00"))
	}
	config.Level = logLevel.GetAtomicLevel()
	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{log}, nil
}

func capitalLevelEncoder(colour bool) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if Level(l) == TRACE {
			if colour {
				// cyan
				enc.AppendString("\x1b[36mTRACE\x1b[0m")
			} else {
				enc.AppendString("TRACE")
			}
			return
		}
		if colour {
			zapcore.CapitalColorLevelEncoder(l, enc)
			return
		}
		zapcore.CapitalLevelEncoder(l, enc)
	}
}

func (l *ZapLogger) IsTraceEnabled() bool {
	return l.Core().Enabled(zapcore.Level(TRACE))
}

func (l *ZapLogger) Trace(msg string, fields ...zap.Field) {
	if ce := l.Check(zapcore.Level(TRACE), msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *ZapLogger) Debugw(msg string, keysAndValues ...any) {
	l.Sugar().Debugw(msg, keysAndValues...)
}

func (l *ZapLogger) Infow(msg string, keysAndValues ...any) {
	l.Sugar().Infow(msg, keysAndValues...)
}

func (l *ZapLogger) Warnw(msg string, keysAndValues ...any) {
	l.Sugar().Warnw(msg, keysAndValues...)
}

func (l *ZapLogger) Errorw(msg string, keysAndValues ...any) {
	l.Sugar().Errorw(msg, keysAndValues...)
}

// Infof, Errorf and Fatalf let the logger back pebble's logging
func (l *ZapLogger) Infof(format string, args ...any) {
	l.Sugar().Infof(format, args...)
}

func (l *ZapLogger) Errorf(format string, args ...any) {
	l.Sugar().Errorf(format, args...)
}

func (l *ZapLogger) Fatalf(format string, args ...any) {
	l.Sugar().Fatalf(format, args...)
}

// Named returns a child logger whose entries carry the given component name
func (l *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{l.Logger.Named(name)}
}

// HTTPLogSettings serves GET (current level) and PUT ?level=<level> (change level)
func HTTPLogSettings(w http.ResponseWriter, r *http.Request, logLevel *LogLevel) {
	switch r.Method {
	case http.MethodGet:
		fmt.Fprint(w, logLevel.String()+"\n")
	case http.MethodPut:
		levelStr := r.URL.Query().Get("level")
		if levelStr == "" {
			http.Error(w, "missing level query parameter", http.StatusBadRequest)
			return
		}

		err := logLevel.Set(levelStr)
		if err != nil {
			if errors.Is(err, ErrUnknownLogLevel) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		fmt.Fprint(w, "Replaced log level with '", levelStr, "' successfully\n")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
