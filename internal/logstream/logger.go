// Package logstream builds the structured log fan-out: every record is
// appended to an error-only sink and an all-levels sink, mirrored to the
// console, and pushed best-effort to live admin viewers through a Hub.
package logstream

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lantern/internal/correlation"
)

// Config controls the sinks and the verbosity floor
type Config struct {
	// Env switches the console encoding: colorized in development, JSON
	// elsewhere for log aggregators.
	Env string
	// Level is the verbosity floor for the combined sink, console, and
	// live channel. Empty means debug in development, info otherwise.
	Level string
	// Service tags every record
	Service string
	// Dir holds the durable sink files
	Dir string
	// ErrorFile receives error-and-above records
	ErrorFile string
	// CombinedFile receives everything at or above Level
	CombinedFile string
}

// New builds the fan-out logger. The returned cleanup flushes and closes
// the durable sinks.
func New(cfg Config, hub *Hub) (*zap.Logger, func(), error) {
	level := parseLevel(cfg.Level, cfg.Env)

	errorSink, err := openSink(cfg.Dir, cfg.ErrorFile)
	if err != nil {
		return nil, nil, err
	}
	combinedSink, err := openSink(cfg.Dir, cfg.CombinedFile)
	if err != nil {
		errorSink.Close()
		return nil, nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(errorSink), zap.ErrorLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(combinedSink), level),
		consoleCore(cfg.Env, encoderConfig, level),
	}
	if hub != nil {
		cores = append(cores, newHubCore(hub, zapcore.NewJSONEncoder(encoderConfig), level))
	}

	logger := zap.New(zapcore.NewTee(cores...)).
		With(zap.String("service", cfg.Service))

	cleanup := func() {
		_ = logger.Sync()
		_ = errorSink.Close()
		_ = combinedSink.Close()
	}
	return logger, cleanup, nil
}

// Ctx returns the logger annotated with the request's correlation id,
// when the context carries one.
func Ctx(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if ctx == nil {
		return logger
	}
	if id, ok := correlation.ID(ctx); ok {
		return logger.With(zap.String("correlationId", id))
	}
	return logger
}

func parseLevel(level, env string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	}
	if env == "development" {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func consoleCore(env string, encoderConfig zapcore.EncoderConfig, level zapcore.Level) zapcore.Core {
	if env == "development" {
		devConfig := zap.NewDevelopmentEncoderConfig()
		devConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewCore(zapcore.NewConsoleEncoder(devConfig), zapcore.AddSync(os.Stdout), level)
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level)
}

func openSink(dir, name string) (*os.File, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// hubCore is the live-channel leg of the fan-out: it encodes each record
// the same way the durable sinks do and hands it to the hub. It is the
// zap analogue of a custom transport.
type hubCore struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	hub *Hub
}

func newHubCore(hub *Hub, enc zapcore.Encoder, enabler zapcore.LevelEnabler) zapcore.Core {
	return &hubCore{LevelEnabler: enabler, enc: enc, hub: hub}
}

func (c *hubCore) With(fields []zapcore.Field) zapcore.Core {
	clone := c.enc.Clone()
	for _, f := range fields {
		f.AddTo(clone)
	}
	return &hubCore{LevelEnabler: c.LevelEnabler, enc: clone, hub: c.hub}
}

func (c *hubCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *hubCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	// The encoder buffer is pooled; copy before it is reused.
	record := make([]byte, buf.Len())
	copy(record, buf.Bytes())
	buf.Free()
	c.hub.Broadcast(record)
	return nil
}

func (c *hubCore) Sync() error { return nil }
