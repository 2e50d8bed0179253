// Package logging builds the application's zap logger.
//
// The TUI owns stdout while it runs, so log output goes to a rotated JSON
// file. A console core can be teed in for the non-interactive commands.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how much the application logs.
type Config struct {
	FilePath string
	Level    zapcore.Level
	Console  bool

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig logs at info level to ~/.studyguide/studyguide.log.
func DefaultConfig() Config {
	path := "studyguide.log"
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, ".studyguide", "studyguide.log")
	}
	return Config{
		FilePath:   path,
		Level:      zapcore.InfoLevel,
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// LoadConfig reads logging configuration from environment variables,
// falling back to defaults for any unset or invalid values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STUDYGUIDE_LOG_FILE"); v != "" {
		cfg.FilePath = v
	}
	if v := os.Getenv("STUDYGUIDE_LOG_LEVEL"); v != "" {
		if lvl, err := zapcore.ParseLevel(v); err == nil {
			cfg.Level = lvl
		}
	}
	if v := os.Getenv("STUDYGUIDE_LOG_CONSOLE"); v != "" {
		cfg.Console, _ = strconv.ParseBool(v)
	}

	return cfg
}

// New creates a logger writing JSON lines to a lumberjack-rotated file.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		cfg.Level,
	)

	if cfg.Console {
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			cfg.Level,
		)
		core = zapcore.NewTee(core, consoleCore)
	}

	return zap.New(core, zap.AddCaller()), nil
}
