// Package logger configures the process-wide logrus logger.
//
// Debug and info lines go to stdout, warnings and errors go to stderr. In
// verbose mode the level drops to debug and every line carries a timestamp;
// otherwise only the message is printed. A log file, when configured, gets
// every line regardless of level split and is rotated by lumberjack.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"netorg/internal/config"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options controls logger setup
type Options struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// New builds a logger from the log configuration
func New(cfg config.LogConfig, opts Options) (*logrus.Logger, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	var formatter logrus.Formatter = &MessageFormatter{}
	if opts.Verbose {
		formatter = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableColors:   true,
		}
	}
	log.SetFormatter(formatter)

	log.AddHook(&writerHook{
		writer:    opts.Stdout,
		formatter: formatter,
		levels:    []logrus.Level{logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel},
	})
	log.AddHook(&writerHook{
		writer:    opts.Stderr,
		formatter: formatter,
		levels:    []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel},
	})

	if cfg.File != "" {
		path := config.ExpandHome(cfg.File)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		log.AddHook(&writerHook{
			writer: &lumberjack.Logger{
				Filename:   path,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   cfg.Compress,
			},
			formatter: &logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: timestampFormat,
				DisableColors:   true,
			},
			levels: logrus.AllLevels,
		})
	}

	return log, nil
}

// Init builds a logger and installs it as the logrus standard logger, which
// is what components fall back to when no logger is injected
func Init(cfg config.LogConfig, opts Options) (*logrus.Logger, error) {
	log, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}

	std := logrus.StandardLogger()
	std.SetOutput(io.Discard)
	std.SetLevel(log.GetLevel())
	std.SetFormatter(log.Formatter)
	std.ReplaceHooks(log.Hooks)
	return std, nil
}

// MessageFormatter prints the bare message, followed by any fields
type MessageFormatter struct{}

func (f *MessageFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(entry.Message)
	for k, v := range entry.Data {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// writerHook sends entries of the given levels to one writer
type writerHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func (h *writerHook) Levels() []logrus.Level {
	return h.levels
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}
