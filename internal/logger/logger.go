package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global logger. It stays nil until Init, and every helper
// below is a no-op until then.
var Logger *log.Logger

type Config struct {
	Debug   bool
	Console bool // also write to stderr; off while the TUI owns the terminal
	DataDir string
}

// Init opens a rotating log file under DataDir/logs.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.DataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "workpulse.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	var w io.Writer = fileWriter
	if cfg.Debug {
		level = log.DebugLevel
	}
	if cfg.Console {
		w = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "workpulse",
	})
	return nil
}

// Discard installs a logger that drops everything. Used by tests and by
// commands that must keep stderr clean.
func Discard() {
	Logger = log.New(io.Discard)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
