// Package logging はcharmbracelet/logをラップしたアプリケーション共通のロガーを提供します。
package logging

import (
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
}

var (
	logger *Logger
	mu     sync.Mutex
)

// Setup はロガーを初期化します。debugが真の場合は呼び出し元とタイムスタンプも出力します。
func Setup(w io.Writer, debug bool) *Logger {
	mu.Lock()
	defer mu.Unlock()

	var base *log.Logger
	if debug {
		base = log.NewWithOptions(w, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			Prefix:          "calheat",
		})
		base.SetLevel(log.DebugLevel)
	} else {
		base = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
		})
		base.SetLevel(log.InfoLevel)
	}

	logger = &Logger{Logger: base}
	return logger
}

// Debug logs debug messages if debug logging is enabled.
func Debug(msg interface{}, keyvals ...interface{}) {
	GetLogger().Debug(msg, keyvals...)
}

// Info logs informational messages.
func Info(msg interface{}, keyvals ...interface{}) {
	GetLogger().Info(msg, keyvals...)
}

// Warn logs warning messages.
func Warn(msg interface{}, keyvals ...interface{}) {
	GetLogger().Warn(msg, keyvals...)
}

// Error logs error messages.
func Error(msg interface{}, keyvals ...interface{}) {
	GetLogger().Error(msg, keyvals...)
}

// debugFromEnv reads CALHEAT_DEBUG the same way config does.
func debugFromEnv() bool {
	debug, err := strconv.ParseBool(os.Getenv("CALHEAT_DEBUG"))
	return err == nil && debug
}

// GetLogger returns the Logger instance, creating a default one on first use.
func GetLogger() *Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return Setup(os.Stderr, debugFromEnv())
	}
	return l
}
