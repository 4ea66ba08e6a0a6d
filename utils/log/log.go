package log

import (
	"log/slog"
	"os"
	"sync"

	gormlogger "gorm.io/gorm/logger"
)

var (
	mu           sync.RWMutex
	gormLogLevel = gormlogger.Silent
)

// SetupGlobalLogger 初始化全局 slog（文本格式，输出到 stderr）
func SetupGlobalLogger(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// SetGormLogLevel 设置 gorm 的日志级别，dbcore 初始化时读取
func SetGormLogLevel(level gormlogger.LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	gormLogLevel = level
}

// GormLogLevel 返回当前 gorm 日志级别
func GormLogLevel() gormlogger.LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return gormLogLevel
}
