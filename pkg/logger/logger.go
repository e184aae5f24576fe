package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogInfo 日志实例
type LogInfo struct {
	log   *zap.Logger
	debug *debugFlag
}

// debugFlag 由父 logger 與 With 產生的子 logger 共用
type debugFlag struct {
	mu      sync.Mutex
	enabled bool
}

func (d *debugFlag) get() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

func (d *debugFlag) set(status bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = status
}

var (
	// Log 日志实例
	Log = NewNop()
)

// Initialize 按日期分文件的日志初始化
func Initialize(serviceName, logDir string) *LogInfo {
	l := &LogInfo{debug: &debugFlag{}}

	if logDir == "" {
		logDir = "./logs"
	}
	// 确保日志目录存在
	if err := os.MkdirAll(logDir, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create log directory: %v", err))
	}

	// 每日日志文件名
	logFile := filepath.Join(logDir, fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02")))

	// INFO ~ ERROR: JSON 輸出到控制台與檔案
	infoErrorCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.NewMultiWriteSyncer(
			zapcore.AddSync(os.Stdout),
			getFileWriter(logFile),
		),
		zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level >= zap.InfoLevel && level <= zap.ErrorLevel && level != zap.WarnLevel
		}),
	)

	// DEBUG: 僅控制台，根據 debug flag 控制
	debugCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stdout),
		zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level == zapcore.DebugLevel && l.debug.get()
		}),
	)

	// WARN: 僅控制台
	warnCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stdout),
		zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level == zapcore.WarnLevel
		}),
	)

	core := zapcore.NewTee(infoErrorCore, debugCore, warnCore)
	l.log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("service", serviceName))

	return l
}

// NewNop 不輸出任何內容的 logger
func NewNop() *LogInfo {
	return &LogInfo{log: zap.NewNop(), debug: &debugFlag{}}
}

// SetNewNop 測試時停用 log 輸出
func SetNewNop() {
	Log = NewNop()
}

type ctxKey struct{}

// NewContext 將 request 範圍的 logger 放進 context
func NewContext(ctx context.Context, l *LogInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext 取出 request 範圍的 logger，沒有時回傳全域 Log
func FromContext(ctx context.Context) *LogInfo {
	if l, ok := ctx.Value(ctxKey{}).(*LogInfo); ok && l != nil {
		return l
	}
	return Log
}

// getFileWriter 返回日志文件的 WriteSyncer
func getFileWriter(logFile string) zapcore.WriteSyncer {
	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		panic(fmt.Sprintf("Failed to open or create log file: %v", err))
	}
	return zapcore.AddSync(file)
}

// With 帶固定欄位的子 logger（例如 request id），共用 debug 開關
func (l *LogInfo) With(fields ...zap.Field) *LogInfo {
	return &LogInfo{log: l.log.With(fields...), debug: l.debug}
}

// SetDebugMode set the log debug mode
func (l *LogInfo) SetDebugMode(status bool) {
	l.debug.set(status)
}

// DebugMode 目前 debug 開關狀態
func (l *LogInfo) DebugMode() bool {
	return l.debug.get()
}

// Info 输出 INFO 级别日志
func (l *LogInfo) Info(msg string, fields ...zap.Field) {
	l.log.Info(msg, fields...)
}

// Infof 输出 INFO 级别日志
func (l *LogInfo) Infof(msg string, info interface{}, fields ...zap.Field) {
	l.log.Info(fmt.Sprintf("%s %v", msg, info), fields...)
}

// Error 输出 ERROR 级别日志
func (l *LogInfo) Error(msg string, fields ...zap.Field) {
	l.log.Error(msg, fields...)
}

// Errorf 输出 ERROR 级别日志
func (l *LogInfo) Errorf(msg string, err error, fields ...zap.Field) {
	l.log.Error(fmt.Sprintf("%s %v", msg, err), fields...)
}

// Debug 输出 DEBUG 级别日志
func (l *LogInfo) Debug(msg string, fields ...zap.Field) {
	l.log.Debug(msg, fields...)
}

// Warn 输出 WARN 级别日志
func (l *LogInfo) Warn(msg string, fields ...zap.Field) {
	l.log.Warn(msg, fields...)
}

// Sync 刷新日志缓冲区
func (l *LogInfo) Sync() {
	if err := l.log.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
	}
}

// Fatal 输出错误日志并退出程序
func (l *LogInfo) Fatal(msg string, fields ...zap.Field) {
	l.log.Error(msg, fields...)
	if err := l.log.Sync(); err != nil {
		os.Stderr.WriteString("Failed to sync logger: " + err.Error() + "\n")
	}
	os.Exit(1)
}
