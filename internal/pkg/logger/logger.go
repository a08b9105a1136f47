package logger

import (
	"log/slog"
	"os"
	"strings"
)

// NewDefault 根据日志级别创建默认的 slog Logger。
//
// 级别支持 debug / info / warn / error，未识别的级别回退到 info。
func NewDefault(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
