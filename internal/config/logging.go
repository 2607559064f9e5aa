package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging 标准 log 同时输出到终端和 logs/lunch-bot.log（1MB 轮转，保留 5 份）
func SetupLogging(dir string) io.Closer {
	if dir == "" {
		dir = "logs"
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "lunch-bot.log"),
		MaxSize:    1,
		MaxBackups: 5,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.LstdFlags)
	return file
}
