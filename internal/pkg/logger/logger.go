package logger

import (
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options - параметры логгера
type Options struct {
	Level string

	// FilePath - дополнительный файловый вывод с ротацией, пусто = выключен
	FilePath       string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

func New(opts Options) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(opts.Level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(zapLevel)

	config := zap.Config{
		Level:            atomicLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if opts.Level == "debug" {
		config.Development = true
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	if opts.FilePath == "" {
		return log, nil
	}

	// Файл всегда пишется в JSON, независимо от консольного формата
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(FileWriter(opts)),
		atomicLevel,
	)

	return log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}

// FileWriter - writer с ротацией файлов
func FileWriter(opts Options) *lumberjack.Logger {
	maxSize := opts.FileMaxSizeMB
	if maxSize == 0 {
		maxSize = 10
	}
	maxBackups := opts.FileMaxBackups
	if maxBackups == 0 {
		maxBackups = 5
	}
	maxAge := opts.FileMaxAgeDays
	if maxAge == 0 {
		maxAge = 30
	}

	return &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    maxSize, // megabytes
		MaxBackups: maxBackups,
		MaxAge:     maxAge, // days
		Compress:   true,
	}
}
