package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/lumberjack.v2"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Options задаются переменными LOG_LEVEL, LOG_FILE и APP_ENV.
type Options struct {
	Level      string
	File       string
	Env        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func OptionsFromEnv() Options {
	return Options{
		Level:      os.Getenv("LOG_LEVEL"),
		File:       os.Getenv("LOG_FILE"),
		Env:        os.Getenv("APP_ENV"),
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// Init строит глобальный логгер из окружения.
func Init() error {
	l, err := New(OptionsFromEnv())
	if err != nil {
		return err
	}
	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// New: в dev: цветной консольный вывод, иначе JSON. С File пишет ещё и в ротируемый файл.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, err
		}
	}

	dev := opts.Env == "" || opts.Env == "dev" || opts.Env == "development"
	var encCfg zapcore.EncoderConfig
	var consoleEnc zapcore.Encoder
	if dev {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), level),
	}
	if opts.File != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		rotate := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotate), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if !dev {
		l = l.With(zap.String("env", opts.Env))
	}
	return l, nil
}

// L возвращает глобальный логгер; до Init это no-op.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}
