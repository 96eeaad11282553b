package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the process logger from the log flags
func newLogger(cmd *cli.Command) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cmd.String(logLevelFlag.Name))
	if err != nil {
		return nil, err
	}

	path := cmd.String(logFileFlag.Name)
	sink := zapcore.Lock(os.Stderr)
	if path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch format := cmd.String(logFormatFlag.Name); format {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		// no color codes in files
		if path == "" {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}

	return zap.New(zapcore.NewCore(enc, sink, level)), nil
}
