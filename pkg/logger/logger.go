// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func level(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// LogInit writes JSON records to w and human readable records to stdout.
func LogInit(w io.Writer, debug bool) *zap.Logger {
	pe := zap.NewProductionEncoderConfig()
	fileEncoder := zapcore.NewJSONEncoder(pe)
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(pe)
	lvl := level(debug)
	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, zapcore.AddSync(w), lvl),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), lvl),
	)
	return zap.New(core)
}

// NewConsoleLogger logs to stderr only, so that command output on stdout
// stays machine readable.
func NewConsoleLogger(debug bool) *zap.Logger {
	pe := zap.NewDevelopmentEncoderConfig()
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(pe), zapcore.Lock(os.Stderr), level(debug))
	return zap.New(core)
}
