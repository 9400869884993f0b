package app

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logSink forwards encoded log entries to the log pane line by line.
type logSink struct {
	emit func(string)
}

func (s logSink) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.emit(line)
	}
	return len(p), nil
}

func (s logSink) Sync() error { return nil }

// teeToPane returns a logger that also writes entries at level or above to emit.
func teeToPane(base *zap.Logger, emit func(string), level zapcore.LevelEnabler) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	pane := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), logSink{emit: emit}, level)
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, pane)
	}))
}
