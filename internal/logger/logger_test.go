package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/xtding233/prizewheel/internal/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		cfg  config.LogConfig
		want zapcore.Level
	}{
		{config.LogConfig{Level: "debug", Encoding: "json"}, zapcore.DebugLevel},
		{config.LogConfig{Level: "WARN", Encoding: "console"}, zapcore.WarnLevel},
		{config.LogConfig{Level: "loud", Encoding: "xml", Sampling: true}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.cfg)
		if err != nil {
			t.Fatalf("%+v: %v", tt.cfg, err)
		}
		if !l.Core().Enabled(tt.want) || (tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1)) {
			t.Fatalf("%+v: level mismatch", tt.cfg)
		}
	}
}
