package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestZerologLevel(t *testing.T) {
	tests := []struct {
		name  string
		level LogLevel
		want  zerolog.Level
	}{
		{"debug", DebugLevel, zerolog.DebugLevel},
		{"info", InfoLevel, zerolog.InfoLevel},
		{"warn", WarnLevel, zerolog.WarnLevel},
		{"error", ErrorLevel, zerolog.ErrorLevel},
		{"fatal", FatalLevel, zerolog.FatalLevel},
		{"mixed case", LogLevel("DEBUG"), zerolog.DebugLevel},
		{"unknown falls back to info", LogLevel("verbose"), zerolog.InfoLevel},
		{"empty falls back to info", LogLevel(""), zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.zerologLevel(); got != tt.want {
				t.Errorf("zerologLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
