package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
		debug         bool
	}{
		{"", "", false, false},
		{"debug", "console", false, true},
		{"WARN", "json", false, false},
		{"verbose", "json", true, false},
		{"info", "xml", true, false},
	}
	for _, tt := range tests {
		log, err := New(tt.level, tt.format)
		if (err != nil) != tt.wantErr {
			t.Fatalf("New(%q, %q) err = %v", tt.level, tt.format, err)
		}
		if err != nil {
			continue
		}
		if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
			t.Errorf("New(%q) debug enabled = %v", tt.level, got)
		}
	}
}
