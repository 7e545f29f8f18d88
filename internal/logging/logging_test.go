package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"trace", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, jsonOut := range []bool{false, true} {
		log, err := New(Options{Level: "debug", JSON: jsonOut})
		if err != nil {
			t.Fatalf("New(json=%v) error: %v", jsonOut, err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("New(json=%v) debug level not enabled", jsonOut)
		}
	}

	if _, err := New(Options{Level: "nope"}); err == nil {
		t.Error("New() with bad level should fail")
	}
}
