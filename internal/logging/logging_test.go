package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		name  string
		level string
		env   string
		want  logrus.Level
	}{
		{"Default", "", "", logrus.InfoLevel},
		{"Configured", "debug", "", logrus.DebugLevel},
		{"Unknown falls back to info", "loud", "", logrus.InfoLevel},
		{"Env wins", "info", "trace", logrus.TraceLevel},
		{"Invalid env ignored", "warn", "verbose", logrus.WarnLevel},
		{"Off", "off", "", logrus.PanicLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.env)
			if got := NewWithWriter(io.Discard, tt.level).GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")
	logger.Debug("hidden")
	logger.WithField("tag", "BF2D").Info("decoded")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "msg=decoded") || !strings.Contains(out, "tag=BF2D") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw     string
		want    logrus.Level
		wantErr bool
	}{
		{"debug", logrus.DebugLevel, false},
		{" WARN ", logrus.WarnLevel, false},
		{"off", logrus.PanicLevel, false},
		{"Quiet", logrus.PanicLevel, false},
		{"none", logrus.PanicLevel, false},
		{"disabled", logrus.PanicLevel, false},
		{"", logrus.InfoLevel, true},
		{"loud", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLevel(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
