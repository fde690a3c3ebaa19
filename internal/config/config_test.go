package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esimtrace.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"Empty path", ""},
		{"Missing file", filepath.Join(t.TempDir(), "absent.toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(Default(), got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
format = "JSON"
direction = "eUICC->LPA"
log_level = "debug"
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Config{
		Format:      "json",
		MessageType: "esim",
		Direction:   "eUICC->LPA",
		LogLevel:    "debug",
		Indent:      2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Syntax", `format = `, "config parse failed"},
		{"Unknown key", `colour = "red"`, `unknown key "colour"`},
		{"Bad format", `format = "xml"`, `format "xml"`},
		{"Bad message type", `message_type = "emv"`, "message_type"},
		{"Bad direction", `direction = "SMDP->LPA"`, "direction"},
		{"Bad log level", `log_level = "loud"`, "log_level"},
		{"Indent out of range", `indent = 0`, "indent 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Default(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoad_QuietLogLevels(t *testing.T) {
	for _, level := range []string{"off", "none", "disabled", "quiet", "Warn"} {
		t.Run(level, func(t *testing.T) {
			got, err := Load(writeConfig(t, `log_level = "`+level+`"`))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.LogLevel != level {
				t.Errorf("LogLevel = %q, want %q", got.LogLevel, level)
			}
		})
	}
}
