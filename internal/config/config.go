package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gregLibert/esim-trace/internal/logging"
	"github.com/gregLibert/esim-trace/pkg/sgp22"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

const maxIndent = 8

// Config holds the defaults applied to every esimtrace command. Flags given
// on the command line override them.
type Config struct {
	Format      string `toml:"format"`
	MessageType string `toml:"message_type"`
	Direction   string `toml:"direction"`
	LogLevel    string `toml:"log_level"`
	Indent      int    `toml:"indent"`
}

func Default() Config {
	return Config{
		Format:      tree.FormatText,
		MessageType: "esim",
		Direction:   "",
		LogLevel:    "info",
		Indent:      tree.DefaultIndent,
	}
}

// Load reads a TOML file on top of the defaults. An empty path or a missing
// file yields the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("message_type") {
		cfg.MessageType = strings.TrimSpace(raw.MessageType)
	}
	if meta.IsDefined("direction") {
		cfg.Direction = strings.TrimSpace(raw.Direction)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if !slices.Contains(tree.Formats, cfg.Format) {
		return fmt.Errorf("format %q not in %s", cfg.Format, strings.Join(tree.Formats, ", "))
	}
	if _, err := sgp22.ParseMessageType(cfg.MessageType); err != nil {
		return fmt.Errorf("message_type: %w", err)
	}
	if cfg.Direction != "" && sgp22.ParseDirection(cfg.Direction) == sgp22.DirectionUnknown {
		return fmt.Errorf("direction %q is neither a request nor a response", cfg.Direction)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if cfg.Indent < 1 || cfg.Indent > maxIndent {
		return fmt.Errorf("indent %d out of range 1-%d", cfg.Indent, maxIndent)
	}
	return nil
}
