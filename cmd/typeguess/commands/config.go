package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
)

// DefaultConfigFile is read from the working directory when no config is named.
const DefaultConfigFile = "typeguess.toml"

// LevelOff silences every record.
const LevelOff = slog.LevelError + 4

// Config holds the settings a typeguess.toml may carry.
type Config struct {
	Universe []string `toml:"universe"`
	Source   string   `toml:"source"`
	LogLevel string   `toml:"log_level"`
}

// Merge returns c overridden by the non-empty fields of o. Universe files accumulate.
func (c Config) Merge(o Config) Config {
	out := c
	out.Universe = append(append([]string{}, c.Universe...), o.Universe...)
	if o.Source != "" {
		out.Source = o.Source
	}
	if o.LogLevel != "" {
		out.LogLevel = o.LogLevel
	}
	return out
}

// LoadConfig reads a TOML config. A missing file is an error only when required.
func LoadConfig(path string, required bool) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// loadSettings layers the config file, then the environment, then explicitly set flags.
func loadSettings(cmd *cobra.Command) (Config, error) {
	path, required := configPath, configPath != ""
	if path == "" {
		path = os.Getenv("TYPEGUESS_CONFIG")
		required = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.Merge(Config{LogLevel: os.Getenv("TYPEGUESS_LOG_LEVEL")})

	var flags Config
	if cmd.Flags().Changed("universe") {
		flags.Universe = universeFiles
	}
	if cmd.Flags().Changed("source") {
		flags.Source = sourceLevel
	}
	if cmd.Flags().Changed("log-level") {
		flags.LogLevel = logLevel
	}
	cfg = cfg.Merge(flags)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

// ParseLogLevel parses a level name into a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "OFF", "NONE":
		return LevelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// AllowModernKinds reports whether a language level can name enums and annotations,
// which arrived with 1.5. Both "1.8" and "8" spellings are accepted; empty means latest.
func AllowModernKinds(level string) (bool, error) {
	if level == "" {
		return true, nil
	}
	majorText, minorText, _ := strings.Cut(level, ".")
	major, err := strconv.Atoi(majorText)
	if err != nil {
		return false, fmt.Errorf("invalid source level %q", level)
	}
	if major != 1 {
		return major >= 5, nil
	}
	minor := 0
	if minorText != "" {
		if minor, err = strconv.Atoi(minorText); err != nil {
			return false, fmt.Errorf("invalid source level %q", level)
		}
	}
	return minor >= 5, nil
}
