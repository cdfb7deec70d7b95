// Package config loads assembler-tunable constants and diagnostic
// preferences from a TOML file, the way the teacher repository loads
// emulator settings: a typed struct, a DefaultConfig() matching the
// specification's fixed numbers exactly, and "file absent -> defaults"
// semantics.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"golang.org/x/term"
)

// Machine holds the assembler's fixed machine-geometry constants. The
// spec treats these as fixed numbers (word width, memory size, load
// origin, max line length, max identifier length); the defaults below
// match the spec exactly. These fields are loaded and saved with the
// config file, but the assembler packages do not read them: the lexer
// and assembler use their own constants (lexer.MaxLineLength,
// lexer.MaxIdentifierLength, assembler.LoadOrigin,
// assembler.MaxMemoryWords), so overriding a value here does not change
// how a file is assembled.
type Machine struct {
	WordBits            int `toml:"word_bits"`
	MemoryWords         int `toml:"memory_words"`
	LoadOrigin          int `toml:"load_origin"`
	MaxLineLength       int `toml:"max_line_length"`
	MaxIdentifierLength int `toml:"max_identifier_length"`
	RegisterCount       int `toml:"register_count"`
}

// Display holds diagnostic presentation preferences.
type Display struct {
	ColorOutput bool `toml:"color_output"`
}

// Config is the top-level assembler configuration.
type Config struct {
	Machine Machine `toml:"machine"`
	Display Display `toml:"display"`
}

// DefaultConfig returns a Config whose Machine fields match spec §3/§6
// exactly, and whose Display.ColorOutput defaults from terminal
// detection (§B.2: "detect, then let config override").
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Machine.WordBits = 15
	cfg.Machine.MemoryWords = 4096
	cfg.Machine.LoadOrigin = 100
	cfg.Machine.MaxLineLength = 80
	cfg.Machine.MaxIdentifierLength = 31
	cfg.Machine.RegisterCount = 8

	cfg.Display.ColorOutput = term.IsTerminal(int(os.Stderr.Fd()))

	return cfg
}

// GetConfigPath returns the platform-specific config file path,
// creating its directory if necessary.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "asm15")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "asm15")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, starting from defaults and
// overlaying whatever the file sets. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
