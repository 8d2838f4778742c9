package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the emulator configuration
type Config struct {
	// Execution settings
	Execution struct {
		MaxInstructions uint64 `toml:"max_instructions"`
		EnableTrace     bool   `toml:"enable_trace"`
		TraceFile       string `toml:"trace_file"`
		MaxTraceEntries int    `toml:"max_trace_entries"`
	} `toml:"execution"`

	// Terminal settings
	Terminal struct {
		RawMode   bool `toml:"raw_mode"`
		EchoInput bool `toml:"echo_input"`
	} `toml:"terminal"`

	// UART settings
	UART struct {
		InputFile  string `toml:"input_file"`  // empty means stdin
		OutputFile string `toml:"output_file"` // empty means stdout
	} `toml:"uart"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Execution.MaxInstructions = 0 // 0 means unbounded
	cfg.Execution.TraceFile = "trace.log"
	cfg.Execution.MaxTraceEntries = 100000
	cfg.Terminal.RawMode = true
	return cfg
}

// appDir is the subdirectory this emulator's config and state files live
// under, beneath whatever per-user base directory the host platform uses.
const appDir = "baserv1e"

// userBase resolves the platform's per-user base directory for category
// (an XDG-style leaf such as ".config" or filepath.Join(".local","share")
// on Unix; Windows has one base for everything and ignores category).
func userBase(category string) (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", errors.New("neither APPDATA nor USERPROFILE is set")
		}
		return filepath.Join(profile, "AppData", "Roaming"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, category), nil
}

// appSubdir returns appDir joined onto the resolved base directory for
// category, creating it if needed. On any failure it reports ok=false so
// callers can fall back to a bare relative path.
func appSubdir(category string) (dir string, ok bool) {
	base, err := userBase(category)
	if err != nil {
		return "", false
	}
	dir = filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", false
	}
	return dir, true
}

// GetConfigPath returns the platform-specific config file path, falling
// back to a bare relative filename if no per-user directory is available.
func GetConfigPath() string {
	dir, ok := appSubdir(".config")
	if !ok {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path, falling
// back to a bare relative directory if no per-user directory is available.
func GetLogPath() string {
	dir, ok := appSubdir(filepath.Join(".local", "share"))
	if !ok {
		return "logs"
	}
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}
	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path. A missing file is not an
// error: it yields the defaults untouched.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path) // #nosec G304 -- caller-specified config path
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes the configuration to path, creating any missing parent
// directories first.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating directory for %q: %w", path, err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %q: %w", path, err)
	}
	return nil
}
