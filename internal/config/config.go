package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default configuration file location.
const EnvConfigPath = "ROMSELECT_CONFIG"

// Supported output archive formats, named by file extension.
const (
	Format7z  = "7z"
	FormatZip = "zip"
)

// Archiver describes the external archiving tool.
type Archiver struct {
	Binary string `yaml:"binary"` // Executable looked up in PATH
	Format string `yaml:"format"` // Output archive format: 7z or zip
}

// Directories holds the staging and library locations.
type Directories struct {
	Work string `yaml:"work"` // Staging directory for extracted and repacked files
	Roms string `yaml:"roms"` // Library root, one subdirectory per platform
}

// Markers are the substrings used to suggest a default pick.
type Markers struct {
	Good    string `yaml:"good"`    // Known-good dump marker, e.g. [!]
	Country string `yaml:"country"` // Region code matched as "(<code>)"
}

// Menu holds selection menu settings.
type Menu struct {
	Exclude []string `yaml:"exclude"` // Glob patterns for entries hidden from the menu
}

// Logging holds logger settings.
type Logging struct {
	Debug bool   `yaml:"debug"`
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

// Config represents the application configuration structure.
// It is loaded once at startup and handed to the components that need it.
type Config struct {
	Archiver    Archiver          `yaml:"archiver"`
	Directories Directories       `yaml:"directories"`
	Markers     Markers           `yaml:"markers"`
	Menu        Menu              `yaml:"menu"`
	Log         Logging           `yaml:"log"`
	Extensions  map[string]string `yaml:"extensions"` // rom extension -> platform directory
}

// DefaultExtensions maps rom file extensions to RetroPie platform
// directories.
func DefaultExtensions() map[string]string {
	return map[string]string{
		"a26":  "atari2600",
		"a78":  "atari7800",
		"lnx":  "atarilynx",
		"gen":  "genesis",
		"gg":   "gamegear",
		"pce":  "pcengine",
		"sfc":  "snes",
		"smc":  "snes",
		"sms":  "mastersystem",
		"nes":  "nes",
		"snes": "snes",
		"n64":  "n64",
		"gb":   "gb",
		"gbc":  "gbc",
		"gba":  "gba",
		"fds":  "fds",
		"jag":  "atarijaguar",
	}
}

// DefaultPath returns the configuration file location, honouring
// ROMSELECT_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "romselect", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Archiver.Binary != "" {
		cfg.Archiver.Binary = tempCfg.Archiver.Binary
	}
	if tempCfg.Archiver.Format != "" {
		cfg.Archiver.Format = strings.ToLower(tempCfg.Archiver.Format)
	}
	if tempCfg.Directories.Work != "" {
		cfg.Directories.Work = tempCfg.Directories.Work
	}
	if tempCfg.Directories.Roms != "" {
		cfg.Directories.Roms = tempCfg.Directories.Roms
	}
	if tempCfg.Markers.Good != "" {
		cfg.Markers.Good = tempCfg.Markers.Good
	}
	if tempCfg.Markers.Country != "" {
		cfg.Markers.Country = tempCfg.Markers.Country
	}
	if len(tempCfg.Menu.Exclude) > 0 {
		cfg.Menu.Exclude = tempCfg.Menu.Exclude
	}
	cfg.Log = tempCfg.Log

	// A user table replaces the defaults wholesale so entries can be dropped
	if len(tempCfg.Extensions) > 0 {
		cfg.Extensions = make(map[string]string, len(tempCfg.Extensions))
		for ext, dir := range tempCfg.Extensions {
			cfg.Extensions[normalizeExt(ext)] = dir
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	cfg := &Config{}

	cfg.Archiver.Binary = "7z"
	cfg.Archiver.Format = Format7z

	cfg.Directories.Work = "/home/pi/work"
	cfg.Directories.Roms = "/home/pi/RetroPie/roms"

	cfg.Markers.Good = "[!]"
	cfg.Markers.Country = "U"

	cfg.Menu.Exclude = []string{}

	cfg.Extensions = DefaultExtensions()

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(c.Archiver.Binary) == "" {
		return fmt.Errorf("archiver binary is required")
	}
	switch c.Archiver.Format {
	case Format7z, FormatZip:
	default:
		return fmt.Errorf("invalid archive format: %s", c.Archiver.Format)
	}

	if strings.TrimSpace(c.Directories.Work) == "" {
		return fmt.Errorf("work directory is required")
	}
	if strings.TrimSpace(c.Directories.Roms) == "" {
		return fmt.Errorf("roms directory is required")
	}

	if c.Markers.Good == "" {
		return fmt.Errorf("good marker is required")
	}
	if c.Markers.Country == "" {
		return fmt.Errorf("country marker is required")
	}

	for i, pattern := range c.Menu.Exclude {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude pattern %d: %w", i, err)
		}
	}

	if len(c.Extensions) == 0 {
		return fmt.Errorf("extension table is empty")
	}
	for ext, dir := range c.Extensions {
		if normalizeExt(ext) == "" {
			return fmt.Errorf("extension: name cannot be empty")
		}
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("extension %s: directory is required", ext)
		}
		if filepath.IsAbs(dir) || strings.Contains(dir, "..") {
			return fmt.Errorf("extension %s: directory must be relative to the roms directory", ext)
		}
	}

	return nil
}

// PlatformDir returns the library directory for a rom extension. The
// lookup is case-insensitive and ignores a leading dot.
func (c *Config) PlatformDir(ext string) (string, bool) {
	dir, ok := c.Extensions[normalizeExt(ext)]
	if !ok {
		return "", false
	}
	return filepath.Join(c.Directories.Roms, dir), true
}

// KnownExtensions returns the mapped extensions in sorted order.
func (c *Config) KnownExtensions() []string {
	exts := make([]string, 0, len(c.Extensions))
	for ext := range c.Extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// NewTestConfig creates a configuration instance for testing purposes,
// rooted at dir.
func NewTestConfig(dir string) *Config {
	cfg := New()
	cfg.Directories.Work = filepath.Join(dir, "work")
	cfg.Directories.Roms = filepath.Join(dir, "roms")
	return cfg
}
