package dupecheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config carries tool defaults loaded from an ini file. A missing file
// yields the built-in defaults; command line flags override both.
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
}

// CacheConfig represents cache location configuration
type CacheConfig struct {
	Path string // Default cache file path (empty means <cwd>/.dupecache)
}

// ProgressConfig represents progress display configuration
type ProgressConfig struct {
	Enabled bool // Show the progress line by default
}

// ExcludeConfig holds extra exclude rules from the config file, one
// comma-separated list per rule family.
type ExcludeConfig struct {
	Dirs      []string
	DirGlobs  []string
	PathGlobs []string
	Files     []string
	FileGlobs []string
}

// DefaultConfigPath returns the per-user config location, or the empty
// string if no user config directory can be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dupecheck", "config")
}

// LoadConfig loads configuration from path. A missing file or an empty
// path is not an error; both yield the built-in defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{configPath: path}

	if path == "" {
		cfg.ini = ini.Empty()
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.ini = iniFile
	return cfg, nil
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: DefaultHashAlgorithm, // fallback default
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0, // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
	}

	return verboseConfig
}

// GetCacheConfig returns the cache location configuration
func (c *Config) GetCacheConfig() *CacheConfig {
	cacheConfig := &CacheConfig{
		Path: "", // fallback default: <cwd>/.dupecache
	}

	if c.ini.HasSection("cache") {
		section := c.ini.Section("cache")
		if section.HasKey("path") {
			cacheConfig.Path = section.Key("path").String()
		}
	}

	return cacheConfig
}

// GetProgressConfig returns the progress display configuration
func (c *Config) GetProgressConfig() *ProgressConfig {
	progressConfig := &ProgressConfig{
		Enabled: false, // fallback default
	}

	if c.ini.HasSection("progress") {
		section := c.ini.Section("progress")
		if section.HasKey("enabled") {
			if enabled, err := section.Key("enabled").Bool(); err == nil {
				progressConfig.Enabled = enabled
			}
		}
	}

	return progressConfig
}

// GetExcludeConfig returns extra exclude rules from the config file
func (c *Config) GetExcludeConfig() *ExcludeConfig {
	excludeConfig := &ExcludeConfig{}

	if c.ini.HasSection("exclude") {
		section := c.ini.Section("exclude")
		excludeConfig.Dirs = splitList(section.Key("dirs").String())
		excludeConfig.DirGlobs = splitList(section.Key("dir-globs").String())
		excludeConfig.PathGlobs = splitList(section.Key("path-globs").String())
		excludeConfig.Files = splitList(section.Key("files").String())
		excludeConfig.FileGlobs = splitList(section.Key("file-globs").String())
	}

	return excludeConfig
}

// ApplyExcludes adds the config file's extra exclude rules to el.
func (c *Config) ApplyExcludes(el *ExcludeList) {
	excludes := c.GetExcludeConfig()
	for _, name := range excludes.Dirs {
		el.AddDir(name)
	}
	for _, pattern := range excludes.DirGlobs {
		el.AddDirGlob(pattern)
	}
	for _, pattern := range excludes.PathGlobs {
		el.AddPathGlob(pattern)
	}
	for _, name := range excludes.Files {
		el.AddFile(name)
	}
	for _, pattern := range excludes.FileGlobs {
		el.AddFileGlob(pattern)
	}
}

// Validate checks every configured value that has a constrained domain.
func (c *Config) Validate() error {
	if err := ValidateHashAlgorithm(c.GetHashConfig().Default); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(c.GetVerboseConfig().Level); err != nil {
		return err
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// splitList parses a comma-separated config value into its items,
// dropping empty entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
