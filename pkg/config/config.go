package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultPageSize       = 100
	DefaultHistorySize    = 20
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultFilterDebounce = 200 * time.Millisecond
	DefaultMaxTagFacets   = 50
	DefaultRecentLimit    = 100
	DefaultMostUsedLimit  = 100
	DefaultTaggedLimit    = 1000
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8787
	DefaultDatabaseName   = "seekr.db"

	DefaultOptimizeInterval = time.Hour
)

type Config struct {
	StorageDir string       `toml:"storage_dir"`
	Database   string       `toml:"database,omitempty"`
	Search     SearchConfig `toml:"search"`
	Server     ServerConfig `toml:"server"`
}

type SearchConfig struct {
	PageSize       int        `toml:"page_size"`
	HistorySize    int        `toml:"history_size"`
	SearchDebounce Duration   `toml:"search_debounce"`
	FilterDebounce Duration   `toml:"filter_debounce"`
	MaxTagFacets   int        `toml:"max_tag_facets"`
	SeedLimits     SeedLimits `toml:"seed_limits"`
}

// SeedLimits caps the views shown when the query is empty.
type SeedLimits struct {
	Recent   int `toml:"recent"`
	MostUsed int `toml:"most_used"`
	Tagged   int `toml:"tagged"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// OptimizeInterval schedules database upkeep while serving. A negative
	// value disables it.
	OptimizeInterval Duration `toml:"optimize_interval"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	c := &Config{StorageDir: storageDir}
	c.applyDefaults()
	return c, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return &config, nil
}

// applyDefaults fills every zero value with its default.
func (c *Config) applyDefaults() {
	s := &c.Search
	if s.PageSize == 0 {
		s.PageSize = DefaultPageSize
	}
	if s.HistorySize == 0 {
		s.HistorySize = DefaultHistorySize
	}
	if s.SearchDebounce.Duration == 0 {
		s.SearchDebounce = Duration{DefaultSearchDebounce}
	}
	if s.FilterDebounce.Duration == 0 {
		s.FilterDebounce = Duration{DefaultFilterDebounce}
	}
	if s.MaxTagFacets == 0 {
		s.MaxTagFacets = DefaultMaxTagFacets
	}
	if s.SeedLimits.Recent == 0 {
		s.SeedLimits.Recent = DefaultRecentLimit
	}
	if s.SeedLimits.MostUsed == 0 {
		s.SeedLimits.MostUsed = DefaultMostUsedLimit
	}
	if s.SeedLimits.Tagged == 0 {
		s.SeedLimits.Tagged = DefaultTaggedLimit
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.OptimizeInterval.Duration == 0 {
		c.Server.OptimizeInterval = Duration{DefaultOptimizeInterval}
	}
}

// Validate rejects negative sizes and out of range ports.
func (c *Config) Validate() error {
	s := c.Search
	switch {
	case s.PageSize < 0:
		return fmt.Errorf("search.page_size must be positive, got %d", s.PageSize)
	case s.HistorySize < 0:
		return fmt.Errorf("search.history_size must be positive, got %d", s.HistorySize)
	case s.MaxTagFacets < 0:
		return fmt.Errorf("search.max_tag_facets must be positive, got %d", s.MaxTagFacets)
	case s.SearchDebounce.Duration < 0 || s.FilterDebounce.Duration < 0:
		return fmt.Errorf("debounce delays cannot be negative")
	case s.SeedLimits.Recent < 0 || s.SeedLimits.MostUsed < 0 || s.SeedLimits.Tagged < 0:
		return fmt.Errorf("search.seed_limits cannot be negative")
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// DBPath returns the database file, relative paths resolved against
// StorageDir.
func (c *Config) DBPath() string {
	db := c.Database
	if db == "" {
		db = DefaultDatabaseName
	}
	if filepath.IsAbs(db) {
		return db
	}
	return filepath.Join(c.StorageDir, db)
}

// ServerAddr returns host:port for the HTTP server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/seekr", storageDir, 1)
	return template, nil
}

// GetDefaultStorageDir returns the default storage directory for databases
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	seekrDir := filepath.Join(dataDir, "seekr")
	if err := os.MkdirAll(seekrDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", seekrDir, err)
	}

	return seekrDir, nil
}

// GetDefaultDBPath returns the default database path in the user's data directory
func GetDefaultDBPath() (string, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(storageDir, DefaultDatabaseName), nil
}

// GetConfigDir returns the configuration directory for seekr
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	seekrConfigDir := filepath.Join(configDir, "seekr")
	if err := os.MkdirAll(seekrConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", seekrConfigDir, err)
	}

	return seekrConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
