package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrWarehouseIDMissing is returned by Validate when no warehouse id is configured.
var ErrWarehouseIDMissing = errors.New("warehouse.warehouse_id is required: DATABRICKS_WAREHOUSE_ID must be set")

// Defaults applied by ApplyDefaults.
const (
	DefaultIndex       = "ashley_johnson.imdb.horror_movies_vs_index"
	DefaultNumResults  = 3
	DefaultQuery       = "movies like The Exorcist"
	DefaultHeaderImage = "./pic.jpg"
	DefaultPageTitle   = "The horror!!!"
	DefaultImageTTLSec = 30
	MaxNumResults      = 100
)

const (
	defaultWarehousePort  = 443
	writeTimeoutMarginSec = 15
)

// indexNameRegex matches catalog.schema.index identifiers.
var indexNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+\.[A-Za-z0-9_]+\.[A-Za-z0-9_]+$`)

// Config holds the horrordb configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	Page      PageConfig      `yaml:"page"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// WarehouseConfig holds the Databricks SQL warehouse connection settings.
// Either Token (PAT) or ClientID+ClientSecret (OAuth M2M) must be set.
type WarehouseConfig struct {
	Host                 string `yaml:"host"`
	Port                 int    `yaml:"port"`
	WarehouseID          string `yaml:"warehouse_id"`
	Token                string `yaml:"token"`
	ClientID             string `yaml:"client_id"`
	ClientSecret         string `yaml:"client_secret"`
	Catalog              string `yaml:"catalog"`
	Schema               string `yaml:"schema"`
	QueryTimeoutSec      int    `yaml:"query_timeout_sec"`
	MaxConcurrentQueries int    `yaml:"max_concurrent_queries"`
	QueueTimeoutSec      int    `yaml:"queue_timeout_sec"`
	WaitForReady         bool   `yaml:"wait_for_ready"`
	ReadinessTimeoutSec  int    `yaml:"readiness_timeout_sec"`
}

// HTTPPath returns the warehouse endpoint path, e.g. /sql/1.0/warehouses/abc123.
func (w WarehouseConfig) HTTPPath() string {
	return "/sql/1.0/warehouses/" + w.WarehouseID
}

// SearchConfig holds vector search settings.
type SearchConfig struct {
	Index          string `yaml:"index"`
	NumResults     int    `yaml:"num_results"`
	DefaultQuery   string `yaml:"default_query"`
	MaxQueryLength int    `yaml:"max_query_length"`
}

// CacheConfig holds the optional Redis/Valkey result cache settings.
type CacheConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// PageConfig holds settings for the HTML search page.
type PageConfig struct {
	Title       string `yaml:"title"`
	HeaderImage string `yaml:"header_image"`
	ImageTTLSec int    `yaml:"image_ttl_sec"`
}

// AuthConfig holds JSON API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds CORS settings for the JSON API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data, decodes it, applies defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Warehouse.Port <= 0 {
		c.Warehouse.Port = defaultWarehousePort
	}
	c.Warehouse.Host = strings.TrimPrefix(strings.TrimPrefix(c.Warehouse.Host, "https://"), "http://")
	c.Warehouse.Host = strings.TrimSuffix(c.Warehouse.Host, "/")
	if c.Warehouse.QueryTimeoutSec <= 0 {
		c.Warehouse.QueryTimeoutSec = 60
	}
	if c.Warehouse.MaxConcurrentQueries <= 0 {
		c.Warehouse.MaxConcurrentQueries = 4
	}
	if c.Warehouse.QueueTimeoutSec <= 0 {
		c.Warehouse.QueueTimeoutSec = 30
	}
	if c.Warehouse.ReadinessTimeoutSec <= 0 {
		c.Warehouse.ReadinessTimeoutSec = 60
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = c.Warehouse.QueueTimeoutSec + c.Warehouse.QueryTimeoutSec + writeTimeoutMarginSec
	}
	if c.Search.Index == "" {
		c.Search.Index = DefaultIndex
	}
	if c.Search.NumResults == 0 {
		c.Search.NumResults = DefaultNumResults
	}
	if c.Search.DefaultQuery == "" {
		c.Search.DefaultQuery = DefaultQuery
	}
	if c.Search.MaxQueryLength <= 0 {
		c.Search.MaxQueryLength = 1024
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Page.Title == "" {
		c.Page.Title = DefaultPageTitle
	}
	if c.Page.HeaderImage == "" {
		c.Page.HeaderImage = DefaultHeaderImage
	}
	if c.Page.ImageTTLSec <= 0 {
		c.Page.ImageTTLSec = DefaultImageTTLSec
	}
}

// Validate checks the configuration for correctness.
// The warehouse id is checked first so a missing DATABRICKS_WAREHOUSE_ID is always the reported cause.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Warehouse.WarehouseID) == "" {
		return ErrWarehouseIDMissing
	}
	if c.Warehouse.Host == "" {
		return fmt.Errorf("warehouse.host is required: DATABRICKS_HOST must be set")
	}
	hasToken := c.Warehouse.Token != ""
	hasM2M := c.Warehouse.ClientID != "" && c.Warehouse.ClientSecret != ""
	if !hasToken && !hasM2M {
		return fmt.Errorf("warehouse credentials are required: set token or client_id and client_secret")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if budget := c.Warehouse.QueueTimeoutSec + c.Warehouse.QueryTimeoutSec; c.HTTP.WriteTimeoutSec <= budget {
		return fmt.Errorf("http.write_timeout_sec must exceed queue_timeout_sec + query_timeout_sec (%ds), got %d",
			budget, c.HTTP.WriteTimeoutSec)
	}
	if c.Search.NumResults < 1 || c.Search.NumResults > MaxNumResults {
		return fmt.Errorf("search.num_results must be between 1 and %d, got %d", MaxNumResults, c.Search.NumResults)
	}
	if !indexNameRegex.MatchString(c.Search.Index) {
		return fmt.Errorf("search.index must be catalog.schema.index, got %q", c.Search.Index)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
