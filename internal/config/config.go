package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server" json:"server"`

	// Database configuration
	Database DatabaseFullConfig `yaml:"database" json:"database"`

	// GraphQL endpoint configuration
	GraphQL GraphQLConfig `yaml:"graphql" json:"graphql"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Module configuration
	Modules ModulesConfig `yaml:"modules" json:"modules"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string        `yaml:"host" json:"host" env:"MOVIEGRAPH_HOST"`
	Port           int           `yaml:"port" json:"port" env:"MOVIEGRAPH_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" json:"read_timeout" env:"MOVIEGRAPH_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" json:"write_timeout" env:"MOVIEGRAPH_WRITE_TIMEOUT"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" json:"max_header_bytes" env:"MOVIEGRAPH_MAX_HEADER_BYTES"`
	EnableCORS     bool          `yaml:"enable_cors" json:"enable_cors" env:"MOVIEGRAPH_ENABLE_CORS"`
	TrustedProxies []string      `yaml:"trusted_proxies" json:"trusted_proxies" env:"MOVIEGRAPH_TRUSTED_PROXIES"`
	Mode           string        `yaml:"mode" json:"mode" env:"GIN_MODE"`
}

// DatabaseFullConfig describes the relational store
type DatabaseFullConfig struct {
	Type              string        `yaml:"type" json:"type" env:"DATABASE_TYPE"`
	URL               string        `yaml:"url" json:"url" env:"DATABASE_URL"`
	Host              string        `yaml:"host" json:"host" env:"POSTGRES_HOST"`
	Port              int           `yaml:"port" json:"port" env:"POSTGRES_PORT"`
	Username          string        `yaml:"username" json:"username" env:"POSTGRES_USER"`
	Password          string        `yaml:"password" json:"-" env:"POSTGRES_PASSWORD"`
	Database          string        `yaml:"database" json:"database" env:"POSTGRES_DB"`
	SSLMode           string        `yaml:"ssl_mode" json:"ssl_mode" env:"POSTGRES_SSLMODE"`
	DataDir           string        `yaml:"data_dir" json:"data_dir" env:"MOVIEGRAPH_DATA_DIR"`
	DatabasePath      string        `yaml:"database_path" json:"database_path" env:"MOVIEGRAPH_DATABASE_PATH"`
	MaxOpenConns      int           `yaml:"max_open_conns" json:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns      int           `yaml:"max_idle_conns" json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime   time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime   time.Duration `yaml:"conn_max_idle_time" json:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME"`
	LogQueries        bool          `yaml:"log_queries" json:"log_queries" env:"DB_LOG_QUERIES"`
	SlowThreshold     time.Duration `yaml:"slow_threshold" json:"slow_threshold" env:"DB_SLOW_THRESHOLD"`
	AutoMigrate       bool          `yaml:"auto_migrate" json:"auto_migrate" env:"DB_AUTO_MIGRATE"`
	SeedReferenceData bool          `yaml:"seed_reference_data" json:"seed_reference_data" env:"DB_SEED_REFERENCE_DATA"`
}

// GraphQLConfig holds settings for the /graphql endpoint and the execution engine
type GraphQLConfig struct {
	Path           string `yaml:"path" json:"path" env:"MOVIEGRAPH_GRAPHQL_PATH"`
	MaxDepth       int    `yaml:"max_depth" json:"max_depth" env:"MOVIEGRAPH_GRAPHQL_MAX_DEPTH"`
	MaxParallelism int    `yaml:"max_parallelism" json:"max_parallelism" env:"MOVIEGRAPH_GRAPHQL_MAX_PARALLELISM"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes" json:"max_body_bytes" env:"MOVIEGRAPH_GRAPHQL_MAX_BODY_BYTES"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level" env:"MOVIEGRAPH_LOG_LEVEL"`
	Format   string `yaml:"format" json:"format" env:"MOVIEGRAPH_LOG_FORMAT"`
	Output   string `yaml:"output" json:"output" env:"MOVIEGRAPH_LOG_OUTPUT"`
	FilePath string `yaml:"file_path" json:"file_path" env:"MOVIEGRAPH_LOG_FILE"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" env:"MOVIEGRAPH_METRICS_ENABLED"`
	Path      string `yaml:"path" json:"path" env:"MOVIEGRAPH_METRICS_PATH"`
	Namespace string `yaml:"namespace" json:"namespace" env:"MOVIEGRAPH_METRICS_NAMESPACE"`
}

// ModulesConfig lists modules switched off at startup
type ModulesConfig struct {
	Disabled []string `yaml:"disabled" json:"disabled" env:"MOVIEGRAPH_DISABLED_MODULES"`
}

// ConfigManager manages application configuration with hot-reload support
type ConfigManager struct {
	config     *Config
	configPath string
	watchers   []ConfigWatcher
	mu         sync.RWMutex
}

// ConfigWatcher is called when configuration changes
type ConfigWatcher func(oldConfig, newConfig *Config)

var (
	globalConfigManager *ConfigManager
	configOnce          sync.Once
)

// GetConfigManager returns the global configuration manager instance
func GetConfigManager() *ConfigManager {
	configOnce.Do(func() {
		globalConfigManager = NewConfigManager()
	})
	return globalConfigManager
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config:   DefaultConfig(),
		watchers: make([]ConfigWatcher, 0),
	}
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1MB
			EnableCORS:     true,
			TrustedProxies: []string{},
			Mode:           "release",
		},
		Database: DatabaseFullConfig{
			Type:              "sqlite",
			DataDir:           "./data",
			SSLMode:           "disable",
			MaxOpenConns:      25,
			MaxIdleConns:      5,
			ConnMaxLifetime:   2 * time.Hour,
			ConnMaxIdleTime:   30 * time.Minute,
			LogQueries:        false,
			SlowThreshold:     200 * time.Millisecond,
			AutoMigrate:       true,
			SeedReferenceData: true,
		},
		GraphQL: GraphQLConfig{
			Path:           "/graphql",
			MaxDepth:       12,
			MaxParallelism: 10,
			MaxBodyBytes:   1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "moviegraph",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func (cm *ConfigManager) LoadConfig(configPath string) error {
	cm.mu.Lock()

	oldConfig := *cm.config
	cm.configPath = configPath

	// Start with default configuration
	newConfig := DefaultConfig()

	// Load from file if it exists
	if configPath != "" {
		if !fileExists(configPath) {
			cm.mu.Unlock()
			return fmt.Errorf("config file not found: %s", configPath)
		}
		if err := cm.loadFromFile(configPath, newConfig); err != nil {
			cm.mu.Unlock()
			return fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Override with environment variables
	if err := cm.loadFromEnv(newConfig); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validateConfig(newConfig); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDerivedConfig(newConfig)

	cm.config = newConfig
	watchers := append([]ConfigWatcher(nil), cm.watchers...)
	cm.mu.Unlock()

	// Notify watchers outside the lock so they may call GetConfig
	for _, watcher := range watchers {
		watcher(&oldConfig, newConfig)
	}

	return nil
}

// Reload re-reads the file the manager was last loaded from
func (cm *ConfigManager) Reload() error {
	cm.mu.RLock()
	path := cm.configPath
	cm.mu.RUnlock()
	return cm.LoadConfig(path)
}

// ConfigPath returns the file the manager was last loaded from
func (cm *ConfigManager) ConfigPath() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

// GetConfig returns the current configuration (thread-safe)
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	// Return a copy to prevent external modifications
	configCopy := *cm.config
	return &configCopy
}

// AddWatcher adds a configuration change watcher
func (cm *ConfigManager) AddWatcher(watcher ConfigWatcher) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.watchers = append(cm.watchers, watcher)
}

func (cm *ConfigManager) loadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	case ".json":
		return json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
}

func (cm *ConfigManager) loadFromEnv(config *Config) error {
	return loadStructFromEnv(reflect.ValueOf(config).Elem())
}

// loadStructFromEnv overrides fields whose env tag names a non-empty variable.
// Unset variables leave file and default values untouched.
func loadStructFromEnv(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intVal)
		}
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %v", field.Type())
		}
		values := strings.Split(value, ",")
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
		}
		field.Set(reflect.ValueOf(values))
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.Type != "sqlite" && config.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}

	if !strings.HasPrefix(config.GraphQL.Path, "/") {
		return fmt.Errorf("graphql path must start with '/': %q", config.GraphQL.Path)
	}

	if config.GraphQL.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid graphql max body bytes: %d", config.GraphQL.MaxBodyBytes)
	}

	if config.GraphQL.MaxParallelism < 1 {
		return fmt.Errorf("invalid graphql max parallelism: %d", config.GraphQL.MaxParallelism)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", config.Logging.Format)
	}

	return nil
}

func applyDerivedConfig(config *Config) {
	// Set derived database path if not explicitly set
	if config.Database.DatabasePath == "" && config.Database.Type == "sqlite" {
		config.Database.DatabasePath = filepath.Join(config.Database.DataDir, "moviegraph.db")
	}

	if config.Metrics.Path == "" {
		config.Metrics.Path = "/metrics"
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Global convenience functions

// Get returns the current global configuration
func Get() *Config {
	return GetConfigManager().GetConfig()
}

// Load loads configuration from the specified path
func Load(configPath string) error {
	return GetConfigManager().LoadConfig(configPath)
}

// AddWatcher adds a global configuration watcher
func AddWatcher(watcher ConfigWatcher) {
	GetConfigManager().AddWatcher(watcher)
}

