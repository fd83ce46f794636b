package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// SourceFormat values accepted by the analyzer. Anything that is not
// VARIABLE (including absence) means FIXED.
const (
	FormatFixed    = "FIXED"
	FormatVariable = "VARIABLE"
)

// Config represents the complete cobscan configuration
type Config struct {
	Version      int           `json:"version" mapstructure:"version"`
	SourceFormat string        `json:"sourceFormat" mapstructure:"sourceFormat"`
	Workers      int           `json:"workers" mapstructure:"workers"`
	Engine       EngineConfig  `json:"engine" mapstructure:"engine"`
	Cache        CacheConfig   `json:"cache" mapstructure:"cache"`
	Logging      LoggingConfig `json:"logging" mapstructure:"logging"`
}

// EngineConfig describes the external structural parse engine (a JVM bridge).
// An empty Jar means no engine is configured and the analyzer runs on
// heuristics alone.
type EngineConfig struct {
	Jar        string `json:"jar" mapstructure:"jar"`
	Main       string `json:"main" mapstructure:"main"`
	Classpath  string `json:"classpath" mapstructure:"classpath"`
	JavaHome   string `json:"javaHome" mapstructure:"javaHome"`
	TimeoutSec int    `json:"timeoutSec" mapstructure:"timeoutSec"`
	Registry   string `json:"registry" mapstructure:"registry"`
}

// CacheConfig contains artifact cache configuration
type CacheConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:      1,
		SourceFormat: FormatFixed,
		Workers:      8,
		Engine: EngineConfig{
			Main:       "com.astra.proleap.JsonCli",
			TimeoutSec: 60,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".cache",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .cobscan/config.json under root,
// then applies environment overrides. A missing config file is not an
// error; defaults apply.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("sourceFormat", def.SourceFormat)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("engine.main", def.Engine.Main)
	v.SetDefault("engine.timeoutSec", def.Engine.TimeoutSec)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".cobscan"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	cfg.SourceFormat = NormalizeFormat(cfg.SourceFormat)
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return &cfg, nil
}

// applyEnv layers environment variables over the file config. The env
// names match the original bridge conventions so existing deployments
// keep working unchanged.
func applyEnv(cfg *Config) {
	if fmt, ok := os.LookupEnv("COBOL_SOURCE_FORMAT"); ok {
		cfg.SourceFormat = NormalizeFormat(fmt)
	}
	if jar := os.Getenv("PROLEAP_JAR"); jar != "" {
		cfg.Engine.Jar = jar
	}
	if main := os.Getenv("PROLEAP_MAIN"); main != "" {
		cfg.Engine.Main = main
	}
	if cp := os.Getenv("PROLEAP_CP"); cp != "" {
		cfg.Engine.Classpath = cp
	}
	if home := os.Getenv("JAVA_HOME"); home != "" {
		cfg.Engine.JavaHome = home
	}
	cfg.Engine.TimeoutSec = timeoutFromEnv(cfg.Engine.TimeoutSec)
	if dir := os.Getenv("COBSCAN_CACHE_DIR"); dir != "" {
		cfg.Cache.Dir = dir
	}
	if lvl := os.Getenv("COBSCAN_LOG_LEVEL"); lvl != "" {
		cfg.Logging.Level = lvl
	}
}

// timeoutFromEnv resolves the per-file engine timeout.
// Precedence: COBOL_JAVA_TIMEOUT_SEC, then the legacy
// PROLEAP_JAVA_TIMEOUT_SEC, then the configured value. Floor is 5s.
func timeoutFromEnv(configured int) int {
	raw := os.Getenv("COBOL_JAVA_TIMEOUT_SEC")
	if raw == "" {
		raw = os.Getenv("PROLEAP_JAVA_TIMEOUT_SEC")
	}
	val := configured
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			val = parsed
		}
	}
	if val < 5 {
		val = 5
	}
	return val
}

// NormalizeFormat maps any string to FIXED or VARIABLE. Only an exact
// case-insensitive VARIABLE selects variable format.
func NormalizeFormat(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), FormatVariable) {
		return FormatVariable
	}
	return FormatFixed
}

// Save writes the configuration to .cobscan/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".cobscan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	v := viper.New()
	v.Set("version", c.Version)
	v.Set("sourceFormat", c.SourceFormat)
	v.Set("workers", c.Workers)
	v.Set("engine", c.Engine)
	v.Set("cache", c.Cache)
	v.Set("logging", c.Logging)
	v.SetConfigType("json")
	return v.WriteConfigAs(filepath.Join(dir, "config.json"))
}
