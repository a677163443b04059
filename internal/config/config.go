package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the vedarag service configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	CORS        CORSConfig        `yaml:"cors"`
	Logging     LoggingConfig     `yaml:"logging"`
	Database    DatabaseConfig    `yaml:"database"`
	VectorIndex VectorIndexConfig `yaml:"vector_index"`
	Cache       CacheConfig       `yaml:"cache"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds browser access settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the relational store connection settings.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"` // postgres, sqlite
	DSN              string `yaml:"dsn"`
	MaxOpenConns     int    `yaml:"max_open_conns"`
	MaxIdleConns     int    `yaml:"max_idle_conns"`
	ConnMaxLifeSec   int    `yaml:"conn_max_lifetime_sec"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// VectorIndexConfig selects and configures the nearest-neighbour backend.
type VectorIndexConfig struct {
	Driver   string         `yaml:"driver"` // valkey, pgvector, vertex
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Pgvector PgvectorConfig `yaml:"pgvector"`
	Vertex   VertexIndex    `yaml:"vertex"`
	MaxK     int            `yaml:"max_k"`
}

// ValkeyConfig holds Valkey/Redis connection settings, shared by the
// vector index and the embedding cache.
type ValkeyConfig struct {
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	IndexName string   `yaml:"index_name"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// PgvectorConfig holds the pgvector table layout.
type PgvectorConfig struct {
	DSN   string `yaml:"dsn"` // empty: reuse database.dsn
	Table string `yaml:"table"`
}

// VertexIndex holds Vertex AI Vector Search settings.
type VertexIndex struct {
	ProjectID            string `yaml:"project_id"`
	Location             string `yaml:"location"`
	IndexEndpointID      string `yaml:"index_endpoint_id"`
	DeployedIndexID      string `yaml:"deployed_index_id"`
	PublicEndpointDomain string `yaml:"public_endpoint_domain"`
}

// CacheConfig selects the embedding cache backend.
type CacheConfig struct {
	Driver   string       `yaml:"driver"` // valkey, badger, memory, none
	Valkey   ValkeyConfig `yaml:"valkey"`
	Path     string       `yaml:"path"` // badger directory; empty runs in memory
	Size     int          `yaml:"size"` // memory: max entries
	TTLHours int          `yaml:"ttl_hours"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // openai, vertex
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	ProjectID  string `yaml:"project_id"`
	Location   string `yaml:"location"`
}

// RetrievalConfig holds ranking and scan parameters.
type RetrievalConfig struct {
	VectorWeight       float64 `yaml:"vector_weight"`
	ScoreThreshold     float64 `yaml:"score_threshold"`
	ResolveConcurrency int     `yaml:"resolve_concurrency"`
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

// Parse decodes YAML config bytes, substituting ${VAR} and ${VAR:-default}.
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.VectorIndex.Driver == "" {
		c.VectorIndex.Driver = "valkey"
	}
	if c.VectorIndex.MaxK <= 0 {
		c.VectorIndex.MaxK = 50
	}
	if c.VectorIndex.Valkey.IndexName == "" {
		c.VectorIndex.Valkey.IndexName = "vedarag:idx"
	}
	if c.VectorIndex.Valkey.KeyPrefix == "" {
		c.VectorIndex.Valkey.KeyPrefix = "vedarag:vec:"
	}
	if c.VectorIndex.Pgvector.Table == "" {
		c.VectorIndex.Pgvector.Table = "vector_entries"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 10000
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 7 * 24
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
		if c.Embedding.Provider == "vertex" {
			c.Embedding.Model = "text-embedding-005"
		}
	}
	if c.Retrieval.VectorWeight <= 0 {
		c.Retrieval.VectorWeight = 0.7
	}
	if c.Retrieval.ScoreThreshold <= 0 {
		c.Retrieval.ScoreThreshold = 0.3
	}
	if c.Retrieval.ResolveConcurrency <= 0 {
		c.Retrieval.ResolveConcurrency = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := oneOf("database.driver", c.Database.Driver, "postgres", "sqlite"); err != nil {
		return err
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if err := c.validateVectorIndex(); err != nil {
		return err
	}
	if err := oneOf("cache.driver", c.Cache.Driver, "valkey", "badger", "memory", "none"); err != nil {
		return err
	}
	if c.Cache.Driver == "valkey" && len(c.Cache.Valkey.Addrs) == 0 {
		return fmt.Errorf("cache.valkey.addrs is required for the valkey cache")
	}
	if err := oneOf("embedding.provider", c.Embedding.Provider, "openai", "vertex"); err != nil {
		return err
	}
	if c.Embedding.Provider == "vertex" && (c.Embedding.ProjectID == "" || c.Embedding.Location == "") {
		return fmt.Errorf("embedding.project_id and embedding.location are required for vertex")
	}
	if c.Retrieval.VectorWeight > 1 {
		return fmt.Errorf("retrieval.vector_weight must be within [0,1], got %g", c.Retrieval.VectorWeight)
	}
	if c.Retrieval.ScoreThreshold > 1 {
		return fmt.Errorf("retrieval.score_threshold must be within [0,1], got %g", c.Retrieval.ScoreThreshold)
	}
	return nil
}

func (c *Config) validateVectorIndex() error {
	vi := c.VectorIndex
	if err := oneOf("vector_index.driver", vi.Driver, "valkey", "pgvector", "vertex"); err != nil {
		return err
	}
	switch vi.Driver {
	case "valkey":
		if len(vi.Valkey.Addrs) == 0 {
			return fmt.Errorf("vector_index.valkey.addrs is required")
		}
	case "pgvector":
		if vi.Pgvector.DSN == "" && c.Database.Driver != "postgres" {
			return fmt.Errorf("vector_index.pgvector.dsn is required unless database.driver is postgres")
		}
	case "vertex":
		if vi.Vertex.ProjectID == "" || vi.Vertex.Location == "" ||
			vi.Vertex.IndexEndpointID == "" || vi.Vertex.DeployedIndexID == "" {
			return fmt.Errorf("vector_index.vertex requires project_id, location, index_endpoint_id and deployed_index_id")
		}
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
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
