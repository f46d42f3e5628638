package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      Server      `yaml:"server"`
	Database    Database    `yaml:"database"`
	Auth        Auth        `yaml:"auth"`
	SocialGraph SocialGraph `yaml:"social_graph"`
	Scheduler   Scheduler   `yaml:"scheduler"`
	S3          S3          `yaml:"s3"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Database holds database configuration
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	// Connection pool settings
	MaxConns int32 `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"25"`
	MinConns int32 `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"5"`

	// Goose migration directory
	MigrationsDir string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR" env-default:"./sql/schema"`
}

// Auth holds authentication service configuration
type Auth struct {
	BaseURL string `yaml:"base_url" env:"AUTH_BASE_URL" env-default:"http://localhost:9999"`
	APIKey  string `yaml:"api_key" env:"AUTH_API_KEY"`
}

// SocialGraph holds upstream metrics API configuration
type SocialGraph struct {
	BaseURL     string `yaml:"base_url" env:"SOCIAL_GRAPH_BASE_URL" env-default:"https://graph.pulseboard.dev"`
	APIVersion  string `yaml:"api_version" env:"SOCIAL_GRAPH_API_VERSION" env-default:"v2"`
	AccessToken string `yaml:"access_token" env:"SOCIAL_GRAPH_ACCESS_TOKEN"`
}

// Scheduler holds maintenance scheduler configuration
type Scheduler struct {
	Enabled    bool          `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"false"`
	Interval   time.Duration `yaml:"interval" env:"SCHEDULER_INTERVAL" env-default:"15m"`
	StaleAfter time.Duration `yaml:"stale_after" env:"SCHEDULER_STALE_AFTER" env-default:"6h"`

	// MetricRetention bounds how long daily metric rows are kept. Zero
	// disables the retention pass.
	MetricRetention time.Duration `yaml:"metric_retention" env:"SCHEDULER_METRIC_RETENTION" env-default:"8760h"`
}

// S3 holds S3/MinIO storage configuration for export files
type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"exports"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/exports"`
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
