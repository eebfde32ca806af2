package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Assembly AssemblyAIConfig
	Groq     GroqConfig
	JWT      JWTConfig
	Worker   WorkerConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadMB     int64    `envconfig:"MAX_UPLOAD_MB" default:"50"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"memory_care"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	Migrations  string `envconfig:"DB_MIGRATIONS_DIR" default:"migrations"`
}

// RedisConfig holds Redis configuration. An empty host disables Redis and
// the in-memory cache is used instead.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"memory-care"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL"`
}

// AssemblyAIConfig holds speech-to-text provider configuration
type AssemblyAIConfig struct {
	APIKey         string `envconfig:"ASSEMBLYAI_API_KEY"`
	WebhookBaseURL string `envconfig:"ASSEMBLYAI_WEBHOOK_URL"`
	WebhookSecret  string `envconfig:"ASSEMBLYAI_WEBHOOK_SECRET"`
	LanguageCode   string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"ko"`
}

// GroqConfig holds LLM configuration used for journal entries
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY"`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.1-70b-versatile"`
}

// JWTConfig holds access token verification settings. Tokens are issued by
// the auth provider and signed with a shared HS256 secret.
type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET"`
	Issuer       string        `envconfig:"JWT_ISSUER"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"1h"`
}

// WorkerConfig holds background worker settings
type WorkerConfig struct {
	Enabled      bool          `envconfig:"WORKER_ENABLED" default:"true"`
	PollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"15s"`
	JobTimeout   time.Duration `envconfig:"WORKER_JOB_TIMEOUT" default:"5m"`
	MaxRetries   int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
}

// CacheConfig holds report cache settings
type CacheConfig struct {
	ReportTTL time.Duration `envconfig:"CACHE_REPORT_TTL" default:"10m"`
}

// MetricsConfig holds every speech-metrics cutoff so deployments can
// recalibrate without a release.
type MetricsConfig struct {
	PauseMinGapSec         float64 `envconfig:"METRICS_PAUSE_MIN_GAP_SEC" default:"0.5"`
	UtteranceMinGapSec     float64 `envconfig:"METRICS_UTTERANCE_MIN_GAP_SEC" default:"1.0"`
	RateWarningBelowWPM    float64 `envconfig:"METRICS_RATE_WARNING_WPM" default:"120"`
	RateRiskBelowWPM       float64 `envconfig:"METRICS_RATE_RISK_WPM" default:"98.7"`
	PauseWarningAboveSec   float64 `envconfig:"METRICS_PAUSE_WARNING_SEC" default:"2.5"`
	PauseRiskAboveSec      float64 `envconfig:"METRICS_PAUSE_RISK_SEC" default:"4.7"`
	MLUWarningBelow        float64 `envconfig:"METRICS_MLU_WARNING" default:"19.4"`
	MLURiskBelow           float64 `envconfig:"METRICS_MLU_RISK" default:"10"`
	CriticalWordCount      float64 `envconfig:"METRICS_CRITICAL_WORDS" default:"51.9"`
	LowConfidenceWordCount float64 `envconfig:"METRICS_LOW_CONFIDENCE_WORDS" default:"40"`
	RateDeclineWarningPct  float64 `envconfig:"METRICS_TREND_RATE_WARNING_PCT" default:"10"`
	RateDeclineRiskPct     float64 `envconfig:"METRICS_TREND_RATE_RISK_PCT" default:"20"`
	PauseDeclineWarningPct float64 `envconfig:"METRICS_TREND_PAUSE_WARNING_PCT" default:"20"`
	PauseDeclineRiskPct    float64 `envconfig:"METRICS_TREND_PAUSE_RISK_PCT" default:"40"`
	MLUDeclineWarningPct   float64 `envconfig:"METRICS_TREND_MLU_WARNING_PCT" default:"15"`
	MLUDeclineRiskPct      float64 `envconfig:"METRICS_TREND_MLU_RISK_PCT" default:"30"`
	WordCountDropPct       float64 `envconfig:"METRICS_TREND_WORD_DROP_PCT" default:"10"`
}

// Thresholds converts the configured cutoffs
func (m MetricsConfig) Thresholds() speechmetrics.Thresholds {
	return speechmetrics.Thresholds{
		PauseMinGapSec:         m.PauseMinGapSec,
		UtteranceMinGapSec:     m.UtteranceMinGapSec,
		RateWarningBelowWPM:    m.RateWarningBelowWPM,
		RateRiskBelowWPM:       m.RateRiskBelowWPM,
		PauseWarningAboveSec:   m.PauseWarningAboveSec,
		PauseRiskAboveSec:      m.PauseRiskAboveSec,
		MLUWarningBelow:        m.MLUWarningBelow,
		MLURiskBelow:           m.MLURiskBelow,
		CriticalWordCount:      m.CriticalWordCount,
		LowConfidenceWordCount: m.LowConfidenceWordCount,
		RateDeclineWarningPct:  m.RateDeclineWarningPct,
		RateDeclineRiskPct:     m.RateDeclineRiskPct,
		PauseDeclineWarningPct: m.PauseDeclineWarningPct,
		PauseDeclineRiskPct:    m.PauseDeclineRiskPct,
		MLUDeclineWarningPct:   m.MLUDeclineWarningPct,
		MLUDeclineRiskPct:      m.MLUDeclineRiskPct,
		WordCountDropPct:       m.WordCountDropPct,
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv decodes the configuration from the process environment without
// validating it
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.Server.Environment == "production" && c.Database.AutoMigrate {
		return fmt.Errorf("DB_AUTO_MIGRATE must be disabled in production")
	}
	if err := c.Metrics.Thresholds().Validate(); err != nil {
		return fmt.Errorf("invalid metrics thresholds: %w", err)
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
