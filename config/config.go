package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT"`
	MongoEnabled      bool          `mapstructure:"MONGO_ENABLED"`
	MongoURI          string        `mapstructure:"MONGO_URI"`
	MongoDB           string        `mapstructure:"MONGO_DB"`
	CacheEnabled      bool          `mapstructure:"CACHE_ENABLED"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int           `mapstructure:"REDIS_DB"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTIssuer         string        `mapstructure:"JWT_ISSUER"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	DraftTTL          time.Duration `mapstructure:"DRAFT_TTL"`
	WkhtmltopdfPath   string        `mapstructure:"WKHTMLTOPDF_PATH"`
	DischargeFolderID string        `mapstructure:"DISCHARGE_FOLDER_ID"`
	FileBaseURL       string        `mapstructure:"FILE_BASE_URL"`
	ReconcileSchedule string        `mapstructure:"RECONCILE_SCHEDULE"`
	WardSyncSchedule  string        `mapstructure:"WARD_SYNC_SCHEDULE"`
	JobsEnabled       bool          `mapstructure:"JOBS_ENABLED"`
	MigrationsEnabled bool          `mapstructure:"MIGRATIONS_ENABLED"`
	SigningKeyPEM     string        `mapstructure:"SIGNING_KEY_PEM"`
	SigningKeyPath    string        `mapstructure:"SIGNING_KEY_PATH"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
	"MONGO_ENABLED", "MONGO_URI", "MONGO_DB",
	"CACHE_ENABLED", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "JWT_ISSUER", "CORS_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "DRAFT_TTL",
	"WKHTMLTOPDF_PATH", "DISCHARGE_FOLDER_ID", "FILE_BASE_URL",
	"RECONCILE_SCHEDULE", "WARD_SYNC_SCHEDULE", "JOBS_ENABLED", "MIGRATIONS_ENABLED",
	"SIGNING_KEY_PEM", "SIGNING_KEY_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MONGO_ENABLED", true)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "wardcare")
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ISSUER", "wardcare360")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("DRAFT_TTL", "30m")
	v.SetDefault("WKHTMLTOPDF_PATH", "wkhtmltopdf")
	v.SetDefault("DISCHARGE_FOLDER_ID", "discharge-summaries")
	v.SetDefault("FILE_BASE_URL", "/files")
	v.SetDefault("RECONCILE_SCHEDULE", "*/10 * * * *")
	v.SetDefault("WARD_SYNC_SCHEDULE", "0 * * * *")
	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("MIGRATIONS_ENABLED", true)
}

/*
* Defaults first, then environment variables
* The .env file has already been loaded into the environment by godotenv
 */
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.IsProduction() && cfg.SigningKeyPEM == "" && cfg.SigningKeyPath == "" {
		return nil, fmt.Errorf("SIGNING_KEY_PEM or SIGNING_KEY_PATH is required in production")
	}
	if cfg.DraftTTL <= 0 {
		return nil, fmt.Errorf("DRAFT_TTL must be positive")
	}
	return cfg, nil
}

// SigningKey returns the PEM block of the discharge-summary signing key, or nil when none is configured.
// The inline PEM wins over the path.
func (c *Config) SigningKey() ([]byte, error) {
	if c.SigningKeyPEM != "" {
		return []byte(strings.ReplaceAll(c.SigningKeyPEM, `\n`, "\n")), nil
	}
	if c.SigningKeyPath == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(c.SigningKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	return raw, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
