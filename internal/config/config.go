package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type HTTPConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
	SeedFile        string // offering catalog fixture for the memory driver
}

type AuthConfig struct {
	AccessSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PricingConfig struct {
	BaseCurrency     string
	ExchangeCacheTTL time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Pricing     PricingConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:               v.GetString("HTTP_HOST"),
			Port:               v.GetInt("HTTP_PORT"),
			CORSAllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
			SeedFile:        strings.TrimSpace(v.GetString("MEMORY_SEED_FILE")),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Pricing: PricingConfig{
			BaseCurrency: strings.ToUpper(strings.TrimSpace(v.GetString("PRICING_BASE_CURRENCY"))),
		},
	}

	if raw := strings.TrimSpace(v.GetString("EXCHANGE_CACHE_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid EXCHANGE_CACHE_TTL: %w", err)
		}
		cfg.Pricing.ExchangeCacheTTL = ttl
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.CORSAllowedOrigins) == 0 {
		cfg.HTTP.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = StorageDriverPostgres
	}
	if cfg.Pricing.BaseCurrency == "" {
		cfg.Pricing.BaseCurrency = "TRY"
	}
	if cfg.Pricing.ExchangeCacheTTL == 0 {
		cfg.Pricing.ExchangeCacheTTL = 10 * time.Minute
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.DB.Driver {
	case StorageDriverPostgres:
		if cfg.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Pricing.ExchangeCacheTTL < 0 {
		return fmt.Errorf("EXCHANGE_CACHE_TTL cannot be negative")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
