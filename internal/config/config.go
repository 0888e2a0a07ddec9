package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
	Seed            bool
}

type AuthConfig struct {
	AccessSecret       string
	ProfileHeader      string
	AllowProfileHeader bool
	AdminAPIKey        string
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

type LedgerConfig struct {
	DepositCapRatio  decimal.Decimal
	BestClientsLimit int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Telemetry   TelemetryConfig
	Ledger      LedgerConfig
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	v.SetDefault("AUTH_ALLOW_PROFILE_HEADER", true)
	v.SetDefault("IDEMPOTENCY_TTL", "24h")

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
			Seed:            v.GetBool("DB_SEED"),
		},
		Auth: AuthConfig{
			AccessSecret:       v.GetString("JWT_ACCESS_SECRET"),
			ProfileHeader:      v.GetString("AUTH_PROFILE_HEADER"),
			AllowProfileHeader: v.GetBool("AUTH_ALLOW_PROFILE_HEADER"),
			AdminAPIKey:        v.GetString("ADMIN_API_KEY"),
		},
		Redis: RedisConfig{
			Addr:           v.GetString("REDIS_ADDR"),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			IdempotencyTTL: v.GetDuration("IDEMPOTENCY_TTL"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
		Ledger: LedgerConfig{
			BestClientsLimit: v.GetInt("LEDGER_BEST_CLIENTS_LIMIT"),
		},
	}

	ratio, err := parseRatio(v.GetString("LEDGER_DEPOSIT_CAP_RATIO"))
	if err != nil {
		return nil, err
	}
	cfg.Ledger.DepositCapRatio = ratio

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 3001
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverPostgres
	}
	if cfg.Auth.ProfileHeader == "" {
		cfg.Auth.ProfileHeader = "profile_id"
	}
	if cfg.Redis.IdempotencyTTL <= 0 {
		cfg.Redis.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "balance-ledger"
	}
	if cfg.Ledger.BestClientsLimit <= 0 {
		cfg.Ledger.BestClientsLimit = 2
	}
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DB.Driver)
	}
	if cfg.Auth.AccessSecret == "" && !cfg.Auth.AllowProfileHeader {
		return fmt.Errorf("JWT_ACCESS_SECRET is required when AUTH_ALLOW_PROFILE_HEADER is disabled")
	}
	if !cfg.Ledger.DepositCapRatio.IsPositive() || cfg.Ledger.DepositCapRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("LEDGER_DEPOSIT_CAP_RATIO must be in (0, 1]")
	}
	return nil
}

// parseRatio defaults to a quarter of the outstanding obligations.
func parseRatio(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NewFromFloat(0.25), nil
	}
	ratio, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("LEDGER_DEPOSIT_CAP_RATIO: %w", err)
	}
	return ratio, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
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
