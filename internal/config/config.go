// Package config loads typed process configuration from the environment.
// main loads .env with godotenv first, so values from .env and the real
// environment are read the same way here.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	LoginIDStrategyPrecheck   = "precheck"
	LoginIDStrategyConstraint = "constraint"

	ProvisionPolicyAllowAll = "allow_all"
	ProvisionPolicyCasbin   = "casbin"
)

type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	// DatabaseURL is the DSN used by cmd/migrate.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	KafkaBroker  string `mapstructure:"KAFKA_BROKER"`
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	LoginIDStrategy    string   `mapstructure:"LOGIN_ID_STRATEGY"`
	SanitizeNames      bool     `mapstructure:"SANITIZE_NAMES"`
	ProvisionPolicy    string   `mapstructure:"PROVISION_POLICY"`
	ProvisionerRoles   []string `mapstructure:"-"`
	CORSAllowedOrigins []string `mapstructure:"-"`
	RateLimitEnabled   bool     `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitRPS       float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int      `mapstructure:"RATE_LIMIT_BURST"`
	ExposeErrorDetails bool     `mapstructure:"EXPOSE_ERROR_DETAILS"`

	EmployeeCacheTTL   time.Duration `mapstructure:"EMPLOYEE_CACHE_TTL"`
	OutboxPollInterval time.Duration `mapstructure:"OUTBOX_POLL_INTERVAL"`
}

// Load builds Config from the environment and validates enum values.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_GROUP_ID", "go-garage-orphan-reconciler")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOGIN_ID_STRATEGY", LoginIDStrategyPrecheck)
	v.SetDefault("SANITIZE_NAMES", false)
	v.SetDefault("PROVISION_POLICY", ProvisionPolicyAllowAll)
	v.SetDefault("PROVISIONER_ROLES", "owner,admin")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("EXPOSE_ERROR_DETAILS", true)
	v.SetDefault("EMPLOYEE_CACHE_TTL", time.Hour)
	v.SetDefault("OUTBOX_POLL_INTERVAL", 3*time.Second)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.ProvisionerRoles = splitList(v.GetString("PROVISIONER_ROLES"))
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.LoginIDStrategy = strings.ToLower(strings.TrimSpace(cfg.LoginIDStrategy))
	switch cfg.LoginIDStrategy {
	case LoginIDStrategyPrecheck, LoginIDStrategyConstraint:
	default:
		return nil, fmt.Errorf("config: LOGIN_ID_STRATEGY must be %q or %q, got %q",
			LoginIDStrategyPrecheck, LoginIDStrategyConstraint, cfg.LoginIDStrategy)
	}

	cfg.ProvisionPolicy = strings.ToLower(strings.TrimSpace(cfg.ProvisionPolicy))
	switch cfg.ProvisionPolicy {
	case ProvisionPolicyAllowAll:
	case ProvisionPolicyCasbin:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("config: JWT_SECRET is required when PROVISION_POLICY=%s", ProvisionPolicyCasbin)
		}
	default:
		return nil, fmt.Errorf("config: PROVISION_POLICY must be %q or %q, got %q",
			ProvisionPolicyAllowAll, ProvisionPolicyCasbin, cfg.ProvisionPolicy)
	}

	if cfg.RateLimitEnabled && (cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0) {
		return nil, fmt.Errorf("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if cfg.EmployeeCacheTTL <= 0 {
		cfg.EmployeeCacheTTL = time.Hour
	}

	return &cfg, nil
}

// Production reports whether APP_ENV is production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
