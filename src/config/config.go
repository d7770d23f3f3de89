package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port             string
	DatabaseURL      string
	StoreBackend     string
	JWTSecret        string
	JWTIssuer        string
	JWTTTL           time.Duration
	LogLevel         string
	LogFormat        string
	AllowedOrigins   []string
	DemoMode         bool
	IdentityCacheTTL time.Duration
	AutoMigrate      bool
	ShutdownTimeout  time.Duration
	BcryptCost       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("store_backend", BackendPostgres)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "fintrack")
	v.SetDefault("jwt_ttl", "168h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("demo_mode", false)
	v.SetDefault("identity_cache_ttl", "1m")
	v.SetDefault("auto_migrate", true)
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("bcrypt_cost", bcrypt.DefaultCost)
}

// Load reads .env (if present), then the optional config file, then the
// environment, which wins over both.
func Load(configFile string) (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Port:             v.GetString("port"),
		DatabaseURL:      v.GetString("database_url"),
		StoreBackend:     strings.ToLower(v.GetString("store_backend")),
		JWTSecret:        v.GetString("jwt_secret"),
		JWTIssuer:        v.GetString("jwt_issuer"),
		JWTTTL:           v.GetDuration("jwt_ttl"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        strings.ToLower(v.GetString("log_format")),
		AllowedOrigins:   splitList(v.GetString("cors_allowed_origins")),
		DemoMode:         v.GetBool("demo_mode"),
		IdentityCacheTTL: v.GetDuration("identity_cache_ttl"),
		AutoMigrate:      v.GetBool("auto_migrate"),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
		BcryptCost:       v.GetInt("bcrypt_cost"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port))
	}
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.StoreBackend))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if c.IdentityCacheTTL < 0 {
		errs = append(errs, errors.New("IDENTITY_CACHE_TTL must not be negative"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
