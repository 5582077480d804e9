package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration, loaded from a yaml
// file and overridable through environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Google   GoogleConfig   `mapstructure:"google"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	InviteBaseURL   string        `mapstructure:"invite_base_url"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	AccessLifetime  time.Duration `mapstructure:"access_lifetime"`
	RefreshLifetime time.Duration `mapstructure:"refresh_lifetime"`
}

type EmailConfig struct {
	Provider     string `mapstructure:"provider"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

type GoogleConfig struct {
	ClientID string `mapstructure:"client_id"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads the configuration file at path and applies environment
// overrides. Every overridable key is bound explicitly so a plain
// `TSENA_JWT_SECRET=...` works without a config file entry.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.invite_base_url", "http://localhost:3000")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.access_lifetime", 15*time.Minute)
	v.SetDefault("jwt.refresh_lifetime", 7*24*time.Hour)
	v.SetDefault("email.provider", "noop")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	bindings := map[string]string{
		"server.port":             "TSENA_SERVER_PORT",
		"server.invite_base_url":  "TSENA_INVITE_BASE_URL",
		"database.host":           "TSENA_DB_HOST",
		"database.port":           "TSENA_DB_PORT",
		"database.user":           "TSENA_DB_USER",
		"database.password":       "TSENA_DB_PASSWORD",
		"database.dbname":         "TSENA_DB_NAME",
		"database.sslmode":        "TSENA_DB_SSLMODE",
		"redis.addr":              "TSENA_REDIS_ADDR",
		"redis.password":          "TSENA_REDIS_PASSWORD",
		"jwt.secret":              "TSENA_JWT_SECRET",
		"email.provider":          "TSENA_EMAIL_PROVIDER",
		"email.resend_api_key":    "TSENA_RESEND_API_KEY",
		"email.from":              "TSENA_EMAIL_FROM",
		"google.client_id":        "TSENA_GOOGLE_CLIENT_ID",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	// A missing file is fine when the environment carries the
	// required values.
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database.user and database.dbname are required")
	}
	if c.Email.Provider == "resend" && c.Email.ResendAPIKey == "" {
		return fmt.Errorf("email.resend_api_key is required with the resend provider")
	}
	return nil
}
