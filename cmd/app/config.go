package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fittrack/internal/repository"
	"fittrack/internal/service"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`

	Auth      AuthConfig      `yaml:"auth"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Payments  PaymentsConfig  `yaml:"payments"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`

	// DataSource is live, static or auto.
	DataSource     string `yaml:"dataSource"`
	MigrateOnStart bool   `yaml:"migrateOnStart"`

	LogLevel    string `yaml:"logLevel"`
	Development bool   `yaml:"development"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	Debug    bool   `yaml:"debug"`
}

type PaymentsConfig struct {
	KeyID     string           `yaml:"keyID"`
	KeySecret string           `yaml:"keySecret"`
	Currency  string           `yaml:"currency"`
	Plans     map[string]int64 `yaml:"plans"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "fittrack")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenTTL", 72*time.Hour)

	v.SetDefault("telegram.botToken", "")
	v.SetDefault("telegram.debug", false)

	v.SetDefault("payments.keyID", "")
	v.SetDefault("payments.keySecret", "")
	v.SetDefault("payments.currency", "INR")

	v.SetDefault("rateLimit.rps", 10)
	v.SetDefault("rateLimit.burst", 20)

	v.SetDefault("dataSource", service.SourceModeAuto)
	v.SetDefault("migrateOnStart", false)
	v.SetDefault("logLevel", "info")
	v.SetDefault("development", false)
}

// LoadConfig reads config.yaml from path (or the working directory) and
// applies APP_ environment overrides such as APP_DATABASE_HOST.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(configPath)
		v.SetConfigType(configFormat)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case service.SourceModeLive, service.SourceModeStatic, service.SourceModeAuto:
	default:
		return fmt.Errorf("dataSource must be live, static or auto, got %q", c.DataSource)
	}
	return nil
}

func (c *Config) paymentConfig() service.PaymentConfig {
	return service.PaymentConfig{
		KeyID:     c.Payments.KeyID,
		KeySecret: c.Payments.KeySecret,
		Currency:  c.Payments.Currency,
		Plans:     c.Payments.Plans,
	}
}
