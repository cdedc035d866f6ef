package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
)

const envPrefix = "CARDPOINTE_"

type Config struct {
	Primary    Primary          `koanf:"primary"`
	Connection ConnectionConfig `koanf:"connection"`
	Client     ClientConfig     `koanf:"client"`
	Logger     LoggerConfig     `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ConnectionConfig struct {
	Site       string `koanf:"site" validate:"required"`
	MerchantID string `koanf:"merchant_id" validate:"required"`
	Username   string `koanf:"username" validate:"required"`
	Password   string `koanf:"password" validate:"required"`
	Host       string `koanf:"host"`
}

type ClientConfig struct {
	Timeout        time.Duration `koanf:"timeout" validate:"required"`
	UserAgent      string        `koanf:"user_agent"`
	ResponseChecks bool          `koanf:"response_checks"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

var defaults = map[string]any{
	"primary.env":            "uat",
	"connection.host":        cardpointe.DefaultHost,
	"client.timeout":         "30s",
	"client.user_agent":      cardpointe.DefaultUserAgent,
	"client.response_checks": false,
	"logger.level":           "info",
}

// LoadConfig reads CARDPOINTE_ environment variables (and a .env file when
// present). Nested keys use a double underscore:
// CARDPOINTE_CONNECTION__MERCHANT_ID -> connection.merchant_id.
func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

func (c *Config) Credentials() cardpointe.Credentials {
	return cardpointe.Credentials{
		Site:       c.Connection.Site,
		MerchantID: c.Connection.MerchantID,
		Username:   c.Connection.Username,
		Password:   c.Connection.Password,
	}
}

// Options maps the client section onto facade options.
func (c *Config) Options(logger *slog.Logger) []cardpointe.Option {
	opts := []cardpointe.Option{
		cardpointe.WithTimeout(c.Client.Timeout),
		cardpointe.WithLogger(logger),
	}
	if c.Connection.Host != "" {
		opts = append(opts, cardpointe.WithHost(c.Connection.Host))
	}
	if c.Client.UserAgent != "" {
		opts = append(opts, cardpointe.WithUserAgent(c.Client.UserAgent))
	}
	if c.Client.ResponseChecks {
		opts = append(opts, cardpointe.WithResponseChecks())
	}
	return opts
}
