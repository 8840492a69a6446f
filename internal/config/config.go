package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string   `mapstructure:"PORT"`
	DatabaseDriver                string   `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN                   string   `mapstructure:"DATABASE_DSN"`
	Timezone                      string   `mapstructure:"TIMEZONE"`
	RestrictDatesToOpenWindow     bool     `mapstructure:"RESTRICT_DATES_TO_OPEN_WINDOW"`
	LogLevel                      string   `mapstructure:"LOG_LEVEL"`
	JWTSecret                     string   `mapstructure:"JWT_SECRET"`
	AdminEmails                   []string `mapstructure:"ADMIN_EMAILS"`
	AdminAPIKeys                  []string `mapstructure:"ADMIN_API_KEYS"`
	OAuthClientID                 string   `mapstructure:"OAUTH_CLIENT_ID"`
	OAuthClientSecret             string   `mapstructure:"OAUTH_CLIENT_SECRET"`
	OAuthAuthURL                  string   `mapstructure:"OAUTH_AUTH_URL"`
	OAuthTokenURL                 string   `mapstructure:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL              string   `mapstructure:"OAUTH_USERINFO_URL"`
	OAuthRedirectURL              string   `mapstructure:"OAUTH_REDIRECT_URL"`
	DiscordBotToken               string   `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string   `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

var envKeys = []string{
	"DATABASE_DSN",
	"JWT_SECRET",
	"ADMIN_EMAILS",
	"ADMIN_API_KEYS",
	"OAUTH_CLIENT_ID",
	"OAUTH_CLIENT_SECRET",
	"OAUTH_AUTH_URL",
	"OAUTH_TOKEN_URL",
	"OAUTH_USERINFO_URL",
	"OAUTH_REDIRECT_URL",
	"DISCORD_BOT_TOKEN",
	"DISCORD_NOTIFICATIONS_CHANNEL_ID",
}

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory, if present, is loaded first and never overrides variables
// that are already set.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "event_reg.db")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("RESTRICT_DATES_TO_OPEN_WINDOW", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OAUTH_REDIRECT_URL", "http://127.0.0.1:8080/auth/callback")

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the time zone dates and timestamps are rendered in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsAdminEmail reports whether email may sign in to the admin area.
func (c *Config) IsAdminEmail(email string) bool {
	for _, allowed := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(allowed), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}
