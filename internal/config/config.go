package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SKINREPORT_OUTPUT_DIR.
const EnvPrefix = "SKINREPORT"

// Config holds the configuration for the application.
type Config struct {
	OutputDir    string
	DatabasePath string
	Layout       string
	Brand        string
	PrintDelay   time.Duration
	AutoPrint    bool
	Debug        bool

	// Ghost Config (required by publish)
	GhostURL      string
	GhostAdminKey string

	// Telegram Config (required by the bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

var defaults = map[string]any{
	"output_dir":    "reports",
	"database_path": "data/reports.db",
	"layout":        "prescription",
	"brand":         "Dermatics India",
	"print_delay":   "500ms",
	"auto_print":    true,
	"debug":         false,
	"port":          "8080",
}

// Load reads configuration from the environment and, when present, a YAML
// config file. An explicit path that does not exist is an error; without one,
// ./config.yaml is used if it exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// Keys without a default must be registered for AutomaticEnv to see them.
	for _, k := range []string{
		"ghost_url", "ghost_admin_key",
		"telegram_bot_token", "telegram_webhook_url",
		"telegram_allowed_user_ids", "admin_telegram_id",
	} {
		v.SetDefault(k, "")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	allowed, err := parseIDs(v.GetStringSlice("telegram_allowed_user_ids"))
	if err != nil {
		return nil, fmt.Errorf("invalid telegram_allowed_user_ids: %w", err)
	}

	var adminID int64
	if raw := v.GetString("admin_telegram_id"); raw != "" {
		adminID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin_telegram_id %q: %w", raw, err)
		}
	}

	cfg := &Config{
		OutputDir:              v.GetString("output_dir"),
		DatabasePath:           v.GetString("database_path"),
		Layout:                 v.GetString("layout"),
		Brand:                  v.GetString("brand"),
		PrintDelay:             v.GetDuration("print_delay"),
		AutoPrint:              v.GetBool("auto_print"),
		Debug:                  v.GetBool("debug"),
		GhostURL:               strings.TrimRight(v.GetString("ghost_url"), "/"),
		GhostAdminKey:          v.GetString("ghost_admin_key"),
		TelegramBotToken:       v.GetString("telegram_bot_token"),
		TelegramWebhookURL:     v.GetString("telegram_webhook_url"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		Port:                   v.GetString("port"),
	}

	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output_dir must not be empty")
	}
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database_path must not be empty")
	}
	return cfg, nil
}

// RequireGhost checks the settings needed to publish to Ghost.
func (c *Config) RequireGhost() error {
	if c.GhostURL == "" {
		return fmt.Errorf("%s_GHOST_URL environment variable not set", EnvPrefix)
	}
	if c.GhostAdminKey == "" {
		return fmt.Errorf("%s_GHOST_ADMIN_KEY environment variable not set", EnvPrefix)
	}
	return nil
}

// RequireTelegram checks the settings needed to run the bot.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("%s_TELEGRAM_BOT_TOKEN environment variable not set", EnvPrefix)
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("%s_TELEGRAM_WEBHOOK_URL environment variable not set", EnvPrefix)
	}
	return nil
}

// IsAllowed reports whether a Telegram user may request reports. The admin
// is always allowed.
func (c *Config) IsAllowed(userID int64) bool {
	if c.AdminTelegramID != 0 && userID == c.AdminTelegramID {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// parseIDs accepts both list values and comma separated strings.
func parseIDs(raw []string) ([]int64, error) {
	var ids []int64
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a numeric user id", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
