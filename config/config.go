// Package config loads service settings from the environment (and an
// optional app.env file) through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/warp/rental-engine/tasks"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type LogConfig struct {
	Level string
	// File enables rotated file output in addition to stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type EngineConfig struct {
	WeekStart      time.Weekday
	ArchivePolicy  tasks.ArchivePolicy
	CurrencySymbol string
	// Location is the calendar used to read dates and to compute "today".
	Location *time.Location
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Log         LogConfig
	Engine      EngineConfig
}

// Load reads APP_ENV, HTTP_*, LOG_*, CORS_ALLOWED_ORIGINS, TASKS_* and
// CURRENCY_SYMBOL, applies defaults and validates.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "15s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 10)
	v.SetDefault("TASKS_WEEK_START", "monday")
	v.SetDefault("TASKS_ARCHIVE_POLICY", string(tasks.ArchiveCompat))
	v.SetDefault("CURRENCY_SYMBOL", "$")
	v.SetDefault("TZ", "Local")

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:         v.GetString("HTTP_HOST"),
			Port:         v.GetInt("HTTP_PORT"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
			CORSOrigins:  parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
		Engine: EngineConfig{
			CurrencySymbol: v.GetString("CURRENCY_SYMBOL"),
		},
	}

	var err error
	if cfg.Engine.WeekStart, err = parseWeekday(v.GetString("TASKS_WEEK_START")); err != nil {
		return nil, err
	}
	if cfg.Engine.ArchivePolicy, err = tasks.ParseArchivePolicy(v.GetString("TASKS_ARCHIVE_POLICY")); err != nil {
		return nil, fmt.Errorf("TASKS_ARCHIVE_POLICY: %w", err)
	}
	if cfg.Engine.Location, err = time.LoadLocation(v.GetString("TZ")); err != nil {
		return nil, fmt.Errorf("TZ: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Classifier builds the task classifier these settings describe.
func (e EngineConfig) Classifier() tasks.Classifier {
	return tasks.Classifier{WeekStart: e.WeekStart, Archive: e.ArchivePolicy}
}

// Addr is host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", cfg.HTTP.Port)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %q", cfg.Log.Level)
	}
	return nil
}

func parseWeekday(raw string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sunday", "domingo":
		return time.Sunday, nil
	case "monday", "lunes", "":
		return time.Monday, nil
	default:
		return 0, fmt.Errorf("TASKS_WEEK_START must be monday or sunday: %q", raw)
	}
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
