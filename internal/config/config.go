// Package config loads the process configuration from environment variables
// with the CASABOT_ prefix.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BotToken  string
	DBPath    string
	GroupName string
	Timezone  string
	LogLevel  string

	DailyHour   int
	DailyMinute int
	MonthlyDay  int
	MonthlyHour int
	TickSeconds int

	WebEnabled bool
	WebPort    int

	// Location is the resolved Timezone; all period boundaries are local to it.
	Location *time.Location
}

// Load reads configuration from the environment, applies defaults and
// validates the result. BOT_TOKEN is the only required value.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("db_path", "casabot.db")
	v.SetDefault("group_name", "Organização Familia Porto Pedroso")
	v.SetDefault("timezone", "America/Sao_Paulo")
	v.SetDefault("log_level", "info")
	v.SetDefault("daily_hour", 15)
	v.SetDefault("daily_minute", 0)
	v.SetDefault("monthly_day", 6)
	v.SetDefault("monthly_hour", 9)
	v.SetDefault("tick_seconds", 60)
	v.SetDefault("web_enabled", false)
	v.SetDefault("web_port", 8080)

	v.SetEnvPrefix("CASABOT")
	v.AutomaticEnv()

	cfg := Config{
		BotToken:    v.GetString("bot_token"),
		DBPath:      v.GetString("db_path"),
		GroupName:   v.GetString("group_name"),
		Timezone:    v.GetString("timezone"),
		LogLevel:    v.GetString("log_level"),
		DailyHour:   v.GetInt("daily_hour"),
		DailyMinute: v.GetInt("daily_minute"),
		MonthlyDay:  v.GetInt("monthly_day"),
		MonthlyHour: v.GetInt("monthly_hour"),
		TickSeconds: v.GetInt("tick_seconds"),
		WebEnabled:  v.GetBool("web_enabled"),
		WebPort:     v.GetInt("web_port"),
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("CASABOT_BOT_TOKEN is required")
	}
	if cfg.DailyHour < 0 || cfg.DailyHour > 23 {
		return Config{}, fmt.Errorf("daily_hour out of range: %d", cfg.DailyHour)
	}
	if cfg.DailyMinute < 0 || cfg.DailyMinute > 59 {
		return Config{}, fmt.Errorf("daily_minute out of range: %d", cfg.DailyMinute)
	}
	// Days past 28 would silently skip short months.
	if cfg.MonthlyDay < 1 || cfg.MonthlyDay > 28 {
		return Config{}, fmt.Errorf("monthly_day out of range: %d", cfg.MonthlyDay)
	}
	if cfg.MonthlyHour < 0 || cfg.MonthlyHour > 23 {
		return Config{}, fmt.Errorf("monthly_hour out of range: %d", cfg.MonthlyHour)
	}
	if cfg.TickSeconds < 1 || cfg.TickSeconds > 60 {
		return Config{}, fmt.Errorf("tick_seconds must be between 1 and 60, got %d", cfg.TickSeconds)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// TickInterval returns the scheduler poll interval.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}
