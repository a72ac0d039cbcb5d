package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CASABOT_BOT_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.BotToken)
	assert.Equal(t, "casabot.db", cfg.DBPath)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, 15, cfg.DailyHour)
	assert.Equal(t, 0, cfg.DailyMinute)
	assert.Equal(t, 6, cfg.MonthlyDay)
	assert.Equal(t, 9, cfg.MonthlyHour)
	assert.Equal(t, 60, cfg.TickSeconds)
	assert.False(t, cfg.WebEnabled)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CASABOT_BOT_TOKEN", "test-token")
	t.Setenv("CASABOT_TIMEZONE", "Europe/Lisbon")
	t.Setenv("CASABOT_DAILY_HOUR", "8")
	t.Setenv("CASABOT_DAILY_MINUTE", "30")
	t.Setenv("CASABOT_TICK_SECONDS", "5")
	t.Setenv("CASABOT_WEB_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Lisbon", cfg.Timezone)
	assert.Equal(t, 8, cfg.DailyHour)
	assert.Equal(t, 30, cfg.DailyMinute)
	assert.Equal(t, 5, cfg.TickSeconds)
	assert.True(t, cfg.WebEnabled)
}

func TestLoadRejectsMissingToken(t *testing.T) {
	t.Setenv("CASABOT_BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]struct {
		key, value string
	}{
		"bad timezone":    {"CASABOT_TIMEZONE", "Mars/Olympus"},
		"hour too large":  {"CASABOT_DAILY_HOUR", "24"},
		"negative minute": {"CASABOT_DAILY_MINUTE", "-1"},
		"day past 28":     {"CASABOT_MONTHLY_DAY", "31"},
		"tick too coarse": {"CASABOT_TICK_SECONDS", "120"},
		"zero tick":       {"CASABOT_TICK_SECONDS", "0"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CASABOT_BOT_TOKEN", "test-token")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
