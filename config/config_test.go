package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/dailydose?sslmode=disable")
	t.Setenv("DB_SCHEMA", "dailydose_test")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("MESSAGING_PLATFORM", "")
	t.Setenv("DISPATCH_WORKERS", "")
	t.Setenv("FOLLOWUP_DELAY_MINUTES", "")
	t.Setenv("JOB_TIMEOUT_SECONDS", "")
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("PORT", "")
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		setBaseEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, MessagingPlatformSlack, cfg.MessagingPlatform)
		assert.Equal(t, 8, cfg.DispatchWorkers)
		assert.Equal(t, 15*time.Minute, cfg.SchedulerConfig.FollowupDelay)
		assert.Equal(t, 120*time.Second, cfg.SchedulerConfig.JobTimeout)
	})

	t.Run("MissingDatabaseURL", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DB_URL", "")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_URL is not set")
	})

	t.Run("DiscordRequiresBotToken", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("MESSAGING_PLATFORM", "discord")

		_, err := LoadConfig()
		require.Error(t, err)

		t.Setenv("DISCORD_BOT_TOKEN", "discord-token")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, MessagingPlatformDiscord, cfg.MessagingPlatform)
	})

	t.Run("UnknownPlatform", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("MESSAGING_PLATFORM", "teams")

		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("InvalidNumbers", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DISPATCH_WORKERS", "many")
		_, err := LoadConfig()
		require.Error(t, err)

		setBaseEnv(t)
		t.Setenv("FOLLOWUP_DELAY_MINUTES", "1440")
		_, err = LoadConfig()
		require.Error(t, err)
	})
}
