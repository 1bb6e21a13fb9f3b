package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type MessagingPlatform string

const (
	MessagingPlatformSlack   MessagingPlatform = "slack"
	MessagingPlatformDiscord MessagingPlatform = "discord"
)

type SlackConfig struct {
	BotToken        string
	AlertWebhookURL string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.BotToken != ""
	// Note: AlertWebhookURL is optional
}

type DiscordConfig struct {
	BotToken string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

type SchedulerConfig struct {
	FollowupDelay   time.Duration
	JobTimeout      time.Duration
	InstanceLockDir string
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	ServerLogsURL      string
	MessagingPlatform  MessagingPlatform
	DispatchWorkers    int

	SchedulerConfig SchedulerConfig
	SlackConfig     SlackConfig
	DiscordConfig   DiscordConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	dispatchWorkers, err := getEnvInt("DISPATCH_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	followupDelayMinutes, err := getEnvInt("FOLLOWUP_DELAY_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	jobTimeoutSeconds, err := getEnvInt("JOB_TIMEOUT_SECONDS", 120)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		MessagingPlatform:  MessagingPlatform(getEnvWithDefault("MESSAGING_PLATFORM", string(MessagingPlatformSlack))),
		DispatchWorkers:    dispatchWorkers,

		SchedulerConfig: SchedulerConfig{
			FollowupDelay:   time.Duration(followupDelayMinutes) * time.Minute,
			JobTimeout:      time.Duration(jobTimeoutSeconds) * time.Second,
			InstanceLockDir: os.Getenv("INSTANCE_LOCK_DIR"),
		},

		SlackConfig: SlackConfig{
			BotToken:        os.Getenv("SLACK_BOT_TOKEN"),
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},

		DiscordConfig: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *AppConfig) validate() error {
	if c.DispatchWorkers < 1 {
		return fmt.Errorf("DISPATCH_WORKERS must be at least 1, got %d", c.DispatchWorkers)
	}
	if c.SchedulerConfig.FollowupDelay < 0 || c.SchedulerConfig.FollowupDelay >= 24*time.Hour {
		return fmt.Errorf("FOLLOWUP_DELAY_MINUTES must be between 0 and 1439")
	}
	if c.SchedulerConfig.JobTimeout <= 0 {
		return fmt.Errorf("JOB_TIMEOUT_SECONDS must be positive")
	}

	switch c.MessagingPlatform {
	case MessagingPlatformSlack:
		if !c.SlackConfig.IsConfigured() {
			return fmt.Errorf("slack is the messaging platform but SLACK_BOT_TOKEN is not set")
		}
		log.Printf("✅ Slack messaging configured")
	case MessagingPlatformDiscord:
		if !c.DiscordConfig.IsConfigured() {
			return fmt.Errorf("discord is the messaging platform but DISCORD_BOT_TOKEN is not set")
		}
		log.Printf("✅ Discord messaging configured")
	default:
		return fmt.Errorf("unsupported MESSAGING_PLATFORM %q", c.MessagingPlatform)
	}

	if c.SlackConfig.AlertWebhookURL == "" {
		log.Printf("⚠️ SLACK_ALERT_WEBHOOK_URL not set - background job alerts will only be logged")
	}
	return nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}
