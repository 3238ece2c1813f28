package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot, read from the environment.
type Config struct {
	// Slack
	SlackBotToken string
	SlackAppToken string
	Channel       string

	// Commands
	AddMatchCommand     string
	ReportResultCommand string

	// Database
	DatabaseURL string

	// Schedule
	Location   *time.Location
	WeeklyCron string
	DailyCron  string

	// Admin HTTP, disabled when AdminAddr is empty
	AdminAddr  string
	AdminToken string

	// Cloudflare R2 announcement archive, disabled unless all four are set
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	locName := getEnv("TZ_LOCATION", "Europe/Stockholm")
	loc, err := time.LoadLocation(locName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_LOCATION %q: %w", locName, err)
	}

	cfg := &Config{
		SlackBotToken:       os.Getenv("SLACK_BOT_TOKEN"),
		SlackAppToken:       os.Getenv("SLACK_APP_TOKEN"),
		Channel:             getEnv("SLACK_CHANNEL", "#pingis-kanal"),
		AddMatchCommand:     getEnv("CMD_ADD_MATCH", "/lägginmatch"),
		ReportResultCommand: getEnv("CMD_REPORT_RESULT", "/rapporteraresultat"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Location:            loc,
		WeeklyCron:          getEnv("WEEKLY_CRON", "0 9 * * 1"),
		DailyCron:           getEnv("DAILY_CRON", "0 18 * * *"),
		AdminAddr:           strings.TrimSpace(os.Getenv("ADMIN_ADDR")),
		AdminToken:          os.Getenv("ADMIN_TOKEN"),
		R2AccountID:         os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:       os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret:   os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:            os.Getenv("R2_BUCKET_NAME"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ArchiveEnabled reports whether every R2 setting is present.
func (c *Config) ArchiveEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2Bucket != ""
}

func (c *Config) validate() error {
	var errs []error
	if c.SlackBotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	if c.SlackAppToken == "" {
		errs = append(errs, errors.New("SLACK_APP_TOKEN is required"))
	} else if !strings.HasPrefix(c.SlackAppToken, "xapp-") {
		errs = append(errs, errors.New("SLACK_APP_TOKEN must be an app-level token (xapp-...)"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.AdminAddr != "" && c.AdminToken == "" {
		errs = append(errs, errors.New("ADMIN_TOKEN is required when ADMIN_ADDR is set"))
	}
	if c.AddMatchCommand == c.ReportResultCommand {
		errs = append(errs, errors.New("CMD_ADD_MATCH and CMD_REPORT_RESULT must differ"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
