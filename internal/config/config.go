// Package config reads the bot's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present; a missing default file is not an error
const DefaultEnvFile = ".env"

// minTokenLength rejects obviously truncated bot tokens
const minTokenLength = 30

type Config struct {
	TelegramBotToken string
	VerbsPath        string

	StateDriver string
	StateDSN    string

	SpeedDuration time.Duration

	ReminderEnabled       bool
	ReminderInactivity    time.Duration
	ReminderCheckInterval time.Duration
	ReminderStartHour     int // UTC hours during which reminders may be sent
	ReminderEndHour       int
	SpeedSweepInterval    time.Duration

	UpdateTimeoutSec int
	Debug            bool
}

// Load reads envFile into the environment, without overriding variables that
// are already set, and then builds the config.
func Load(envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	reminderEnabled, err := parseBoolEnv("REMINDER_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	debug, err := parseBoolEnv("DEBUG", false)
	if err != nil {
		return Config{}, err
	}
	updateTimeout, err := parseIntEnv("UPDATE_TIMEOUT_SEC", 60)
	if err != nil {
		return Config{}, err
	}
	speed, err := parseDurationEnv("SPEED_DURATION", 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	inactivity, err := parseDurationEnv("REMINDER_INACTIVITY", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	checkInterval, err := parseDurationEnv("REMINDER_CHECK_INTERVAL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	sweepInterval, err := parseDurationEnv("SPEED_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	startHour, err := parseHourEnv("NOTIFICATION_START_HOUR", 0)
	if err != nil {
		return Config{}, err
	}
	endHour, err := parseHourEnv("NOTIFICATION_END_HOUR", 23)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		TelegramBotToken:      strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		VerbsPath:             getEnv("VERBS_PATH", ""),
		StateDriver:           strings.ToLower(getEnv("STATE_DRIVER", "memory")),
		StateDSN:              getEnv("STATE_DSN", ""),
		SpeedDuration:         speed,
		ReminderEnabled:       reminderEnabled,
		ReminderInactivity:    inactivity,
		ReminderCheckInterval: checkInterval,
		ReminderStartHour:     startHour,
		ReminderEndHour:       endHour,
		SpeedSweepInterval:    sweepInterval,
		UpdateTimeoutSec:      updateTimeout,
		Debug:                 debug,
	}

	if cfg.TelegramBotToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if len(cfg.TelegramBotToken) < minTokenLength {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN looks invalid: expected at least %d characters", minTokenLength)
	}
	if cfg.ReminderStartHour > cfg.ReminderEndHour {
		return Config{}, fmt.Errorf("NOTIFICATION_START_HOUR %d is after NOTIFICATION_END_HOUR %d", startHour, endHour)
	}
	switch cfg.StateDriver {
	case "memory", "sqlite3", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid STATE_DRIVER %q: expected memory, sqlite3 or postgres", cfg.StateDriver)
	}
	if cfg.StateDriver == "postgres" && cfg.StateDSN == "" {
		return Config{}, fmt.Errorf("STATE_DSN is required for the postgres driver")
	}

	return cfg, nil
}

// LoadVerbsPath reads envFile like Load and returns VERBS_PATH. It needs no
// bot token, so offline commands can use it.
func LoadVerbsPath(envFile string) (string, error) {
	if err := loadEnvFile(envFile); err != nil {
		return "", err
	}
	return getEnv("VERBS_PATH", ""), nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func parseHourEnv(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 || v > 23 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}
