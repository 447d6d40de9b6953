package bot

// Config represents the configuration for the bot
type Config struct {
	// Long-polling timeout in seconds
	UpdateTimeout int
	// Log every Telegram API request
	Debug bool
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		UpdateTimeout: 60,
	}
}
