// Package config provides configuration types and loading for clawmon.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: Paths, Model, Channels, Admin, Scheduler.
type Config struct {
	Paths     PathsConfig     `json:"paths"`
	Model     ModelConfig     `json:"model"`
	Channels  ChannelsConfig  `json:"channels"`
	Admin     AdminConfig     `json:"admin"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

// PathsConfig groups filesystem path settings.
type PathsConfig struct {
	// DataDir holds sessions, the run log, and other operator data.
	// Defaults to ~/.clawmon.
	DataDir string `json:"dataDir" envconfig:"DATA_DIR"`
}

// ModelConfig groups LLM model and agent-loop settings.
type ModelConfig struct {
	Name          string  `json:"name" envconfig:"MODEL"`
	MaxTokens     int     `json:"maxTokens" envconfig:"MAX_TOKENS"`
	Temperature   float64 `json:"temperature" envconfig:"TEMPERATURE"`
	MaxIterations int     `json:"maxIterations" envconfig:"MAX_ITERATIONS"`
}

// ChannelsConfig contains all channel configurations.
type ChannelsConfig struct {
	Slack SlackConfig `json:"slack"`
}

// SlackConfig configures the Slack channel.
type SlackConfig struct {
	Enabled  bool   `json:"enabled" envconfig:"ENABLED"`
	BotToken string `json:"botToken" envconfig:"BOT_TOKEN"`
}

// AdminConfig configures the admin console.
type AdminConfig struct {
	Host string `json:"host" envconfig:"HOST"`
	Port int    `json:"port" envconfig:"PORT"`
	// Password gates the whole console via HTTP Basic auth.
	// Empty means the console is open.
	Password string `json:"password" envconfig:"PASSWORD"`
	// FileTreeDepth bounds the /api/files walk.
	FileTreeDepth int `json:"fileTreeDepth" envconfig:"FILE_TREE_DEPTH"`
}

// SchedulerConfig configures the cron scheduler.
type SchedulerConfig struct {
	Enabled      bool          `json:"enabled" envconfig:"ENABLED"`
	TickInterval time.Duration `json:"tickInterval"`
	Jobs         []JobConfig   `json:"jobs"`
}

// JobConfig declares a scheduled job in the config file.
type JobConfig struct {
	Name    string `json:"name"`
	Cron    string `json:"cron"`
	Content string `json:"content"`
	Channel string `json:"channel,omitempty"`
	ChatID  string `json:"chatId,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir: "~/.clawmon",
		},
		Model: ModelConfig{
			Name:          "anthropic/claude-sonnet-4-5",
			MaxTokens:     8192,
			Temperature:   0.7,
			MaxIterations: 20,
		},
		Admin: AdminConfig{
			Host:          "0.0.0.0",
			Port:          18791,
			FileTreeDepth: 3,
		},
		Scheduler: SchedulerConfig{
			Enabled:      false,
			TickInterval: 60 * time.Second,
		},
	}
}

// EnabledChannels returns the names of all configured channels, in a fixed
// declaration order.
func (c *Config) EnabledChannels() []string {
	var names []string
	if c.Channels.Slack.Enabled {
		names = append(names, "slack")
	}
	return names
}
