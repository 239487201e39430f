package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"law_mirror/internal/domain"
)

type Config struct {
	Discord  DiscordConfig  `yaml:"discord"`
	Output   OutputConfig   `yaml:"output"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Database DatabaseConfig `yaml:"database"`
	Sync     SyncConfig     `yaml:"sync"`
	LogLevel string         `yaml:"log_level"`
}

type DiscordConfig struct {
	Token          string   `yaml:"token"`
	GuildID        string   `yaml:"guild_id"`
	Channels       []string `yaml:"channels"`
	SpecialChannel string   `yaml:"special_channel"`
	ThreadKinds    []string `yaml:"thread_kinds"`
	MessageLimit   int      `yaml:"message_limit"`
}

// Kinds returns the configured thread kinds as domain values.
func (d DiscordConfig) Kinds() []domain.ThreadKind {
	kinds := make([]domain.ThreadKind, 0, len(d.ThreadKinds))
	for _, k := range d.ThreadKinds {
		kinds = append(kinds, domain.ThreadKind(k))
	}
	return kinds
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Enabled reports whether record publishing is configured.
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether the optional run-history database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type SyncConfig struct {
	Interval   time.Duration `yaml:"interval"`
	RunTimeout time.Duration `yaml:"run_timeout"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if len(c.Discord.ThreadKinds) == 0 {
		c.Discord.ThreadKinds = []string{
			string(domain.ThreadKindArchivedPublic),
			string(domain.ThreadKindActive),
		}
	}
	if c.Discord.MessageLimit == 0 {
		c.Discord.MessageLimit = 100
	}
	if c.Output.Path == "" {
		c.Output.Path = "web/laws.json"
	}
	if c.RabbitMQ.Enabled() {
		if c.RabbitMQ.Exchange == "" {
			c.RabbitMQ.Exchange = "law_mirror"
		}
		if c.RabbitMQ.RoutingKey == "" {
			c.RabbitMQ.RoutingKey = "laws"
		}
		if c.RabbitMQ.QueueName == "" {
			c.RabbitMQ.QueueName = "laws_site"
		}
	}
	if c.Database.Enabled() && c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 15 * time.Minute
	}
	if c.Sync.RunTimeout == 0 {
		c.Sync.RunTimeout = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord.token is required")
	}
	if c.Discord.GuildID == "" {
		return fmt.Errorf("discord.guild_id is required")
	}
	if len(c.Discord.Channels) == 0 {
		return fmt.Errorf("discord.channels must list at least one channel")
	}
	for _, k := range c.Discord.ThreadKinds {
		switch domain.ThreadKind(k) {
		case domain.ThreadKindActive, domain.ThreadKindArchivedPublic, domain.ThreadKindArchivedPrivate:
		default:
			return fmt.Errorf("unknown thread kind %q", k)
		}
	}
	return nil
}
