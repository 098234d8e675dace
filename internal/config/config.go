package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Topic    string         `mapstructure:"topic"`
	Listener ListenerConfig `mapstructure:"listener"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Queue    QueueConfig    `mapstructure:"queue"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ListenerConfig struct {
	UDPAddress string `mapstructure:"udp_address"`
	TCPAddress string `mapstructure:"tcp_address"`
	Format     string `mapstructure:"format"`
}

type ResolverConfig struct {
	ReverseDNS bool          `mapstructure:"reverse_dns"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type QueueConfig struct {
	PollBatchSize int `mapstructure:"poll_batch_size"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	Name           string        `mapstructure:"name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("topic", "syslog")
	v.SetDefault("listener.udp_address", "0.0.0.0:514")
	v.SetDefault("listener.tcp_address", "")
	v.SetDefault("listener.format", "auto")
	v.SetDefault("resolver.reverse_dns", false)
	v.SetDefault("resolver.timeout", "2s")
	v.SetDefault("queue.poll_batch_size", 100)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.name", "syslog-source")
	v.SetDefault("nats.subject_prefix", "records")
	v.SetDefault("nats.max_reconnects", -1)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connect_timeout", "5s")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9108)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/syslog-source")
	}

	// Environment variables override
	v.SetEnvPrefix("SYSLOG_SOURCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the fields the connector cannot run without.
func (c *Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if strings.ContainsAny(c.Topic, " \t.*>") {
		return fmt.Errorf("topic %q contains characters not allowed in a subject", c.Topic)
	}
	if c.Listener.UDPAddress == "" && c.Listener.TCPAddress == "" {
		return fmt.Errorf("at least one of listener.udp_address or listener.tcp_address is required")
	}
	switch c.Listener.Format {
	case "rfc3164", "rfc5424", "rfc6587", "auto", "":
	default:
		return fmt.Errorf("unknown listener.format %q", c.Listener.Format)
	}
	if c.Queue.PollBatchSize <= 0 {
		return fmt.Errorf("queue.poll_batch_size must be positive")
	}
	if c.Resolver.ReverseDNS && c.Resolver.Timeout <= 0 {
		return fmt.Errorf("resolver.timeout must be positive when reverse_dns is enabled")
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port %d out of range", c.Metrics.Port)
	}
	return nil
}
