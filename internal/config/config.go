package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig
	REST      RESTConfig
	Security  SecurityConfig
	Kafka     KafkaConfig
	Logging   LoggingConfig
	Websocket WebsocketConfig
	Console   ConsoleConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8081"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// RESTConfig points at the employee records API.
type RESTConfig struct {
	BaseURL string        `env:"REST_BASE_URL" envDefault:"http://localhost:8080/api"`
	Timeout time.Duration `env:"REST_TIMEOUT" envDefault:"10s"`
}

type SecurityConfig struct {
	JWTSecret    string `env:"JWT_SECRET"`
	JWTPublicKey string `env:"JWT_PUBLIC_KEY"`
}

// KafkaConfig configures the optional outcome audit stream. Publishing is
// disabled when no broker is set.
type KafkaConfig struct {
	Brokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Broker       string        `env:"KAFKA_BROKER"`
	OutcomeTopic string        `env:"KAFKA_OUTCOME_TOPIC" envDefault:"admin-console.outcomes"`
	BatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"50ms"`
}

type LoggingConfig struct {
	Directory string `env:"LOG_DIRECTORY" envDefault:"./logs"`
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"text"`
}

type WebsocketConfig struct {
	SendBuffer     int           `env:"WS_SEND_BUFFER" envDefault:"32"`
	CommandTimeout time.Duration `env:"WS_COMMAND_TIMEOUT" envDefault:"15s"`
	AllowedOrigins []string      `env:"WS_ALLOWED_ORIGINS" envSeparator:","`
}

type ConsoleConfig struct {
	PageSize int `env:"CONSOLE_PAGE_SIZE" envDefault:"10"`
}

// MetricsConfig guards /metrics with basic auth when both credentials are set.
type MetricsConfig struct {
	Enabled  bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path     string `env:"METRICS_PATH" envDefault:"/metrics"`
	Username string `env:"METRICS_USERNAME"`
	Password string `env:"METRICS_PASSWORD"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	brokers := make([]string, 0, len(c.Kafka.Brokers)+1)
	for _, broker := range c.Kafka.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		if legacy := strings.TrimSpace(c.Kafka.Broker); legacy != "" {
			brokers = append(brokers, legacy)
		}
	}
	c.Kafka.Brokers = brokers

	c.REST.BaseURL = strings.TrimRight(strings.TrimSpace(c.REST.BaseURL), "/")
	c.Server.Port = strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
	c.Security.JWTPublicKey = strings.ReplaceAll(c.Security.JWTPublicKey, `\n`, "\n")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		c.Metrics.Path = "/" + c.Metrics.Path
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	parsed, err := url.Parse(c.REST.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("REST_BASE_URL must be an absolute URL, got %q", c.REST.BaseURL)
	}
	if c.REST.Timeout <= 0 {
		return fmt.Errorf("REST_TIMEOUT must be positive, got %s", c.REST.Timeout)
	}
	if strings.TrimSpace(c.Security.JWTSecret) == "" && strings.TrimSpace(c.Security.JWTPublicKey) == "" {
		return fmt.Errorf("one of JWT_SECRET or JWT_PUBLIC_KEY is required")
	}
	if c.Console.PageSize <= 0 || c.Console.PageSize > 100 {
		return fmt.Errorf("CONSOLE_PAGE_SIZE must be between 1 and 100, got %d", c.Console.PageSize)
	}
	if c.Websocket.SendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.Websocket.SendBuffer)
	}
	return nil
}

// KafkaEnabled reports whether outcomes should be forwarded to kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.OutcomeTopic) != ""
}

// Hostname is used to tag log output; it never fails.
func Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
