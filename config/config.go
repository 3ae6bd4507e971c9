package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DatabaseURLEnv overrides the configured connection string when set.
const DatabaseURLEnv = "FLIGHTS_DB_URL"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Query    QueryConfig    `yaml:"query"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
	Report   ReportConfig   `yaml:"report"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" validate:"oneof=sqlite postgres"`
	Path     string `yaml:"path" validate:"required_if=Driver sqlite"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DSN returns the connection string for the configured driver. An explicit URL wins.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(d.SSLMode)
	}
	return u.String()
}

type QueryConfig struct {
	DelayThresholdMinutes int `yaml:"delay_threshold_minutes" validate:"gte=1"`
	BreakerFailures       int `yaml:"breaker_failures" validate:"gte=1"`
	BreakerTimeoutSeconds int `yaml:"breaker_timeout_seconds" validate:"gte=1"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers          []string `yaml:"brokers"`
	QueryEventsTopic string   `yaml:"query_events_topic"`
	GroupID          string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.QueryEventsTopic != ""
}

type WorkerConfig struct {
	SummaryIntervalMinutes int `yaml:"summary_interval_minutes" validate:"gte=1"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// Default returns a configuration that serves a local sqlite file.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{Address: ":5002", CORSOrigins: []string{"*"}},
		GRPC: GRPCConfig{Address: ":5003"},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "data/db/flights.sqlite3",
			Port:    5432,
			SSLMode: "disable",
		},
		Query: QueryConfig{
			DelayThresholdMinutes: 20,
			BreakerFailures:       5,
			BreakerTimeoutSeconds: 30,
		},
		Kafka:  KafkaConfig{QueryEventsTopic: "flightdata.query-events", GroupID: "flightdata-usage"},
		Worker: WorkerConfig{SummaryIntervalMinutes: 5},
		Log:    LogConfig{Level: "info", Format: "json"},
		Report: ReportConfig{OutputDir: "data/output"},
	}
}

// LoadConfig reads the YAML file at path over the defaults, applies the environment
// override and validates the result. A missing file is not an error: defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	v := strings.TrimSpace(os.Getenv(DatabaseURLEnv))
	if v == "" {
		return
	}
	c.Database.URL = v
	if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
		c.Database.Driver = "postgres"
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
