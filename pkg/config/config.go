package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"EdgePull/internal/domain/models"
)

// Sink backends.
const (
	SinkFile       = "file"
	SinkClickHouse = "clickhouse"
	SinkKafka      = "kafka"
	SinkRedis      = "redis"
)

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"` // json or console
	Dir      string `yaml:"dir"`    // empty = stdout only
	RotateMB int    `yaml:"rotate_mb"`
	Keep     int    `yaml:"keep"`
}

// SinkConfig selects and tunes the decision event sink.
type SinkConfig struct {
	Backend       string        `yaml:"backend"` // file, clickhouse, kafka, redis
	Dir           string        `yaml:"dir"`     // file backend
	BufferSize    int           `yaml:"buffer_size"`
	AppendTimeout time.Duration `yaml:"append_timeout"`
}

type ClickHouseConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Database     string        `yaml:"database"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Table        string        `yaml:"table"`
	UseHTTP      bool          `yaml:"use_http"`
	AsyncInsert  bool          `yaml:"async_insert"`
	WaitForAsync bool          `yaml:"wait_for_async_insert"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	RequiredAcks int           `yaml:"required_acks"`
	Compression  string        `yaml:"compression"`
	MaxAttempts  int           `yaml:"max_attempts"`
	BatchSize    int           `yaml:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Async        bool          `yaml:"async"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"max_len"`
}

// ExecutionConfig carries the execution limits shared by all edges.
type ExecutionConfig struct {
	MaxExposurePerSymbolPct float64 `yaml:"max_exposure_per_symbol_pct"`
	MinLot                  float64 `yaml:"min_lot"`
	VolumeStep              float64 `yaml:"volume_step"`
}

// RiskConfig carries the static pre-trade risk limits.
type RiskConfig struct {
	PerTradeRiskPct   float64 `yaml:"per_trade_risk_pct"`
	MaxDailyLossPct   float64 `yaml:"max_daily_loss_pct"`
	MaxSpreadPoints   int     `yaml:"max_spread_points"`
	MaxSlippagePoints int     `yaml:"max_slippage_points"`
	MaxOpenPositions  int     `yaml:"max_open_positions"`
	MaxTradesPerHour  int     `yaml:"max_trades_per_hour"`
	CooldownSeconds   int     `yaml:"cooldown_seconds"`
}

// Config is the full static configuration, loaded once at process start and
// read-only afterwards.
type Config struct {
	Environment string                       `yaml:"environment"`
	Server      ServerConfig                 `yaml:"server"`
	Logging     LoggingConfig                `yaml:"logging"`
	Sink        SinkConfig                   `yaml:"sink"`
	ClickHouse  ClickHouseConfig             `yaml:"clickhouse"`
	Kafka       KafkaConfig                  `yaml:"kafka"`
	Redis       RedisConfig                  `yaml:"redis"`
	Execution   ExecutionConfig              `yaml:"execution"`
	Risk        RiskConfig                   `yaml:"risk"`
	Edges       map[string]models.EdgeConfig `yaml:"edges"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SINK_BACKEND"); v != "" {
		c.Sink.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Sink.Backend {
	case SinkFile, SinkClickHouse, SinkKafka, SinkRedis:
	default:
		return fmt.Errorf("sink.backend must be one of file, clickhouse, kafka, redis; got %q", c.Sink.Backend)
	}
	if len(c.Edges) == 0 {
		return fmt.Errorf("edges cannot be empty")
	}
	for name, e := range c.Edges {
		if e.HorizonSeconds <= 0 {
			return fmt.Errorf("edge %s: horizon_seconds must be positive", name)
		}
		if e.ATRLen <= 0 {
			return fmt.Errorf("edge %s: atr_len must be positive", name)
		}
		if e.TPMult <= 0 || e.SLMult <= 0 {
			return fmt.Errorf("edge %s: tp_mult and sl_mult must be positive", name)
		}
		if e.TimeoutSeconds <= 0 {
			return fmt.Errorf("edge %s: timeout_seconds must be positive", name)
		}
		if e.EntryThreshold <= 0 {
			return fmt.Errorf("edge %s: entry_threshold must be positive", name)
		}
	}
	if c.Execution.MinLot <= 0 {
		return fmt.Errorf("execution.min_lot must be positive")
	}
	if c.Execution.VolumeStep <= 0 {
		return fmt.Errorf("execution.volume_step must be positive")
	}
	if c.Risk.PerTradeRiskPct <= 0 {
		return fmt.Errorf("risk.per_trade_risk_pct must be positive")
	}
	return nil
}
